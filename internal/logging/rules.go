// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"log/slog"
	"strings"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
)

// ParseRules parses a rule string such as "info;reseed=debug;seed=warn". An
// entry without a module, or with the module "*", sets the default level.
func ParseRules(s string) ([]Rule, error) {
	var rules []Rule
	for _, entry := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, "=")
		if len(parts) > 2 {
			return nil, errors.BadRequest.WithFormat("invalid log rule %q", entry)
		}

		var level slog.Level
		err := level.UnmarshalText([]byte(parts[len(parts)-1]))
		if err != nil {
			return nil, errors.BadRequest.WithCauseAndFormat(err, "invalid log rule %q", entry)
		}

		var rule Rule
		rule.Level = level
		if len(parts) == 2 && parts[0] != "*" {
			rule.Module = strings.TrimSpace(parts[0])
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
