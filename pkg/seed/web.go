// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package seed

import (
	"bufio"
	"context"
	"encoding/hex"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// WebFormat is the response format of a web seed service.
type WebFormat int

const (
	// WebJSON expects a JSON object whose "data" field is an array of hex
	// strings, as served by qrng.anu.edu.au.
	WebJSON WebFormat = iota

	// WebPlain expects one hex byte per line, as served by random.org.
	WebPlain
)

const (
	DefaultWebRetryDelay = 10 * time.Second

	webBytesPerString = 1024
	webJSONMaxRequest = 1024 * webBytesPerString
	webPlainMaxReq    = 10000
)

// Web downloads seed material from a web service. After any failure it is
// not worth trying again until RetryDelay has passed.
type Web struct {
	URL        string
	Format     WebFormat
	Client     *http.Client
	RetryDelay time.Duration
	UserAgent  string

	// MaxRequestSize is the largest number of bytes fetched per request.
	// Larger seeds are fetched in batches.
	MaxRequestSize int

	sem          *semaphore.Weighted
	earliestNext atomic.Int64
}

// NewWeb returns a web source. Only one request is in flight at a time.
func NewWeb(rawURL string, format WebFormat, retryDelay time.Duration) *Web {
	return &Web{
		URL:        rawURL,
		Format:     format,
		RetryDelay: retryDelay,
		UserAgent:  "betterrand",
		sem:        semaphore.NewWeighted(1),
	}
}

func (s *Web) String() string { return s.URL }

func (s *Web) IsWorthTrying() bool {
	return s.RetryDelay <= 0 || time.Now().UnixNano() >= s.earliestNext.Load()
}

func (s *Web) GenerateSeed(n int) ([]byte, error) { return generate(s, n) }

func (s *Web) Fill(buf []byte) error {
	return s.FillContext(context.Background(), buf)
}

// FillContext is Fill with a context for the HTTP requests.
func (s *Web) FillContext(ctx context.Context, buf []byte) error {
	if !s.IsWorthTrying() {
		return errors.SeedSourceFailure.WithFormat("not retrying %s until %v", s.URL, time.Unix(0, s.earliestNext.Load()))
	}

	if s.sem != nil {
		err := s.sem.Acquire(ctx, 1)
		if err != nil {
			return errors.SeedSourceFailure.WithCauseAndFormat(err, "wait for %s", s.URL)
		}
		defer s.sem.Release(1)
	}

	batch := s.maxRequestSize()
	for off := 0; off < len(buf); {
		n := min(len(buf)-off, batch)
		err := s.download(ctx, buf[off:off+n])
		if err != nil {
			if s.RetryDelay > 0 {
				s.earliestNext.Store(time.Now().Add(s.RetryDelay).UnixNano())
			}
			return errors.SeedSourceFailure.WithCauseAndFormat(err, "download from %s", s.URL)
		}
		off += n
	}
	return nil
}

func (s *Web) maxRequestSize() int {
	if s.MaxRequestSize > 0 {
		return s.MaxRequestSize
	}
	if s.Format == WebPlain {
		return webPlainMaxReq
	}
	return webJSONMaxRequest
}

func (s *Web) requestURL(n int) (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	switch s.Format {
	case WebPlain:
		q.Set("num", strconv.Itoa(n))
		q.Set("min", "0")
		q.Set("max", "255")
		q.Set("col", "1")
		q.Set("base", "16")
		q.Set("format", "plain")
		q.Set("rnd", "new")
	default:
		count, size := webStrings(n)
		q.Set("length", strconv.Itoa(count))
		q.Set("type", "hex16")
		q.Set("size", strconv.Itoa(size))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// webStrings returns the number of hex strings and bytes per string needed
// for n bytes.
func webStrings(n int) (count, size int) {
	count = (n + webBytesPerString - 1) / webBytesPerString
	if count > 1 {
		return count, webBytesPerString
	}
	return 1, n
}

func (s *Web) download(ctx context.Context, buf []byte) error {
	u, err := s.requestURL(len(buf))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.UserAgent)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.SeedSourceFailure.WithFormat("unexpected status %s", resp.Status)
	}

	if s.Format == WebPlain {
		return readPlain(bufio.NewScanner(resp.Body), buf)
	}

	var body struct {
		Data    []string `json:"data"`
		Success *bool    `json:"success"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return errors.SeedSourceFailure.WithCauseAndFormat(err, "unparseable JSON response")
	}
	if body.Success != nil && !*body.Success {
		return errors.SeedSourceFailure.With("service reported failure")
	}
	return readJSONStrings(body.Data, buf)
}

func readJSONStrings(data []string, buf []byte) error {
	count, size := webStrings(len(buf))
	if len(data) != count {
		return errors.SeedSourceFailure.WithFormat("wrong size response: expected %d byte arrays, got %d", count, len(data))
	}
	for i, str := range data {
		if len(str) != 2*size {
			return errors.SeedSourceFailure.WithFormat("string %d has the wrong length: expected %d, got %d", i, 2*size, len(str))
		}
		n := min(size, len(buf)-i*size)
		_, err := hex.Decode(buf[i*size:i*size+n], []byte(str[:2*n]))
		if err != nil {
			return errors.SeedSourceFailure.WithCauseAndFormat(err, "malformed hex")
		}
	}
	return nil
}

func readPlain(sc *bufio.Scanner, buf []byte) error {
	for i := range buf {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return errors.SeedSourceFailure.WithFormat("insufficient data: expected %d bytes, got %d", len(buf), i)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(sc.Text()), 16, 8)
		if err != nil {
			return errors.SeedSourceFailure.WithCauseAndFormat(err, "non-numeric data")
		}
		buf[i] = byte(v)
	}
	return nil
}
