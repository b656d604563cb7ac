// Package enrich fetches live third-party data and renders it as short text
// blocks that can be appended to a persona instruction.
package enrich

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type Status int

const (
	StatusOK Status = iota
	// StatusDisabled means the enricher is not configured, e.g. its
	// credential is missing. The text is empty.
	StatusDisabled
	// StatusFailed means an upstream call failed. The text is a placeholder.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDisabled:
		return "disabled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is owned by the request that produced it and never shared.
type Result struct {
	Source string
	Text   string
	Status Status
	Err    error
}

type Enricher interface {
	Name() string
	// Heading introduces the text block inside the composed instruction.
	Heading() string
	// Fetch never returns an error: failures are reported through the
	// Result status.
	Fetch(ctx context.Context) Result
}

func ok(source, text string) Result {
	return Result{Source: source, Text: text, Status: StatusOK}
}

func disabled(source string) Result {
	return Result{Source: source, Status: StatusDisabled}
}

func failed(source, placeholder string, err error) Result {
	return Result{Source: source, Text: placeholder, Status: StatusFailed, Err: err}
}

// Gather runs every enricher concurrently and waits for all of them. Results
// come back in the order of enrichers.
func Gather(ctx context.Context, enrichers []Enricher) []Result {
	results := make([]Result, len(enrichers))
	var g errgroup.Group
	for i, e := range enrichers {
		g.Go(func() error {
			results[i] = e.Fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

type base struct {
	client *http.Client
	now    func() time.Time
}

func newBase(opts []Option) base {
	b := base{client: http.DefaultClient, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type Option func(*base)

func WithHTTPClient(client *http.Client) Option {
	return func(b *base) {
		if client != nil {
			b.client = client
		}
	}
}

// WithClock replaces time.Now, used to compute date windows.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}
