// Package scraper defines the source adapter contract and one adapter per
// supported bookmaker. Every adapter fetches the book's public JSON feed,
// converts the quoted American odds to decimal at ingest, and returns plain
// domain records. Adapters hold no state between calls, so each Fetch
// reflects the remote book as it is right now.
package scraper

import (
	"context"
	"fmt"

	"github.com/kyphlex/web-scapers/internal/domain"
)

// Adapter fetches current odds from one bookmaker. An adapter never assumes
// another adapter succeeded and reports failure only through its own return
// value; isolating that failure is the orchestrator's job.
type Adapter interface {
	Bookmaker() string
	Fetch(ctx context.Context) ([]domain.OddsRecord, error)
}

// ErrorKind classifies what went wrong during a fetch.
type ErrorKind string

const (
	ErrNetwork ErrorKind = "network"
	ErrParse   ErrorKind = "parse"
	ErrFormat  ErrorKind = "format"
)

// FetchError is the error every adapter wraps its failures in. It carries
// the bookmaker identity and a coarse classification so the orchestrator can
// log and collect failures without knowing adapter internals.
type FetchError struct {
	Bookmaker string
	Kind      ErrorKind
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Bookmaker, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func fetchErr(bookmaker string, kind ErrorKind, err error) *FetchError {
	return &FetchError{Bookmaker: bookmaker, Kind: kind, Err: err}
}
