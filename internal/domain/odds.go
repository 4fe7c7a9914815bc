// Package domain defines the core data types shared by the scrapers,
// pipeline, stores, and the comparison engine: odds records, snapshots, and
// the results derived from them. Prices are always decimal odds; adapters
// convert their native representation exactly once at ingest.
package domain

import (
	"fmt"
	"time"
)

// OddsRecord is one price quoted by one bookmaker for one outcome of one
// market. Price is in decimal odds (payout = stake * price), so a valid
// price is strictly greater than 1.0.
type OddsRecord struct {
	Bookmaker string    `json:"bookmaker"`
	Sport     string    `json:"sport"`
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name"`
	Market    string    `json:"market"`
	Outcome   string    `json:"outcome"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the record invariants: non-empty identity fields and a
// decimal price above 1.0.
func (r OddsRecord) Validate() error {
	switch {
	case r.Bookmaker == "":
		return fmt.Errorf("odds record: empty bookmaker")
	case r.EventID == "":
		return fmt.Errorf("odds record: empty event id")
	case r.Market == "":
		return fmt.Errorf("odds record: empty market")
	case r.Outcome == "":
		return fmt.Errorf("odds record: empty outcome")
	case r.Price <= 1.0:
		return fmt.Errorf("odds record: decimal price %.4f not > 1.0 for %s %s/%s/%s",
			r.Price, r.Bookmaker, r.EventID, r.Market, r.Outcome)
	}
	return nil
}

// Key identifies a record uniquely within one snapshot.
func (r OddsRecord) Key() RecordKey {
	return RecordKey{
		Bookmaker: r.Bookmaker,
		EventID:   r.EventID,
		Market:    r.Market,
		Outcome:   r.Outcome,
	}
}

// RecordKey is the uniqueness key (bookmaker, event_id, market, outcome).
type RecordKey struct {
	Bookmaker string
	EventID   string
	Market    string
	Outcome   string
}

// Snapshot is one complete, internally consistent generation of odds data.
// A snapshot is built whole by a single orchestrator run and is never
// mutated afterwards; readers always see either one generation or the next,
// never a mix.
type Snapshot struct {
	Generation string       `json:"generation"`
	FetchedAt  time.Time    `json:"fetched_at"`
	Records    []OddsRecord `json:"records"`
}

// Bookmakers returns the sorted-insertion set of bookmaker names present in
// the snapshot.
func (s Snapshot) Bookmakers() []string {
	return s.distinct(func(r OddsRecord) string { return r.Bookmaker })
}

// Sports returns the distinct sports present in the snapshot.
func (s Snapshot) Sports() []string {
	return s.distinct(func(r OddsRecord) string { return r.Sport })
}

func (s Snapshot) distinct(field func(OddsRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.Records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
