package scraper

import (
	"fmt"
	"sort"
	"time"
)

// Factory builds an adapter from its base URL override (empty means the
// bookmaker's default host), the sports to fetch, and the HTTP timeout.
type Factory func(baseURL string, sports []string, timeout time.Duration) Adapter

var factories = map[string]Factory{
	draftKingsName: func(baseURL string, sports []string, timeout time.Duration) Adapter {
		return NewDraftKings(baseURL, sports, timeout)
	},
	fanDuelName: func(baseURL string, sports []string, timeout time.Duration) Adapter {
		return NewFanDuel(baseURL, sports, timeout)
	},
	betMGMName: func(baseURL string, sports []string, timeout time.Duration) Adapter {
		return NewBetMGM(baseURL, sports, timeout)
	},
}

// Available returns the registered bookmaker names, sorted.
func Available() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs one adapter per requested bookmaker name. baseURLs maps
// bookmaker name to a host override, used mainly by tests pointing adapters
// at a local server. Unknown names are an error rather than silently skipped
// so a config typo does not quietly drop a source.
func Build(names []string, baseURLs map[string]string, sports []string, timeout time.Duration) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(names))
	for _, name := range names {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("scraper: unknown bookmaker %q (available: %v)", name, Available())
		}
		adapters = append(adapters, factory(baseURLs[name], sports, timeout))
	}
	return adapters, nil
}
