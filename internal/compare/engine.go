// Package compare derives cross-bookmaker analytics from a snapshot: the
// best available price per outcome and arbitrage opportunities. All
// arithmetic assumes decimal odds; conversion happened at ingest, never
// here.
package compare

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kyphlex/web-scapers/internal/domain"
)

type groupKey struct {
	eventID string
	market  string
	outcome string
}

// Compare groups the snapshot's records by (event, market, outcome),
// optionally filtered by sport and/or bookmaker (both case-insensitive), and
// selects the best price per outcome. Decimal odds, so higher is better;
// ties go to the bookmaker that sorts first by name. Results are ordered by
// (event_id, market, outcome).
func Compare(snap domain.Snapshot, sport, bookmaker string) []domain.ComparisonResult {
	groups := make(map[groupKey]*domain.ComparisonResult)

	for _, r := range snap.Records {
		if sport != "" && !strings.EqualFold(r.Sport, sport) {
			continue
		}
		if bookmaker != "" && !strings.EqualFold(r.Bookmaker, bookmaker) {
			continue
		}

		key := groupKey{eventID: r.EventID, market: r.Market, outcome: r.Outcome}
		group, ok := groups[key]
		if !ok {
			group = &domain.ComparisonResult{
				Sport:     r.Sport,
				EventID:   r.EventID,
				EventName: r.EventName,
				Market:    r.Market,
				Outcome:   r.Outcome,
			}
			groups[key] = group
		}

		group.Prices = append(group.Prices, domain.BookmakerPrice{
			Bookmaker: r.Bookmaker,
			Price:     r.Price,
		})
		if better(r.Price, r.Bookmaker, group.BestPrice, group.BestBookmaker) {
			group.BestPrice = r.Price
			group.BestBookmaker = r.Bookmaker
		}
	}

	results := make([]domain.ComparisonResult, 0, len(groups))
	for _, group := range groups {
		sort.Slice(group.Prices, func(i, j int) bool {
			return group.Prices[i].Bookmaker < group.Prices[j].Bookmaker
		})
		results = append(results, *group)
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		return a.Outcome < b.Outcome
	})
	return results
}

// better reports whether (price, bookmaker) beats the current best. An empty
// current bookmaker means no best has been chosen yet.
func better(price float64, bookmaker string, bestPrice float64, bestBookmaker string) bool {
	if bestBookmaker == "" {
		return true
	}
	if price != bestPrice {
		return price > bestPrice
	}
	return bookmaker < bestBookmaker
}

// FindArbitrage scans one snapshot for markets whose best prices across
// bookmakers imply a total probability below 1. Every leg comes from the
// same snapshot generation. Markets with fewer than two quoted outcomes are
// skipped outright: a single quoted outcome cannot form a mutually exclusive
// outcome set, so reporting it would be noise rather than a zero-margin
// result. Complete markets are always reported with the Profitable flag set
// accordingly.
func FindArbitrage(snap domain.Snapshot, sport string) []domain.ArbitrageOpportunity {
	type marketKey struct {
		eventID string
		market  string
	}
	type marketGroup struct {
		sport     string
		eventName string
		best      map[string]domain.BookmakerPrice // outcome -> best price
	}

	markets := make(map[marketKey]*marketGroup)
	for _, r := range snap.Records {
		if sport != "" && !strings.EqualFold(r.Sport, sport) {
			continue
		}

		key := marketKey{eventID: r.EventID, market: r.Market}
		group, ok := markets[key]
		if !ok {
			group = &marketGroup{
				sport:     r.Sport,
				eventName: r.EventName,
				best:      make(map[string]domain.BookmakerPrice),
			}
			markets[key] = group
		}

		cur, ok := group.best[r.Outcome]
		if !ok || better(r.Price, r.Bookmaker, cur.Price, cur.Bookmaker) {
			group.best[r.Outcome] = domain.BookmakerPrice{Bookmaker: r.Bookmaker, Price: r.Price}
		}
	}

	var opps []domain.ArbitrageOpportunity
	for key, group := range markets {
		if len(group.best) < 2 {
			continue
		}

		outcomes := make([]string, 0, len(group.best))
		for outcome := range group.best {
			outcomes = append(outcomes, outcome)
		}
		sort.Strings(outcomes)

		impliedSum := 0.0
		legs := make([]domain.ArbitrageLeg, 0, len(outcomes))
		for _, outcome := range outcomes {
			bp := group.best[outcome]
			impliedSum += 1.0 / bp.Price
			legs = append(legs, domain.ArbitrageLeg{
				Outcome:   outcome,
				Bookmaker: bp.Bookmaker,
				Price:     bp.Price,
			})
		}

		// Stake split that equalizes payout across legs (from the
		// implied-probability shares).
		for i := range legs {
			legs[i].Stake = (1.0 / legs[i].Price) / impliedSum
		}

		opp := domain.ArbitrageOpportunity{
			ID:         uuid.NewString(),
			Generation: snap.Generation,
			Sport:      group.sport,
			EventID:    key.eventID,
			EventName:  group.eventName,
			Market:     key.market,
			Legs:       legs,
			ImpliedSum: impliedSum,
			Profitable: impliedSum < 1.0,
		}
		if opp.Profitable {
			opp.ProfitPercent = (1.0/impliedSum - 1.0) * 100.0
		}
		opps = append(opps, opp)
	}

	sort.Slice(opps, func(i, j int) bool {
		a, b := opps[i], opps[j]
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		return a.Market < b.Market
	})
	return opps
}
