// Package notify pushes arbitrage alerts to operators. Alerts are
// dispatched to all configured senders (Telegram, Discord) and throttled so
// the same opportunity is not re-announced on every poll while it persists.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kyphlex/web-scapers/internal/domain"
)

// Sender is the interface each notification channel implements.
type Sender interface {
	// Send delivers an alert with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender.
	Name() string
}

// Alerter formats arbitrage opportunities and dispatches them to all
// senders. Opportunities are deduplicated on event, market, and leg prices;
// a repeat within the cooldown window is dropped, while a price move
// produces a fresh alert.
type Alerter struct {
	senders  []Sender
	cooldown time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewAlerter creates an Alerter delivering to the given senders. cooldown
// bounds how often an unchanged opportunity is re-announced; zero disables
// deduplication.
func NewAlerter(senders []Sender, cooldown time.Duration, logger *slog.Logger) *Alerter {
	return &Alerter{
		senders:  senders,
		cooldown: cooldown,
		logger:   logger.With(slog.String("component", "alerter")),
		seen:     make(map[string]time.Time),
	}
}

// Enabled reports whether any sender is configured.
func (a *Alerter) Enabled() bool {
	return len(a.senders) > 0
}

// AlertArbitrage dispatches one alert per profitable opportunity. Sender
// failures are logged, never returned; alerting is best effort and must not
// disturb the fetch cycle.
func (a *Alerter) AlertArbitrage(ctx context.Context, opps []domain.ArbitrageOpportunity) {
	if len(a.senders) == 0 {
		return
	}

	for _, opp := range opps {
		if !opp.Profitable || !a.shouldSend(opp) {
			continue
		}

		title := fmt.Sprintf("Arbitrage: %s %s (+%.2f%%)", opp.Sport, opp.EventName, opp.ProfitPercent)
		message := formatLegs(opp)

		for _, s := range a.senders {
			if err := s.Send(ctx, title, message); err != nil {
				a.logger.ErrorContext(ctx, "alert send failed",
					slog.String("sender", s.Name()),
					slog.String("event", opp.EventName),
					slog.String("error", err.Error()),
				)
				continue
			}
			a.logger.DebugContext(ctx, "alert sent",
				slog.String("sender", s.Name()),
				slog.String("event", opp.EventName),
			)
		}
	}
}

// shouldSend checks and updates the dedup window for the opportunity.
func (a *Alerter) shouldSend(opp domain.ArbitrageOpportunity) bool {
	if a.cooldown <= 0 {
		return true
	}

	key := dedupKey(opp)
	now := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	if last, ok := a.seen[key]; ok && now.Sub(last) < a.cooldown {
		return false
	}
	a.seen[key] = now

	// Drop stale entries so the map does not grow with dead events.
	for k, t := range a.seen {
		if now.Sub(t) >= a.cooldown {
			delete(a.seen, k)
		}
	}
	return true
}

// dedupKey identifies an opportunity by event, market, and leg prices.
func dedupKey(opp domain.ArbitrageOpportunity) string {
	var b strings.Builder
	b.WriteString(opp.EventID)
	b.WriteByte('|')
	b.WriteString(opp.Market)
	for _, leg := range opp.Legs {
		fmt.Fprintf(&b, "|%s@%.3f", leg.Bookmaker, leg.Price)
	}
	return b.String()
}

func formatLegs(opp domain.ArbitrageOpportunity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", opp.Market)
	for _, leg := range opp.Legs {
		fmt.Fprintf(&b, "%s: %.2f @ %s, stake %.1f%%\n",
			leg.Outcome, leg.Price, leg.Bookmaker, leg.Stake*100,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
