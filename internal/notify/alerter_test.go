package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyphlex/web-scapers/internal/domain"
)

type recordingSender struct {
	name     string
	err      error
	titles   []string
	messages []string
}

func (r *recordingSender) Send(_ context.Context, title, message string) error {
	if r.err != nil {
		return r.err
	}
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingSender) Name() string { return r.name }

func opportunity(price float64) domain.ArbitrageOpportunity {
	return domain.ArbitrageOpportunity{
		ID:         "opp-1",
		Generation: "gen-1",
		Sport:      "NFL",
		EventID:    "e1",
		EventName:  "Chiefs @ Bills",
		Market:     "Moneyline",
		Legs: []domain.ArbitrageLeg{
			{Outcome: "Chiefs", Bookmaker: "DraftKings", Price: price, Stake: 0.468},
			{Outcome: "Bills", Bookmaker: "FanDuel", Price: 2.2, Stake: 0.532},
		},
		ImpliedSum:    0.854,
		Profitable:    true,
		ProfitPercent: 17.02,
	}
}

func TestAlerterSendsProfitableOnly(t *testing.T) {
	sender := &recordingSender{name: "test"}
	a := NewAlerter([]Sender{sender}, 0, slog.Default())

	flat := opportunity(2.5)
	flat.Profitable = false

	a.AlertArbitrage(context.Background(), []domain.ArbitrageOpportunity{flat, opportunity(2.5)})

	require.Len(t, sender.titles, 1)
	assert.Contains(t, sender.titles[0], "Chiefs @ Bills")
	assert.Contains(t, sender.titles[0], "+17.02%")
	assert.Contains(t, sender.messages[0], "Chiefs: 2.50 @ DraftKings")
	assert.Contains(t, sender.messages[0], "stake 46.8%")
}

func TestAlerterCooldownSuppressesRepeats(t *testing.T) {
	sender := &recordingSender{name: "test"}
	a := NewAlerter([]Sender{sender}, time.Hour, slog.Default())

	a.AlertArbitrage(context.Background(), []domain.ArbitrageOpportunity{opportunity(2.5)})
	a.AlertArbitrage(context.Background(), []domain.ArbitrageOpportunity{opportunity(2.5)})
	assert.Len(t, sender.titles, 1, "unchanged opportunity should be suppressed")

	// A price move is a different opportunity.
	a.AlertArbitrage(context.Background(), []domain.ArbitrageOpportunity{opportunity(2.6)})
	assert.Len(t, sender.titles, 2)
}

func TestAlerterSenderFailureDoesNotBlockOthers(t *testing.T) {
	broken := &recordingSender{name: "broken", err: errors.New("boom")}
	healthy := &recordingSender{name: "healthy"}
	a := NewAlerter([]Sender{broken, healthy}, 0, slog.Default())

	a.AlertArbitrage(context.Background(), []domain.ArbitrageOpportunity{opportunity(2.5)})

	assert.Len(t, healthy.titles, 1)
}

func TestAlerterDisabledWithoutSenders(t *testing.T) {
	a := NewAlerter(nil, 0, slog.Default())
	assert.False(t, a.Enabled())
	// No senders, no panic.
	a.AlertArbitrage(context.Background(), []domain.ArbitrageOpportunity{opportunity(2.5)})
}
