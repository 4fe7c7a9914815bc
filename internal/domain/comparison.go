package domain

// BookmakerPrice is one bookmaker's quote for an outcome, used inside
// comparison results.
type BookmakerPrice struct {
	Bookmaker string  `json:"bookmaker"`
	Price     float64 `json:"price"`
}

// ComparisonResult holds every bookmaker's price for one outcome of one
// market, plus the best (highest decimal) price and who quoted it.
type ComparisonResult struct {
	Sport         string           `json:"sport"`
	EventID       string           `json:"event_id"`
	EventName     string           `json:"event_name"`
	Market        string           `json:"market"`
	Outcome       string           `json:"outcome"`
	Prices        []BookmakerPrice `json:"prices"`
	BestPrice     float64          `json:"best_price"`
	BestBookmaker string           `json:"best_bookmaker"`
}

// ArbitrageLeg is the selected best price for one outcome of an arbitrage
// opportunity, with the stake fraction that makes the payout identical
// across outcomes.
type ArbitrageLeg struct {
	Outcome   string  `json:"outcome"`
	Bookmaker string  `json:"bookmaker"`
	Price     float64 `json:"price"`
	Stake     float64 `json:"stake"` // fraction of total stake, sums to 1
}

// ArbitrageOpportunity is a market whose best prices across bookmakers have
// implied probabilities summing below 1, meaning a stake split over the legs
// returns a profit regardless of outcome. Generation records which snapshot
// the legs were taken from; legs are never mixed across generations.
type ArbitrageOpportunity struct {
	ID            string         `json:"id"`
	Generation    string         `json:"generation"`
	Sport         string         `json:"sport"`
	EventID       string         `json:"event_id"`
	EventName     string         `json:"event_name"`
	Market        string         `json:"market"`
	Legs          []ArbitrageLeg `json:"legs"`
	ImpliedSum    float64        `json:"implied_sum"`
	Profitable    bool           `json:"profitable"`
	ProfitPercent float64        `json:"profit_percent"`
}
