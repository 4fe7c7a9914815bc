package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/oddsmath"
)

const fanDuelName = "FanDuel"

var fanDuelPages = map[string]string{
	"NFL":    "football/nfl",
	"NBA":    "basketball/nba",
	"MLB":    "baseball/mlb",
	"NHL":    "ice-hockey/nhl",
	"Soccer": "soccer",
}

// FanDuelAdapter fetches odds from FanDuel's content-managed-page API, which
// returns events, markets, and runners as separate keyed attachment maps.
type FanDuelAdapter struct {
	baseURL    string
	sports     []string
	httpClient *http.Client
}

// NewFanDuel creates a FanDuel adapter fetching the given sports.
func NewFanDuel(baseURL string, sports []string, timeout time.Duration) *FanDuelAdapter {
	if baseURL == "" {
		baseURL = "https://sbapi.sportsbook.fanduel.com"
	}
	return &FanDuelAdapter{
		baseURL:    baseURL,
		sports:     sports,
		httpClient: newHTTPClient(timeout),
	}
}

func (a *FanDuelAdapter) Bookmaker() string { return fanDuelName }

type fdResponse struct {
	Attachments struct {
		Events  map[string]fdEvent  `json:"events"`
		Markets map[string]fdMarket `json:"markets"`
	} `json:"attachments"`
}

type fdEvent struct {
	EventID int64  `json:"eventId"`
	Name    string `json:"name"`
}

type fdMarket struct {
	MarketID   string     `json:"marketId"`
	EventID    int64      `json:"eventId"`
	MarketName string     `json:"marketName"`
	MarketType string     `json:"marketType"`
	Runners    []fdRunner `json:"runners"`
}

type fdRunner struct {
	RunnerName    string `json:"runnerName"`
	WinRunnerOdds *struct {
		AmericanDisplayOdds struct {
			AmericanOdds    int    `json:"americanOdds"`
			AmericanOddsInt string `json:"americanOddsInt"`
		} `json:"americanDisplayOdds"`
	} `json:"winRunnerOdds"`
}

// Fetch pulls each configured sport's page and joins markets to events
// through the attachment maps.
func (a *FanDuelAdapter) Fetch(ctx context.Context) ([]domain.OddsRecord, error) {
	now := time.Now().UTC()
	var records []domain.OddsRecord

	for _, sport := range a.sports {
		page, ok := fanDuelPages[sport]
		if !ok {
			continue
		}

		u := fmt.Sprintf("%s/api/content-managed-page?page=CUSTOM&customPageId=%s&_ak=FhMFpcPWXMeyZxOx",
			a.baseURL, url.QueryEscape(page))
		var resp fdResponse
		if err := getJSON(ctx, a.httpClient, fanDuelName, u, &resp); err != nil {
			return nil, err
		}

		for _, market := range resp.Attachments.Markets {
			event, ok := resp.Attachments.Events[strconv.FormatInt(market.EventID, 10)]
			if !ok {
				return nil, fetchErr(fanDuelName, ErrFormat,
					fmt.Errorf("market %s references unknown event %d", market.MarketID, market.EventID))
			}

			for _, runner := range market.Runners {
				if runner.WinRunnerOdds == nil {
					continue // runner suspended
				}
				price, err := oddsmath.AmericanToDecimal(float64(runner.WinRunnerOdds.AmericanDisplayOdds.AmericanOdds))
				if err != nil {
					return nil, fetchErr(fanDuelName, ErrFormat,
						fmt.Errorf("market %s runner %q: %w", market.MarketID, runner.RunnerName, err))
				}
				records = append(records, domain.OddsRecord{
					Bookmaker: fanDuelName,
					Sport:     sport,
					EventID:   strconv.FormatInt(market.EventID, 10),
					EventName: event.Name,
					Market:    market.MarketName,
					Outcome:   runner.RunnerName,
					Price:     price,
					Timestamp: now,
				})
			}
		}
	}

	return records, nil
}

var _ Adapter = (*FanDuelAdapter)(nil)
