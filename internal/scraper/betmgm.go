package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/oddsmath"
)

const betMGMName = "BetMGM"

// BetMGM CDS competition IDs per sport.
var betMGMCompetitions = map[string]string{
	"NFL":    "11",
	"NBA":    "6004",
	"MLB":    "244",
	"NHL":    "34",
	"Soccer": "4",
}

// BetMGMAdapter fetches odds from the BetMGM CDS fixtures API. Unlike the
// other two books, BetMGM quotes American odds as plain integers.
type BetMGMAdapter struct {
	baseURL    string
	sports     []string
	httpClient *http.Client
}

// NewBetMGM creates a BetMGM adapter fetching the given sports.
func NewBetMGM(baseURL string, sports []string, timeout time.Duration) *BetMGMAdapter {
	if baseURL == "" {
		baseURL = "https://cds-api.betmgm.com"
	}
	return &BetMGMAdapter{
		baseURL:    baseURL,
		sports:     sports,
		httpClient: newHTTPClient(timeout),
	}
}

func (a *BetMGMAdapter) Bookmaker() string { return betMGMName }

type mgmResponse struct {
	Fixtures []mgmFixture `json:"fixtures"`
}

type mgmFixture struct {
	ID    string   `json:"id"`
	Name  mgmLabel `json:"name"`
	Games []struct {
		Name    mgmLabel `json:"name"`
		Visible bool     `json:"visibility"`
		Results []struct {
			Name         mgmLabel `json:"name"`
			AmericanOdds float64  `json:"americanOdds"`
		} `json:"results"`
	} `json:"games"`
}

type mgmLabel struct {
	Value string `json:"value"`
}

// Fetch pulls fixtures per sport and flattens each fixture's games into
// records.
func (a *BetMGMAdapter) Fetch(ctx context.Context) ([]domain.OddsRecord, error) {
	now := time.Now().UTC()
	var records []domain.OddsRecord

	for _, sport := range a.sports {
		comp, ok := betMGMCompetitions[sport]
		if !ok {
			continue
		}

		url := fmt.Sprintf(
			"%s/bettingoffer/fixtures?x-bwin-accessid=public&lang=en-us&country=US&competitionIds=%s&state=Latest",
			a.baseURL, comp,
		)
		var resp mgmResponse
		if err := getJSON(ctx, a.httpClient, betMGMName, url, &resp); err != nil {
			return nil, err
		}

		for _, fixture := range resp.Fixtures {
			if fixture.ID == "" || fixture.Name.Value == "" {
				return nil, fetchErr(betMGMName, ErrFormat,
					fmt.Errorf("fixture with empty id or name in %s feed", sport))
			}
			for _, game := range fixture.Games {
				for _, result := range game.Results {
					if result.AmericanOdds == 0 {
						continue // board price pulled
					}
					price, err := oddsmath.AmericanToDecimal(result.AmericanOdds)
					if err != nil {
						return nil, fetchErr(betMGMName, ErrFormat,
							fmt.Errorf("fixture %s result %q: %w", fixture.ID, result.Name.Value, err))
					}
					records = append(records, domain.OddsRecord{
						Bookmaker: betMGMName,
						Sport:     sport,
						EventID:   fixture.ID,
						EventName: fixture.Name.Value,
						Market:    game.Name.Value,
						Outcome:   result.Name.Value,
						Price:     price,
						Timestamp: now,
					})
				}
			}
		}
	}

	return records, nil
}

var _ Adapter = (*BetMGMAdapter)(nil)
