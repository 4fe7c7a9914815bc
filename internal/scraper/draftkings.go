package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/oddsmath"
)

const draftKingsName = "DraftKings"

// DraftKings event-group IDs per sport. The sportsbook API keys its league
// feeds by numeric group rather than by name.
var draftKingsGroups = map[string]string{
	"NFL":    "88808",
	"NBA":    "42648",
	"MLB":    "84240",
	"NHL":    "42133",
	"Soccer": "40253",
}

// DraftKingsAdapter fetches odds from the DraftKings sportsbook JSON API.
type DraftKingsAdapter struct {
	baseURL    string
	sports     []string
	httpClient *http.Client
}

// NewDraftKings creates a DraftKings adapter fetching the given sports.
// baseURL defaults to the public sportsbook API host when empty.
func NewDraftKings(baseURL string, sports []string, timeout time.Duration) *DraftKingsAdapter {
	if baseURL == "" {
		baseURL = "https://sportsbook-nash.draftkings.com"
	}
	return &DraftKingsAdapter{
		baseURL:    baseURL,
		sports:     sports,
		httpClient: newHTTPClient(timeout),
	}
}

func (a *DraftKingsAdapter) Bookmaker() string { return draftKingsName }

// dkResponse mirrors the eventgroups payload: events keyed by ID, offers
// nested under category -> subcategory descriptor -> subcategory.
type dkResponse struct {
	EventGroup struct {
		Name   string    `json:"name"`
		Events []dkEvent `json:"events"`

		OfferCategories []struct {
			OfferSubcategoryDescriptors []struct {
				OfferSubcategory struct {
					Name   string      `json:"name"`
					Offers [][]dkOffer `json:"offers"`
				} `json:"offerSubcategory"`
			} `json:"offerSubcategoryDescriptors"`
		} `json:"offerCategories"`
	} `json:"eventGroup"`
}

type dkEvent struct {
	EventID string `json:"eventId"`
	Name    string `json:"name"`
}

type dkOffer struct {
	EventID  string `json:"eventId"`
	Label    string `json:"label"`
	Outcomes []struct {
		Label        string `json:"label"`
		OddsAmerican string `json:"oddsAmerican"`
	} `json:"outcomes"`
}

// Fetch pulls every configured sport's event group and flattens the offers
// into odds records.
func (a *DraftKingsAdapter) Fetch(ctx context.Context) ([]domain.OddsRecord, error) {
	now := time.Now().UTC()
	var records []domain.OddsRecord

	for _, sport := range a.sports {
		group, ok := draftKingsGroups[sport]
		if !ok {
			continue
		}

		url := fmt.Sprintf("%s/sites/US-SD/api/v5/eventgroups/%s?format=json", a.baseURL, group)
		var resp dkResponse
		if err := getJSON(ctx, a.httpClient, draftKingsName, url, &resp); err != nil {
			return nil, err
		}

		events := make(map[string]string, len(resp.EventGroup.Events))
		for _, ev := range resp.EventGroup.Events {
			events[ev.EventID] = ev.Name
		}

		for _, cat := range resp.EventGroup.OfferCategories {
			for _, desc := range cat.OfferSubcategoryDescriptors {
				for _, offerRow := range desc.OfferSubcategory.Offers {
					for _, offer := range offerRow {
						recs, err := a.offerRecords(sport, offer, events, now)
						if err != nil {
							return nil, err
						}
						records = append(records, recs...)
					}
				}
			}
		}
	}

	return records, nil
}

func (a *DraftKingsAdapter) offerRecords(sport string, offer dkOffer, events map[string]string, now time.Time) ([]domain.OddsRecord, error) {
	eventName, ok := events[offer.EventID]
	if !ok || offer.Label == "" {
		// Offers pointing at events outside the group payload show up when
		// DraftKings cross-lists futures; skip them.
		return nil, nil
	}

	records := make([]domain.OddsRecord, 0, len(offer.Outcomes))
	for _, out := range offer.Outcomes {
		if out.OddsAmerican == "" {
			continue // suspended outcome, no price on the board
		}
		price, err := oddsmath.ParseAmerican(out.OddsAmerican)
		if err != nil {
			return nil, fetchErr(draftKingsName, ErrFormat,
				fmt.Errorf("event %s outcome %q: %w", offer.EventID, out.Label, err))
		}
		records = append(records, domain.OddsRecord{
			Bookmaker: draftKingsName,
			Sport:     sport,
			EventID:   offer.EventID,
			EventName: eventName,
			Market:    offer.Label,
			Outcome:   out.Label,
			Price:     price,
			Timestamp: now,
		})
	}
	return records, nil
}

var _ Adapter = (*DraftKingsAdapter)(nil)
