package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dkFixture = `{
  "eventGroup": {
    "name": "NFL",
    "events": [
      {"eventId": "101", "name": "Chiefs @ Bills"}
    ],
    "offerCategories": [
      {
        "offerSubcategoryDescriptors": [
          {
            "offerSubcategory": {
              "name": "Game Lines",
              "offers": [
                [
                  {
                    "eventId": "101",
                    "label": "Moneyline",
                    "outcomes": [
                      {"label": "KC Chiefs", "oddsAmerican": "+110"},
                      {"label": "BUF Bills", "oddsAmerican": "-130"},
                      {"label": "Suspended", "oddsAmerican": ""}
                    ]
                  }
                ]
              ]
            }
          }
        ]
      }
    ]
  }
}`

func TestDraftKingsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/api/v5/eventgroups/88808")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(dkFixture))
	}))
	defer srv.Close()

	a := NewDraftKings(srv.URL, []string{"NFL"}, time.Second)
	records, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "suspended outcome must be dropped")

	for _, rec := range records {
		assert.Equal(t, "DraftKings", rec.Bookmaker)
		assert.Equal(t, "NFL", rec.Sport)
		assert.Equal(t, "101", rec.EventID)
		assert.Equal(t, "Chiefs @ Bills", rec.EventName)
		assert.Equal(t, "Moneyline", rec.Market)
		require.NoError(t, rec.Validate())
	}

	// +110 -> 2.10, -130 -> 1.7692... decimal odds at ingest.
	assert.InDelta(t, 2.10, records[0].Price, 0.0001)
	assert.InDelta(t, 1.76923, records[1].Price, 0.0001)
}

func TestDraftKingsFetchBadOdds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"eventGroup":{"events":[{"eventId":"1","name":"A @ B"}],
			"offerCategories":[{"offerSubcategoryDescriptors":[{"offerSubcategory":{"offers":[[
			{"eventId":"1","label":"Moneyline","outcomes":[{"label":"A","oddsAmerican":"abc"}]}
			]]}}]}]}}`))
	}))
	defer srv.Close()

	a := NewDraftKings(srv.URL, []string{"NFL"}, time.Second)
	_, err := a.Fetch(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "DraftKings", fe.Bookmaker)
	assert.Equal(t, ErrFormat, fe.Kind)
}

func TestDraftKingsFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewDraftKings(srv.URL, []string{"NFL"}, time.Second)
	_, err := a.Fetch(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrNetwork, fe.Kind)
}

func TestRegistryBuild(t *testing.T) {
	adapters, err := Build([]string{"DraftKings", "FanDuel", "BetMGM"}, nil, []string{"NFL"}, time.Second)
	require.NoError(t, err)
	require.Len(t, adapters, 3)
	assert.Equal(t, "DraftKings", adapters[0].Bookmaker())

	_, err = Build([]string{"Bet365"}, nil, []string{"NFL"}, time.Second)
	assert.Error(t, err)
}
