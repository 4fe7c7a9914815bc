package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kyphlex/web-scapers/internal/compare"
	"github.com/kyphlex/web-scapers/internal/domain"
)

// OddsHandler serves the stored snapshot and the analytics derived from it.
type OddsHandler struct {
	store domain.SnapshotStore
}

// NewOddsHandler creates an OddsHandler reading from store.
func NewOddsHandler(store domain.SnapshotStore) *OddsHandler {
	return &OddsHandler{store: store}
}

// oddsResponse is the GET /api/odds payload.
type oddsResponse struct {
	Generation  string              `json:"generation"`
	LastUpdated time.Time           `json:"last_updated"`
	Records     []domain.OddsRecord `json:"records"`
}

// GetOdds returns the latest snapshot, optionally filtered by sport and/or
// bookmaker query parameters.
func (h *OddsHandler) GetOdds(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	sport := r.URL.Query().Get("sport")
	bookmaker := r.URL.Query().Get("bookmaker")

	records := make([]domain.OddsRecord, 0, len(snap.Records))
	for _, rec := range snap.Records {
		if sport != "" && !strings.EqualFold(rec.Sport, sport) {
			continue
		}
		if bookmaker != "" && !strings.EqualFold(rec.Bookmaker, bookmaker) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "no odds match the given filters")
		return
	}

	writeJSON(w, http.StatusOK, oddsResponse{
		Generation:  snap.Generation,
		LastUpdated: snap.FetchedAt,
		Records:     records,
	})
}

// CompareOdds returns best-price comparisons, optionally filtered by sport
// and/or bookmaker.
func (h *OddsHandler) CompareOdds(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	results := compare.Compare(snap, r.URL.Query().Get("sport"), r.URL.Query().Get("bookmaker"))
	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "no comparable odds for the given filters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"generation":   snap.Generation,
		"last_updated": snap.FetchedAt,
		"comparisons":  results,
	})
}

// FindArbitrage returns arbitrage opportunities, optionally filtered by
// sport.
func (h *OddsHandler) FindArbitrage(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	opps := compare.FindArbitrage(snap, r.URL.Query().Get("sport"))
	writeJSON(w, http.StatusOK, map[string]any{
		"generation":    snap.Generation,
		"last_updated":  snap.FetchedAt,
		"opportunities": opps,
	})
}

// ListBookmakers returns the bookmakers present in the latest snapshot.
func (h *OddsHandler) ListBookmakers(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookmakers": snap.Bookmakers()})
}

// ListSports returns the sports present in the latest snapshot.
func (h *OddsHandler) ListSports(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sports": snap.Sports()})
}

// snapshot loads the latest snapshot, writing the no-data-yet response when
// nothing has been committed. Callers bail out when ok is false.
func (h *OddsHandler) snapshot(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	snap, err := h.store.Get(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoSnapshot) {
			writeError(w, http.StatusNotFound, "no odds data available yet, try again later")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return domain.Snapshot{}, false
	}
	return snap, true
}
