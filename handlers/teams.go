package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"roster/models"
)

const dateLayout = "2006-01-02"

type teamRequest struct {
	Name string `json:"name"`
}

func (h *RosterHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req teamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	team, err := s.AddTeam(r.Context(), identity, models.Team{Name: req.Name})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *RosterHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	if !ownsSlot(s.Snapshot(), &teamID, nil) {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}

	var patch models.TeamPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := s.UpdateTeam(r.Context(), identity, teamID, patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeSnapshot(w, http.StatusOK, s)
}

func (h *RosterHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	if !ownsSlot(s.Snapshot(), &teamID, nil) {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}

	if err := s.DeleteTeam(r.Context(), identity, teamID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// seasonRequest carries dates as YYYY-MM-DD.
type seasonRequest struct {
	Name      *string            `json:"name"`
	Kind      *models.SeasonKind `json:"kind"`
	StartDate *string            `json:"start_date"`
	EndDate   *string            `json:"end_date"`
}

func (req seasonRequest) patch() (models.SeasonPatch, bool) {
	patch := models.SeasonPatch{Name: req.Name, Kind: req.Kind}
	var ok bool
	if patch.StartDate, ok = parseDate(req.StartDate); !ok {
		return patch, false
	}
	if patch.EndDate, ok = parseDate(req.EndDate); !ok {
		return patch, false
	}
	return patch, true
}

func parseDate(value *string) (*time.Time, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (h *RosterHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req seasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch, ok := req.patch()
	if !ok {
		writeError(w, http.StatusBadRequest, "dates must be formatted as YYYY-MM-DD")
		return
	}

	draft := models.Season{StartDate: patch.StartDate, EndDate: patch.EndDate}
	if patch.Name != nil {
		draft.Name = *patch.Name
	}
	if patch.Kind != nil {
		draft.Kind = *patch.Kind
	}

	season, err := s.AddSeason(r.Context(), identity, draft)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, season)
}

func (h *RosterHandler) UpdateSeason(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	seasonID := chi.URLParam(r, "id")
	if !ownsSlot(s.Snapshot(), nil, &seasonID) {
		writeError(w, http.StatusNotFound, "season not found")
		return
	}

	var req seasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch, ok := req.patch()
	if !ok {
		writeError(w, http.StatusBadRequest, "dates must be formatted as YYYY-MM-DD")
		return
	}

	if err := s.UpdateSeason(r.Context(), identity, seasonID, patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeSnapshot(w, http.StatusOK, s)
}

func (h *RosterHandler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	seasonID := chi.URLParam(r, "id")
	if !ownsSlot(s.Snapshot(), nil, &seasonID) {
		writeError(w, http.StatusNotFound, "season not found")
		return
	}

	if err := s.DeleteSeason(r.Context(), identity, seasonID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
