package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"roster/models"
)

type playerRequest struct {
	FullName       string  `json:"full_name"`
	Email          *string `json:"email"`
	AvatarURL      *string `json:"avatar_url"`
	IsExistingUser bool    `json:"is_existing_user"`
}

type assignmentRequest struct {
	TeamID       string  `json:"team_id"`
	SeasonID     string  `json:"season_id"`
	JerseyNumber *int    `json:"jersey_number"`
	Position     *string `json:"position"`
}

func (h *RosterHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req playerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	player, err := s.AddPlayer(r.Context(), identity, models.Player{
		FullName:       req.FullName,
		Email:          req.Email,
		AvatarURL:      req.AvatarURL,
		IsExistingUser: req.IsExistingUser,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (h *RosterHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	playerID := chi.URLParam(r, "id")
	if findPlayer(s.Snapshot(), playerID) == nil {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	var patch models.PlayerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := s.UpdatePlayer(r.Context(), identity, playerID, patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeSnapshot(w, http.StatusOK, s)
}

func (h *RosterHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	playerID := chi.URLParam(r, "id")
	if findPlayer(s.Snapshot(), playerID) == nil {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	if err := s.DeletePlayer(r.Context(), identity, playerID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPlayerAssignment assigns a visible player to one of the caller's teams
// for one of the caller's seasons.
func (h *RosterHandler) AddPlayerAssignment(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	playerID := chi.URLParam(r, "id")
	snapshot := s.Snapshot()
	if findPlayer(snapshot, playerID) == nil {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	var req assignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TeamID != "" && req.SeasonID != "" && !ownsSlot(snapshot, &req.TeamID, &req.SeasonID) {
		writeError(w, http.StatusNotFound, "team or season not found")
		return
	}

	err := s.AddTeamAssignment(r.Context(), identity, playerID, models.PlayerAssignment{
		TeamID:       req.TeamID,
		SeasonID:     req.SeasonID,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	player := findPlayer(s.Snapshot(), playerID)
	if player == nil {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *RosterHandler) UpdatePlayerAssignment(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "id")
	snapshot := s.Snapshot()
	if !hasPlayerAssignment(snapshot, assignmentID) {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	var patch models.PlayerAssignmentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if !ownsSlot(snapshot, patch.TeamID, patch.SeasonID) {
		writeError(w, http.StatusNotFound, "team or season not found")
		return
	}

	if err := s.UpdateTeamAssignment(r.Context(), identity, assignmentID, patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeSnapshot(w, http.StatusOK, s)
}

func (h *RosterHandler) DeletePlayerAssignment(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "id")
	if !hasPlayerAssignment(s.Snapshot(), assignmentID) {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	if err := s.DeleteTeamAssignment(r.Context(), identity, assignmentID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
