package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"roster/models"
)

type coachRequest struct {
	FullName       string  `json:"full_name"`
	Email          *string `json:"email"`
	IsExistingUser bool    `json:"is_existing_user"`
}

type coachAssignmentRequest struct {
	TeamID   string `json:"team_id"`
	SeasonID string `json:"season_id"`
}

func (h *RosterHandler) CreateCoach(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req coachRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	coach, err := s.AddCoach(r.Context(), identity, models.Coach{
		FullName:       req.FullName,
		Email:          req.Email,
		IsExistingUser: req.IsExistingUser,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, coach)
}

func (h *RosterHandler) UpdateCoach(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	coachID := chi.URLParam(r, "id")
	if findCoach(s.Snapshot(), coachID) == nil {
		writeError(w, http.StatusNotFound, "coach not found")
		return
	}

	var patch models.CoachPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := s.UpdateCoach(r.Context(), identity, coachID, patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeSnapshot(w, http.StatusOK, s)
}

func (h *RosterHandler) DeleteCoach(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	coachID := chi.URLParam(r, "id")
	if findCoach(s.Snapshot(), coachID) == nil {
		writeError(w, http.StatusNotFound, "coach not found")
		return
	}

	if err := s.DeleteCoach(r.Context(), identity, coachID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCoachAssignment puts a coach on a team for a season. Repeating an
// existing assignment succeeds without changing anything.
func (h *RosterHandler) AddCoachAssignment(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	coachID := chi.URLParam(r, "id")
	snapshot := s.Snapshot()
	if findCoach(snapshot, coachID) == nil {
		writeError(w, http.StatusNotFound, "coach not found")
		return
	}

	var req coachAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TeamID != "" && req.SeasonID != "" && !ownsSlot(snapshot, &req.TeamID, &req.SeasonID) {
		writeError(w, http.StatusNotFound, "team or season not found")
		return
	}

	err := s.AddCoachAssignment(r.Context(), identity, coachID, models.CoachAssignment{
		TeamID:   req.TeamID,
		SeasonID: req.SeasonID,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	coach := findCoach(s.Snapshot(), coachID)
	if coach == nil {
		writeError(w, http.StatusNotFound, "coach not found")
		return
	}
	writeJSON(w, http.StatusOK, coach)
}

func (h *RosterHandler) UpdateCoachAssignment(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "id")
	snapshot := s.Snapshot()
	if !hasCoachAssignment(snapshot, assignmentID) {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	var patch models.CoachAssignmentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if !ownsSlot(snapshot, patch.TeamID, patch.SeasonID) {
		writeError(w, http.StatusNotFound, "team or season not found")
		return
	}

	if err := s.UpdateCoachAssignment(r.Context(), identity, assignmentID, patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeSnapshot(w, http.StatusOK, s)
}

func (h *RosterHandler) DeleteCoachAssignment(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "id")
	if !hasCoachAssignment(s.Snapshot(), assignmentID) {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	if err := s.DeleteCoachAssignment(r.Context(), identity, assignmentID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
