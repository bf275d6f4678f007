package handlers

import (
	"net/http"

	"roster/middleware"
	"roster/models"
	"roster/store"
)

// RosterHandler serves the caller's roster and applies changes to it
// through the caller's store.
type RosterHandler struct {
	pool *store.Pool
}

func NewRosterHandler(pool *store.Pool) *RosterHandler {
	return &RosterHandler{pool: pool}
}

type rosterResponse struct {
	Loading bool `json:"loading"`
	store.Snapshot
}

// session returns the caller's identity and store, or writes the error.
func (h *RosterHandler) session(w http.ResponseWriter, r *http.Request) (store.Identity, *store.Store, bool) {
	identity := middleware.IdentityFromContext(r.Context())
	s, err := h.pool.Get(r.Context(), identity)
	if err != nil {
		writeStoreError(w, r, err)
		return identity, nil, false
	}
	return identity, s, true
}

func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{Loading: s.Loading(), Snapshot: s.Snapshot()})
}

func (h *RosterHandler) Reload(w http.ResponseWriter, r *http.Request) {
	identity, s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Reload(r.Context(), identity)
	writeJSON(w, http.StatusOK, rosterResponse{Loading: s.Loading(), Snapshot: s.Snapshot()})
}

func (h *RosterHandler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"players": s.SearchPlayers(r.URL.Query().Get("q")),
	})
}

// writeSnapshot responds with the roster as reloaded after a change.
func writeSnapshot(w http.ResponseWriter, status int, s *store.Store) {
	writeJSON(w, status, rosterResponse{Loading: s.Loading(), Snapshot: s.Snapshot()})
}

func findPlayer(snapshot store.Snapshot, id string) *models.Player {
	for i := range snapshot.Players {
		if snapshot.Players[i].ID == id {
			return &snapshot.Players[i]
		}
	}
	return nil
}

func findCoach(snapshot store.Snapshot, id string) *models.Coach {
	for i := range snapshot.Coaches {
		if snapshot.Coaches[i].ID == id {
			return &snapshot.Coaches[i]
		}
	}
	return nil
}

func hasPlayerAssignment(snapshot store.Snapshot, id string) bool {
	for _, player := range snapshot.Players {
		for _, a := range player.Assignments {
			if a.ID == id {
				return true
			}
		}
	}
	return false
}

func hasCoachAssignment(snapshot store.Snapshot, id string) bool {
	for _, coach := range snapshot.Coaches {
		for _, a := range coach.Assignments {
			if a.ID == id {
				return true
			}
		}
	}
	return false
}

// ownsSlot reports whether the team and season ids, when set, are part of
// the caller's roster.
func ownsSlot(snapshot store.Snapshot, teamID, seasonID *string) bool {
	if teamID != nil {
		found := false
		for _, team := range snapshot.Teams {
			if team.ID == *teamID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if seasonID != nil {
		found := false
		for _, season := range snapshot.Seasons {
			if season.ID == *seasonID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
