package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"roster/config"
	"roster/email"
	"roster/middleware"
	"roster/models"
	"roster/store"
)

type InviteHandler struct {
	config *config.Config
	pool   *store.Pool
	mailer email.EmailSender
}

func NewInviteHandler(cfg *config.Config, pool *store.Pool, mailer email.EmailSender) *InviteHandler {
	return &InviteHandler{
		config: cfg,
		pool:   pool,
		mailer: mailer,
	}
}

type inviteResponse struct {
	*models.Invite
	AcceptURL string `json:"accept_url"`
}

func (h *InviteHandler) InvitePlayer(w http.ResponseWriter, r *http.Request) {
	h.invite(w, r, "player", func(s *store.Store, identity store.Identity, id string) (*models.Invite, error) {
		return s.InvitePlayer(r.Context(), identity, id, h.config.InviteExpiration)
	})
}

func (h *InviteHandler) InviteCoach(w http.ResponseWriter, r *http.Request) {
	h.invite(w, r, "coach", func(s *store.Store, identity store.Identity, id string) (*models.Invite, error) {
		return s.InviteCoach(r.Context(), identity, id, h.config.InviteExpiration)
	})
}

type inviteFunc func(s *store.Store, identity store.Identity, id string) (*models.Invite, error)

// invite stores the invite, then mails the link in the background.
func (h *InviteHandler) invite(w http.ResponseWriter, r *http.Request, role string, create inviteFunc) {
	identity := middleware.IdentityFromContext(r.Context())
	s, err := h.pool.Get(r.Context(), identity)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	invite, err := create(s, identity, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	acceptURL := email.InviteURL(h.config.Email.InviteBaseURL, invite.Code)
	message := email.BuildInviteEmail(email.InviteDetails{
		RecipientName: invite.FullName,
		InviterName:   identity.Email,
		Role:          role,
		AcceptURL:     acceptURL,
		ExpiresAt:     invite.ExpiresAt,
	})
	email.SendInviteEmail(r.Context(), h.mailer, invite.Email, message, log.Ctx(r.Context()))

	writeJSON(w, http.StatusCreated, inviteResponse{Invite: invite, AcceptURL: acceptURL})
}

// Accept links the invited player or coach to the caller and returns the
// caller's reloaded roster.
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	s, err := h.pool.Get(r.Context(), identity)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	invite, err := s.AcceptInvite(r.Context(), identity, chi.URLParam(r, "code"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Str("invite_owner_id", invite.OwnerID).Msg("Invite accepted")
	writeSnapshot(w, http.StatusOK, s)
}
