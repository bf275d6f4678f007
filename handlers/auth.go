package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roster/config"
	"roster/middleware"
	"roster/models"
	"roster/store"
)

const minPasswordLength = 8

type AuthHandler struct {
	config *config.Config
	db     *gorm.DB
	pool   *store.Pool
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, pool *store.Pool) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		db:     db,
		pool:   pool,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	email := models.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	var count int64
	if err := h.db.WithContext(r.Context()).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to check existing user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if count > 0 {
		writeError(w, http.StatusConflict, "email is already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to hash password")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hashedPassword),
	}
	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to create user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.issueToken(w, r, &user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).Where("email = ?", models.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load user")
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.issueToken(w, r, &user, http.StatusOK)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	middleware.SetTokenCookie(w, token, h.config.JWTExpiration, h.config.IsProduction())
	writeJSON(w, status, authResponse{Token: token, User: user})
}

// Logout clears the token cookie and drops the caller's cached roster.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	h.pool.Forget(identity.ID)
	middleware.ClearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Verify current password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		writeError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to hash password")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.db.WithContext(r.Context()).Model(user).Update("password_hash", string(hashedPassword)).Error; err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to update password")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	identity := middleware.IdentityFromContext(r.Context())

	var user models.User
	if err := h.db.WithContext(r.Context()).Where("id = ?", identity.ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return nil, false
		}
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return &user, true
}
