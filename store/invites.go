package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roster/models"
)

// InvitePlayer creates an invite for a player owned by identity and marks
// the player as invited. The player must have an email address.
func (s *Store) InvitePlayer(ctx context.Context, identity Identity, playerID string, ttl time.Duration) (*models.Invite, error) {
	if identity.ID == "" {
		return nil, ErrNoIdentity
	}
	player, err := s.data.GetPlayer(ctx, playerID)
	if err != nil {
		s.log.Error().Err(err).Str("player_id", playerID).Msg("Failed to look up player for invite")
		return nil, fmt.Errorf("invite player: %w", err)
	}
	if player == nil || player.OwnerID != identity.ID {
		return nil, ErrNotFound
	}

	invite, err := s.newInvite(identity, player.Email, player.FullName, ttl)
	if err != nil {
		return nil, err
	}
	invite.PlayerID = &player.ID

	if err := s.commit(ctx, identity, "invite player", func() error {
		return s.data.CreateInvite(ctx, invite)
	}); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *Store) InviteCoach(ctx context.Context, identity Identity, coachID string, ttl time.Duration) (*models.Invite, error) {
	if identity.ID == "" {
		return nil, ErrNoIdentity
	}
	coach, err := s.data.GetCoach(ctx, coachID)
	if err != nil {
		s.log.Error().Err(err).Str("coach_id", coachID).Msg("Failed to look up coach for invite")
		return nil, fmt.Errorf("invite coach: %w", err)
	}
	if coach == nil || coach.OwnerID != identity.ID {
		return nil, ErrNotFound
	}

	invite, err := s.newInvite(identity, coach.Email, coach.FullName, ttl)
	if err != nil {
		return nil, err
	}
	invite.CoachID = &coach.ID

	if err := s.commit(ctx, identity, "invite coach", func() error {
		return s.data.CreateInvite(ctx, invite)
	}); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *Store) newInvite(identity Identity, email *string, fullName string, ttl time.Duration) (*models.Invite, error) {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil, ErrNoEmail
	}
	code, err := models.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("generate invite code: %w", err)
	}
	now := s.now().UTC()
	return &models.Invite{
		Code:      code,
		CreatedAt: now,
		Email:     strings.TrimSpace(*email),
		FullName:  fullName,
		OwnerID:   identity.ID,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// AcceptInvite hands the invited player or coach over to identity. An
// accepted player invite makes the player part of identity's own roster.
func (s *Store) AcceptInvite(ctx context.Context, identity Identity, code string) (*models.Invite, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInviteInvalid
	}

	var invite *models.Invite
	if err := s.commit(ctx, identity, "accept invite", func() error {
		var err error
		invite, err = s.data.AcceptInvite(ctx, code, identity.ID, s.now().UTC())
		return err
	}); err != nil {
		return nil, err
	}
	return invite, nil
}
