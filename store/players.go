package store

import (
	"context"
	"fmt"
	"strings"

	"roster/models"
)

// AddPlayer creates a player owned by identity and returns it as stored.
func (s *Store) AddPlayer(ctx context.Context, identity Identity, draft models.Player) (*models.Player, error) {
	name := strings.TrimSpace(draft.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	player := models.Player{
		FullName:       name,
		Email:          trimOptional(draft.Email),
		AvatarURL:      trimOptional(draft.AvatarURL),
		IsExistingUser: draft.IsExistingUser,
		OwnerID:        identity.ID,
	}
	if err := s.commit(ctx, identity, "add player", func() error {
		return s.data.CreatePlayer(ctx, &player)
	}); err != nil {
		return nil, err
	}

	created, err := s.data.GetPlayer(ctx, player.ID)
	if err == nil && created == nil {
		err = ErrNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Str("player_id", player.ID).Msg("Failed to fetch created player")
		return nil, fmt.Errorf("fetch created player: %w", err)
	}
	normalizePlayer(created)
	return created, nil
}

func (s *Store) UpdatePlayer(ctx context.Context, identity Identity, playerID string, patch models.PlayerPatch) error {
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return fmt.Errorf("%w: full name is required", ErrInvalidInput)
		}
		patch.FullName = &name
	}
	patch.Email = trimPatch(patch.Email)

	fields := patch.Fields()
	if len(fields) == 0 {
		return ErrNoChanges
	}
	return s.commit(ctx, identity, "update player", func() error {
		return s.data.UpdatePlayer(ctx, playerID, identity.ID, fields)
	})
}

func (s *Store) DeletePlayer(ctx context.Context, identity Identity, playerID string) error {
	return s.commit(ctx, identity, "delete player", func() error {
		return s.data.DeletePlayer(ctx, playerID, identity.ID)
	})
}

// AddTeamAssignment puts a player on a team for a season. If the player
// already holds that (team, season) slot, its jersey number and position are
// overwritten instead.
func (s *Store) AddTeamAssignment(ctx context.Context, identity Identity, playerID string, draft models.PlayerAssignment) error {
	if playerID == "" || draft.TeamID == "" || draft.SeasonID == "" {
		return fmt.Errorf("%w: player, team and season are required", ErrInvalidInput)
	}
	position := trimOptional(draft.Position)

	return s.commit(ctx, identity, "add team assignment", func() error {
		existing, err := s.data.FindPlayerAssignment(ctx, playerID, draft.TeamID, draft.SeasonID)
		if err != nil {
			return err
		}
		if existing != nil {
			return s.data.UpdatePlayerAssignment(ctx, existing.ID, map[string]interface{}{
				"jersey_number": draft.JerseyNumber,
				"position":      position,
			})
		}
		return s.data.CreatePlayerAssignment(ctx, &models.PlayerAssignment{
			PlayerID:     playerID,
			TeamID:       draft.TeamID,
			SeasonID:     draft.SeasonID,
			JerseyNumber: draft.JerseyNumber,
			Position:     position,
			AssignedDate: s.now().UTC(),
		})
	})
}

func (s *Store) UpdateTeamAssignment(ctx context.Context, identity Identity, assignmentID string, patch models.PlayerAssignmentPatch) error {
	patch.Position = trimPatch(patch.Position)
	fields := patch.Fields()
	if len(fields) == 0 {
		return ErrNoChanges
	}
	if err := s.checkPlayerSlot(ctx, assignmentID, patch.TeamID, patch.SeasonID); err != nil {
		return err
	}
	return s.commit(ctx, identity, "update team assignment", func() error {
		return s.data.UpdatePlayerAssignment(ctx, assignmentID, fields)
	})
}

func (s *Store) DeleteTeamAssignment(ctx context.Context, identity Identity, assignmentID string) error {
	return s.commit(ctx, identity, "delete team assignment", func() error {
		return s.data.DeletePlayerAssignment(ctx, assignmentID)
	})
}

// checkPlayerSlot rejects moving an assignment onto a (team, season) slot
// its player already holds through another assignment.
func (s *Store) checkPlayerSlot(ctx context.Context, assignmentID string, teamID, seasonID *string) error {
	if teamID == nil && seasonID == nil {
		return nil
	}
	current := findPlayerAssignment(s.Snapshot(), assignmentID)
	if current == nil {
		return nil
	}
	team, season := current.TeamID, current.SeasonID
	if teamID != nil {
		team = *teamID
	}
	if seasonID != nil {
		season = *seasonID
	}

	existing, err := s.data.FindPlayerAssignment(ctx, current.PlayerID, team, season)
	if err != nil {
		s.log.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to look up team assignment")
		return fmt.Errorf("update team assignment: %w", err)
	}
	if existing != nil && existing.ID != assignmentID {
		return fmt.Errorf("%w: player already holds that team and season", ErrInvalidInput)
	}
	return nil
}

// trimOptional trims v and drops it when nothing is left.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// trimPatch trims a patch value but keeps an empty string, which clears the
// column.
func trimPatch(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
