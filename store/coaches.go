package store

import (
	"context"
	"fmt"
	"strings"

	"roster/models"
)

func (s *Store) AddCoach(ctx context.Context, identity Identity, draft models.Coach) (*models.Coach, error) {
	name := strings.TrimSpace(draft.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	coach := models.Coach{
		FullName:       name,
		Email:          trimOptional(draft.Email),
		IsExistingUser: draft.IsExistingUser,
		OwnerID:        identity.ID,
	}
	if err := s.commit(ctx, identity, "add coach", func() error {
		return s.data.CreateCoach(ctx, &coach)
	}); err != nil {
		return nil, err
	}

	created, err := s.data.GetCoach(ctx, coach.ID)
	if err == nil && created == nil {
		err = ErrNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Str("coach_id", coach.ID).Msg("Failed to fetch created coach")
		return nil, fmt.Errorf("fetch created coach: %w", err)
	}
	normalizeCoach(created)
	return created, nil
}

func (s *Store) UpdateCoach(ctx context.Context, identity Identity, coachID string, patch models.CoachPatch) error {
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
	return s.commit(ctx, identity, "update coach", func() error {
		return s.data.UpdateCoach(ctx, coachID, identity.ID, fields)
	})
}

func (s *Store) DeleteCoach(ctx context.Context, identity Identity, coachID string) error {
	return s.commit(ctx, identity, "delete coach", func() error {
		return s.data.DeleteCoach(ctx, coachID, identity.ID)
	})
}

// AddCoachAssignment puts a coach on a team for a season. Adding a slot the
// coach already holds changes nothing.
func (s *Store) AddCoachAssignment(ctx context.Context, identity Identity, coachID string, draft models.CoachAssignment) error {
	if identity.ID == "" {
		return ErrNoIdentity
	}
	if coachID == "" || draft.TeamID == "" || draft.SeasonID == "" {
		return fmt.Errorf("%w: coach, team and season are required", ErrInvalidInput)
	}

	existing, err := s.data.FindCoachAssignment(ctx, coachID, draft.TeamID, draft.SeasonID)
	if err != nil {
		s.log.Error().Err(err).Str("coach_id", coachID).Msg("Failed to look up coach assignment")
		return fmt.Errorf("add coach assignment: %w", err)
	}
	if existing != nil {
		return nil
	}

	return s.commit(ctx, identity, "add coach assignment", func() error {
		return s.data.CreateCoachAssignment(ctx, &models.CoachAssignment{
			CoachID:      coachID,
			TeamID:       draft.TeamID,
			SeasonID:     draft.SeasonID,
			AssignedDate: s.now().UTC(),
		})
	})
}

func (s *Store) UpdateCoachAssignment(ctx context.Context, identity Identity, assignmentID string, patch models.CoachAssignmentPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return ErrNoChanges
	}
	if err := s.checkCoachSlot(ctx, assignmentID, patch.TeamID, patch.SeasonID); err != nil {
		return err
	}
	return s.commit(ctx, identity, "update coach assignment", func() error {
		return s.data.UpdateCoachAssignment(ctx, assignmentID, fields)
	})
}

func (s *Store) DeleteCoachAssignment(ctx context.Context, identity Identity, assignmentID string) error {
	return s.commit(ctx, identity, "delete coach assignment", func() error {
		return s.data.DeleteCoachAssignment(ctx, assignmentID)
	})
}

// checkCoachSlot rejects moving an assignment onto a (team, season) slot the
// coach already holds through another assignment.
func (s *Store) checkCoachSlot(ctx context.Context, assignmentID string, teamID, seasonID *string) error {
	if teamID == nil && seasonID == nil {
		return nil
	}
	current := findCoachAssignment(s.Snapshot(), assignmentID)
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

	existing, err := s.data.FindCoachAssignment(ctx, current.CoachID, team, season)
	if err != nil {
		s.log.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to look up coach assignment")
		return fmt.Errorf("update coach assignment: %w", err)
	}
	if existing != nil && existing.ID != assignmentID {
		return fmt.Errorf("%w: coach already holds that team and season", ErrInvalidInput)
	}
	return nil
}
