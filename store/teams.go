package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roster/models"
)

func (s *Store) AddTeam(ctx context.Context, identity Identity, draft models.Team) (*models.Team, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	team := models.Team{Name: name, OwnerID: identity.ID}
	if err := s.commit(ctx, identity, "add team", func() error {
		return s.data.CreateTeam(ctx, &team)
	}); err != nil {
		return nil, err
	}

	created, err := s.data.GetTeam(ctx, team.ID)
	if err == nil && created == nil {
		err = ErrNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Str("team_id", team.ID).Msg("Failed to fetch created team")
		return nil, fmt.Errorf("fetch created team: %w", err)
	}
	return created, nil
}

func (s *Store) UpdateTeam(ctx context.Context, identity Identity, teamID string, patch models.TeamPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("%w: team name is required", ErrInvalidInput)
		}
		patch.Name = &name
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return ErrNoChanges
	}
	return s.commit(ctx, identity, "update team", func() error {
		return s.data.UpdateTeam(ctx, teamID, identity.ID, fields)
	})
}

// DeleteTeam removes the team together with every assignment to it.
func (s *Store) DeleteTeam(ctx context.Context, identity Identity, teamID string) error {
	return s.commit(ctx, identity, "delete team", func() error {
		return s.data.DeleteTeam(ctx, teamID, identity.ID)
	})
}

func (s *Store) AddSeason(ctx context.Context, identity Identity, draft models.Season) (*models.Season, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: season name is required", ErrInvalidInput)
	}
	kind := draft.Kind
	if kind == "" {
		kind = models.SeasonKindSeason
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown season kind %q", ErrInvalidInput, kind)
	}
	if err := checkDates(draft.StartDate, draft.EndDate); err != nil {
		return nil, err
	}

	season := models.Season{
		Name:      name,
		Kind:      kind,
		StartDate: draft.StartDate,
		EndDate:   draft.EndDate,
		OwnerID:   identity.ID,
	}
	if err := s.commit(ctx, identity, "add season", func() error {
		return s.data.CreateSeason(ctx, &season)
	}); err != nil {
		return nil, err
	}

	created, err := s.data.GetSeason(ctx, season.ID)
	if err == nil && created == nil {
		err = ErrNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Str("season_id", season.ID).Msg("Failed to fetch created season")
		return nil, fmt.Errorf("fetch created season: %w", err)
	}
	return created, nil
}

func (s *Store) UpdateSeason(ctx context.Context, identity Identity, seasonID string, patch models.SeasonPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("%w: season name is required", ErrInvalidInput)
		}
		patch.Name = &name
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return fmt.Errorf("%w: unknown season kind %q", ErrInvalidInput, *patch.Kind)
	}
	start, end := patch.StartDate, patch.EndDate
	if identity.ID != "" && (start == nil) != (end == nil) {
		stored, err := s.data.GetSeason(ctx, seasonID)
		if err != nil {
			s.log.Error().Err(err).Str("season_id", seasonID).Msg("Failed to look up season")
			return fmt.Errorf("update season: %w", err)
		}
		if stored != nil && stored.OwnerID == identity.ID {
			if start == nil {
				start = stored.StartDate
			}
			if end == nil {
				end = stored.EndDate
			}
		}
	}
	if err := checkDates(start, end); err != nil {
		return err
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return ErrNoChanges
	}
	return s.commit(ctx, identity, "update season", func() error {
		return s.data.UpdateSeason(ctx, seasonID, identity.ID, fields)
	})
}

// DeleteSeason removes the season together with every assignment to it.
func (s *Store) DeleteSeason(ctx context.Context, identity Identity, seasonID string) error {
	return s.commit(ctx, identity, "delete season", func() error {
		return s.data.DeleteSeason(ctx, seasonID, identity.ID)
	})
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	return nil
}
