package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roster/models"
	"roster/store"
)

// Repository is the gorm implementation of store.DataService.
type Repository struct {
	db *gorm.DB
}

var _ store.DataService = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// withAssignments preloads assignments joined to their team and season.
func withAssignments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_date asc")
		}).
		Preload("Assignments.Team").
		Preload("Assignments.Season")
}

// --- Roster loads ---

func (r *Repository) ListTeams(ctx context.Context, ownerID string) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *Repository) ListSeasons(ctx context.Context, ownerID string) ([]models.Season, error) {
	var seasons []models.Season
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&seasons).Error; err != nil {
		return nil, err
	}
	return seasons, nil
}

func (r *Repository) ListCoaches(ctx context.Context, ownerID string) ([]models.Coach, error) {
	var coaches []models.Coach
	query := withAssignments(r.db.WithContext(ctx)).Where("owner_id = ?", ownerID)
	if err := query.Order("created_at desc").Find(&coaches).Error; err != nil {
		return nil, err
	}
	return coaches, nil
}

func (r *Repository) ListOwnedPlayers(ctx context.Context, userID string) ([]models.Player, error) {
	var players []models.Player
	query := withAssignments(r.db.WithContext(ctx)).Where("owner_id = ? OR profile_id = ?", userID, userID)
	if err := query.Order("created_at desc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

// ParentIDsByEmail compares with LOWER on both sides so the email is matched
// literally, without pattern characters.
func (r *Repository) ParentIDsByEmail(ctx context.Context, email string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Parent{}).
		Where("LOWER(email) = LOWER(?)", email).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) ConnectedPlayerIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.ParentPlayerConnection{}).
		Where("parent_id IN ?", parentIDs).
		Distinct().
		Pluck("player_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) ListPlayersByID(ctx context.Context, ids []string) ([]models.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var players []models.Player
	query := withAssignments(r.db.WithContext(ctx)).Where("id IN ?", ids)
	if err := query.Order("created_at desc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

// --- Players ---

func (r *Repository) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var player models.Player
	if err := withAssignments(r.db.WithContext(ctx)).Where("id = ?", id).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *Repository) CreatePlayer(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Omit("Assignments").Create(player).Error
}

func (r *Repository) UpdatePlayer(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Player{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields))
}

func (r *Repository) DeletePlayer(ctx context.Context, id, ownerID string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Player{}))
}

// --- Coaches ---

func (r *Repository) GetCoach(ctx context.Context, id string) (*models.Coach, error) {
	var coach models.Coach
	if err := withAssignments(r.db.WithContext(ctx)).Where("id = ?", id).First(&coach).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coach, nil
}

func (r *Repository) CreateCoach(ctx context.Context, coach *models.Coach) error {
	return r.db.WithContext(ctx).Omit("Assignments").Create(coach).Error
}

func (r *Repository) UpdateCoach(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Coach{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields))
}

func (r *Repository) DeleteCoach(ctx context.Context, id, ownerID string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Coach{}))
}

// --- Teams and seasons ---

func (r *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *Repository) CreateTeam(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *Repository) UpdateTeam(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Team{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields))
}

func (r *Repository) DeleteTeam(ctx context.Context, id, ownerID string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Team{}))
}

func (r *Repository) GetSeason(ctx context.Context, id string) (*models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &season, nil
}

func (r *Repository) CreateSeason(ctx context.Context, season *models.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *Repository) UpdateSeason(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Season{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields))
}

func (r *Repository) DeleteSeason(ctx context.Context, id, ownerID string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Season{}))
}

// --- Assignments ---

func (r *Repository) FindPlayerAssignment(ctx context.Context, playerID, teamID, seasonID string) (*models.PlayerAssignment, error) {
	var assignment models.PlayerAssignment
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND team_id = ? AND season_id = ?", playerID, teamID, seasonID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *Repository) CreatePlayerAssignment(ctx context.Context, assignment *models.PlayerAssignment) error {
	return r.db.WithContext(ctx).Omit("Team", "Season").Create(assignment).Error
}

func (r *Repository) UpdatePlayerAssignment(ctx context.Context, id string, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.PlayerAssignment{}).
		Where("id = ?", id).
		Updates(fields))
}

func (r *Repository) DeletePlayerAssignment(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PlayerAssignment{}))
}

func (r *Repository) FindCoachAssignment(ctx context.Context, coachID, teamID, seasonID string) (*models.CoachAssignment, error) {
	var assignment models.CoachAssignment
	err := r.db.WithContext(ctx).
		Where("coach_id = ? AND team_id = ? AND season_id = ?", coachID, teamID, seasonID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *Repository) CreateCoachAssignment(ctx context.Context, assignment *models.CoachAssignment) error {
	return r.db.WithContext(ctx).Omit("Team", "Season").Create(assignment).Error
}

func (r *Repository) UpdateCoachAssignment(ctx context.Context, id string, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.CoachAssignment{}).
		Where("id = ?", id).
		Updates(fields))
}

func (r *Repository) DeleteCoachAssignment(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CoachAssignment{}))
}

// --- Invites ---

func (r *Repository) CreateInvite(ctx context.Context, invite *models.Invite) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invite).Error; err != nil {
			return err
		}

		flags := map[string]interface{}{
			"invite_sent": true,
			"invite_date": invite.CreatedAt,
		}
		switch {
		case invite.PlayerID != nil:
			return affected(tx.Model(&models.Player{}).Where("id = ?", *invite.PlayerID).Updates(flags))
		case invite.CoachID != nil:
			return affected(tx.Model(&models.Coach{}).Where("id = ?", *invite.CoachID).Updates(flags))
		}
		return nil
	})
}

func (r *Repository) AcceptInvite(ctx context.Context, code, profileID string, now time.Time) (*models.Invite, error) {
	var invite models.Invite
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrInviteInvalid
			}
			return err
		}
		if !invite.IsValid(now) {
			return store.ErrInviteInvalid
		}

		// The used = false guard loses the race against a concurrent accept.
		result := tx.Model(&models.Invite{}).
			Where("code = ? AND used = ?", code, false).
			Updates(map[string]interface{}{"used": true, "used_by": profileID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrInviteInvalid
		}

		link := map[string]interface{}{
			"profile_id":       profileID,
			"is_existing_user": true,
		}
		switch {
		case invite.PlayerID != nil:
			return affected(tx.Model(&models.Player{}).Where("id = ?", *invite.PlayerID).Updates(link))
		case invite.CoachID != nil:
			return affected(tx.Model(&models.Coach{}).Where("id = ?", *invite.CoachID).Updates(link))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invite.Used = true
	invite.UsedBy = &profileID
	return &invite, nil
}

// affected turns a write that matched no rows into store.ErrNotFound.
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
