package store

import (
	"context"
	"time"

	"roster/models"
)

// DataService is the remote relational store the roster is loaded from and
// written to. Lookups by id return nil, nil when the row does not exist.
// Updates and deletes return ErrNotFound when no row matched; entity writes
// only match rows owned by ownerID.
type DataService interface {
	ListTeams(ctx context.Context, ownerID string) ([]models.Team, error)
	ListSeasons(ctx context.Context, ownerID string) ([]models.Season, error)
	// ListCoaches returns coaches owned by ownerID with their assignments,
	// each joined to its team and season.
	ListCoaches(ctx context.Context, ownerID string) ([]models.Coach, error)
	// ListOwnedPlayers returns players whose owner or profile is userID,
	// shaped like ListCoaches.
	ListOwnedPlayers(ctx context.Context, userID string) ([]models.Player, error)
	// ParentIDsByEmail matches parents by email, ignoring case.
	ParentIDsByEmail(ctx context.Context, email string) ([]string, error)
	ConnectedPlayerIDs(ctx context.Context, parentIDs []string) ([]string, error)
	ListPlayersByID(ctx context.Context, ids []string) ([]models.Player, error)

	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	CreatePlayer(ctx context.Context, player *models.Player) error
	UpdatePlayer(ctx context.Context, id, ownerID string, fields map[string]interface{}) error
	DeletePlayer(ctx context.Context, id, ownerID string) error

	GetCoach(ctx context.Context, id string) (*models.Coach, error)
	CreateCoach(ctx context.Context, coach *models.Coach) error
	UpdateCoach(ctx context.Context, id, ownerID string, fields map[string]interface{}) error
	DeleteCoach(ctx context.Context, id, ownerID string) error

	GetTeam(ctx context.Context, id string) (*models.Team, error)
	CreateTeam(ctx context.Context, team *models.Team) error
	UpdateTeam(ctx context.Context, id, ownerID string, fields map[string]interface{}) error
	DeleteTeam(ctx context.Context, id, ownerID string) error

	GetSeason(ctx context.Context, id string) (*models.Season, error)
	CreateSeason(ctx context.Context, season *models.Season) error
	UpdateSeason(ctx context.Context, id, ownerID string, fields map[string]interface{}) error
	DeleteSeason(ctx context.Context, id, ownerID string) error

	FindPlayerAssignment(ctx context.Context, playerID, teamID, seasonID string) (*models.PlayerAssignment, error)
	CreatePlayerAssignment(ctx context.Context, assignment *models.PlayerAssignment) error
	UpdatePlayerAssignment(ctx context.Context, id string, fields map[string]interface{}) error
	DeletePlayerAssignment(ctx context.Context, id string) error

	FindCoachAssignment(ctx context.Context, coachID, teamID, seasonID string) (*models.CoachAssignment, error)
	CreateCoachAssignment(ctx context.Context, assignment *models.CoachAssignment) error
	UpdateCoachAssignment(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteCoachAssignment(ctx context.Context, id string) error

	// CreateInvite stores the invite and flags the invited player or coach
	// as invited at invite.CreatedAt, atomically.
	CreateInvite(ctx context.Context, invite *models.Invite) error
	// AcceptInvite marks the invite used by profileID and links the invited
	// player or coach to profileID, atomically. It returns ErrInviteInvalid
	// when the code is unknown, used or expired at now.
	AcceptInvite(ctx context.Context, code, profileID string, now time.Time) (*models.Invite, error)
}
