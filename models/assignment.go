package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerAssignment places a player on a team for one season. A player holds
// at most one assignment per (team, season) pair.
//
// Team and Season are joined on read; TeamName and SeasonName are derived
// from them and are never stored.
type PlayerAssignment struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	PlayerID     string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_player_team_season,priority:1" json:"player_id"`
	TeamID       string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_player_team_season,priority:2" json:"team_id"`
	SeasonID     string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_player_team_season,priority:3" json:"season_id"`
	JerseyNumber *int      `json:"jersey_number,omitempty"`
	Position     *string   `gorm:"size:50" json:"position,omitempty"`
	AssignedDate time.Time `gorm:"not null" json:"assigned_date"`
	Team         *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-"`
	Season       *Season   `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *PlayerAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (a PlayerAssignment) TeamName() string {
	if a.Team == nil {
		return ""
	}
	return a.Team.Name
}

func (a PlayerAssignment) SeasonName() string {
	if a.Season == nil {
		return ""
	}
	return a.Season.Name
}

func (a PlayerAssignment) MarshalJSON() ([]byte, error) {
	type row PlayerAssignment
	return json.Marshal(struct {
		row
		TeamName   string `json:"team_name"`
		SeasonName string `json:"season_name"`
	}{row(a), a.TeamName(), a.SeasonName()})
}

type PlayerAssignmentPatch struct {
	TeamID       *string `json:"team_id"`
	SeasonID     *string `json:"season_id"`
	JerseyNumber *int    `json:"jersey_number"`
	Position     *string `json:"position"`
}

func (p PlayerAssignmentPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.TeamID != nil {
		fields["team_id"] = *p.TeamID
	}
	if p.SeasonID != nil {
		fields["season_id"] = *p.SeasonID
	}
	if p.JerseyNumber != nil {
		fields["jersey_number"] = *p.JerseyNumber
	}
	if p.Position != nil {
		fields["position"] = *p.Position
	}
	return fields
}

// CoachAssignment places a coach on a team for one season.
type CoachAssignment struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CoachID      string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_coach_team_season,priority:1" json:"coach_id"`
	TeamID       string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_coach_team_season,priority:2" json:"team_id"`
	SeasonID     string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_coach_team_season,priority:3" json:"season_id"`
	AssignedDate time.Time `gorm:"not null" json:"assigned_date"`
	Team         *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-"`
	Season       *Season   `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *CoachAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (a CoachAssignment) TeamName() string {
	if a.Team == nil {
		return ""
	}
	return a.Team.Name
}

func (a CoachAssignment) SeasonName() string {
	if a.Season == nil {
		return ""
	}
	return a.Season.Name
}

func (a CoachAssignment) MarshalJSON() ([]byte, error) {
	type row CoachAssignment
	return json.Marshal(struct {
		row
		TeamName   string `json:"team_name"`
		SeasonName string `json:"season_name"`
	}{row(a), a.TeamName(), a.SeasonName()})
}

type CoachAssignmentPatch struct {
	TeamID   *string `json:"team_id"`
	SeasonID *string `json:"season_id"`
}

func (p CoachAssignmentPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.TeamID != nil {
		fields["team_id"] = *p.TeamID
	}
	if p.SeasonID != nil {
		fields["season_id"] = *p.SeasonID
	}
	return fields
}
