package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SeasonKind string

const (
	SeasonKindSeason     SeasonKind = "season"
	SeasonKindTournament SeasonKind = "tournament"
)

func (k SeasonKind) Valid() bool {
	return k == SeasonKindSeason || k == SeasonKindTournament
}

// Season covers both regular seasons and one-off tournaments.
type Season struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Name      string     `gorm:"not null;size:100" json:"name"`
	Kind      SeasonKind `gorm:"not null;size:20;default:season" json:"kind"`
	StartDate *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	OwnerID   string     `gorm:"not null;index;type:varchar(36)" json:"owner_id"`
}

func (s *Season) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

type SeasonPatch struct {
	Name      *string     `json:"name"`
	Kind      *SeasonKind `json:"kind"`
	StartDate *time.Time  `json:"start_date"`
	EndDate   *time.Time  `json:"end_date"`
}

func (p SeasonPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Kind != nil {
		fields["kind"] = *p.Kind
	}
	if p.StartDate != nil {
		fields["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		fields["end_date"] = *p.EndDate
	}
	return fields
}
