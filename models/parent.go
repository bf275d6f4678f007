package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Parent is a guardian record. A signed-in user whose email matches a
// parent sees every player connected to that parent.
type Parent struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"not null;index;size:320" json:"email"`
	FullName  string    `gorm:"size:200" json:"full_name"`
}

func (p *Parent) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type ParentPlayerConnection struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ParentID  string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_parent_player,priority:1" json:"parent_id"`
	PlayerID  string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_parent_player,priority:2;index" json:"player_id"`
	Parent    *Parent   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Player    *Player   `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *ParentPlayerConnection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
