package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Player is owned by OwnerID. ProfileID is set once the player accepts an
// invite and manages the record from their own account.
type Player struct {
	ID             string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt      time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	FullName       string             `gorm:"not null;size:200" json:"full_name"`
	Email          *string            `gorm:"size:320" json:"email,omitempty"`
	AvatarURL      *string            `gorm:"size:1000" json:"avatar_url,omitempty"`
	IsExistingUser bool               `gorm:"default:false" json:"is_existing_user"`
	InviteSent     bool               `gorm:"default:false" json:"invite_sent"`
	InviteDate     *time.Time         `json:"invite_date,omitempty"`
	OwnerID        string             `gorm:"not null;index;type:varchar(36)" json:"owner_id"`
	ProfileID      *string            `gorm:"index;type:varchar(36)" json:"profile_id,omitempty"`
	Assignments    []PlayerAssignment `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"team_assignments"`
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type PlayerPatch struct {
	FullName       *string    `json:"full_name"`
	Email          *string    `json:"email"`
	AvatarURL      *string    `json:"avatar_url"`
	IsExistingUser *bool      `json:"is_existing_user"`
	InviteSent     *bool      `json:"invite_sent"`
	InviteDate     *time.Time `json:"invite_date"`
}

func (p PlayerPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.FullName != nil {
		fields["full_name"] = *p.FullName
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.AvatarURL != nil {
		fields["avatar_url"] = *p.AvatarURL
	}
	if p.IsExistingUser != nil {
		fields["is_existing_user"] = *p.IsExistingUser
	}
	if p.InviteSent != nil {
		fields["invite_sent"] = *p.InviteSent
	}
	if p.InviteDate != nil {
		fields["invite_date"] = *p.InviteDate
	}
	return fields
}
