package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coach struct {
	ID             string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	FullName       string            `gorm:"not null;size:200" json:"full_name"`
	Email          *string           `gorm:"size:320" json:"email,omitempty"`
	IsExistingUser bool              `gorm:"default:false" json:"is_existing_user"`
	InviteSent     bool              `gorm:"default:false" json:"invite_sent"`
	InviteDate     *time.Time        `json:"invite_date,omitempty"`
	OwnerID        string            `gorm:"not null;index;type:varchar(36)" json:"owner_id"`
	ProfileID      *string           `gorm:"index;type:varchar(36)" json:"profile_id,omitempty"`
	Assignments    []CoachAssignment `gorm:"foreignKey:CoachID;constraint:OnDelete:CASCADE" json:"team_assignments"`
}

func (c *Coach) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type CoachPatch struct {
	FullName       *string    `json:"full_name"`
	Email          *string    `json:"email"`
	IsExistingUser *bool      `json:"is_existing_user"`
	InviteSent     *bool      `json:"invite_sent"`
	InviteDate     *time.Time `json:"invite_date"`
}

func (p CoachPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.FullName != nil {
		fields["full_name"] = *p.FullName
	}
	if p.Email != nil {
		fields["email"] = *p.Email
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
