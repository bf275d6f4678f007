package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Invite asks the person behind a player or coach record to sign in and
// take over the record. Exactly one of PlayerID and CoachID is set.
type Invite struct {
	Code      string    `gorm:"primaryKey;size:64" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"not null;size:320" json:"email"`
	FullName  string    `gorm:"size:200" json:"full_name"`
	OwnerID   string    `gorm:"not null;index;type:varchar(36)" json:"owner_id"`
	PlayerID  *string   `gorm:"index;type:varchar(36)" json:"player_id,omitempty"`
	CoachID   *string   `gorm:"index;type:varchar(36)" json:"coach_id,omitempty"`
	Used      bool      `gorm:"default:false" json:"used"`
	UsedBy    *string   `gorm:"type:varchar(36)" json:"used_by,omitempty"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func GenerateInviteCode() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (i *Invite) IsValid(now time.Time) bool {
	return !i.Used && now.Before(i.ExpiresAt)
}
