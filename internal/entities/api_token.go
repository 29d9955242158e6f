package entities

import (
	"time"
)

// APIToken holds the encrypted Readwise access token. There is at most
// one row: the app is single-device and single-account.
type APIToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:text" json:"-"` // AES-256-GCM encrypted, base64
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (APIToken) TableName() string {
	return "api_tokens"
}
