package models

import "time"

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// StoredCredential is the single persisted row of the sql token store.
type StoredCredential struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Token     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (StoredCredential) TableName() string {
	return "credentials"
}
