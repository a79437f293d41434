package models

import (
	"time"
)

type User struct {
	ID                string    `json:"id" db:"id"`
	Email             string    `json:"email" db:"email"`
	PasswordHash      string    `json:"-" db:"password_hash"`
	Subscription      string    `json:"subscription" db:"subscription"`
	AvatarURL         string    `json:"avatarURL" db:"avatar_url"`
	Verify            bool      `json:"verify" db:"verify"`
	VerificationToken *string   `json:"-" db:"verification_token"`
	Token             *string   `json:"-" db:"token"` // single active session token
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

type Contact struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Phone    string `json:"phone" db:"phone"`
	Favorite bool   `json:"favorite" db:"favorite"`
	OwnerID  string `json:"owner" db:"owner_id"`
}

// ContactPage is the listing envelope returned by GET /api/contacts.
type ContactPage struct {
	Docs        []Contact `json:"docs"`
	TotalDocs   int       `json:"totalDocs"`
	Limit       int       `json:"limit"`
	Page        int       `json:"page"`
	TotalPages  int       `json:"totalPages"`
	HasPrevPage bool      `json:"hasPrevPage"`
	HasNextPage bool      `json:"hasNextPage"`
}

func NewContactPage(docs []Contact, total, page, limit int) *ContactPage {
	if docs == nil {
		docs = []Contact{}
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return &ContactPage{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       limit,
		Page:        page,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
}
