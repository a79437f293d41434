package store

import (
	"errors"

	"phonebook/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

type ContactInput struct {
	Name  string
	Email string
	Phone string
}

// ContactPatch carries a partial update; nil fields are left untouched.
type ContactPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

type UserStore interface {
	// Create inserts the user and fills in ID and CreatedAt.
	// A taken email yields ErrDuplicateEmail.
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByVerificationToken(token string) (*models.User, error)
	// SetVerified marks the user verified and clears the verification token.
	SetVerified(id string) error
	// SetToken overwrites the single active session token; nil clears it.
	SetToken(id string, token *string) error
	SetSubscription(id, subscription string) error
	SetAvatarURL(id, avatarURL string) error
}

// ContactStore operations are always scoped by owner: a contact owned by
// someone else is reported as ErrNotFound, same as a missing one.
type ContactStore interface {
	List(ownerID string, page, limit int, favorite *bool) (*models.ContactPage, error)
	Get(ownerID, id string) (*models.Contact, error)
	Create(ownerID string, in ContactInput) (*models.Contact, error)
	Update(ownerID, id string, patch ContactPatch) (*models.Contact, error)
	Delete(ownerID, id string) (*models.Contact, error)
	SetFavorite(ownerID, id string, favorite bool) (*models.Contact, error)
}
