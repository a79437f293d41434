package handlers

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"phonebook/models"
	"phonebook/store"
)

var testLog = zap.NewNop().Sugar()

type fakeUserStore struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) Create(u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByVerificationToken(token string) (*models.User, error) {
	for _, u := range f.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) SetVerified(id string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Verify = true
	u.VerificationToken = nil
	return nil
}

func (f *fakeUserStore) SetToken(id string, token *string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Token = token
	return nil
}

func (f *fakeUserStore) SetSubscription(id, subscription string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Subscription = subscription
	return nil
}

func (f *fakeUserStore) SetAvatarURL(id, avatarURL string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.AvatarURL = avatarURL
	return nil
}

type sentMail struct {
	to    string
	token string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendVerificationEmail(to, token string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, token: token})
	return nil
}
