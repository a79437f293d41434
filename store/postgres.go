package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"phonebook/models"
)

const uniqueViolation = "23505"

type PostgresUserStore struct {
	db *sqlx.DB
}

func NewPostgresUserStore(db *sqlx.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(u *models.User) error {
	err := s.db.QueryRow(`
		INSERT INTO users (email, password_hash, subscription, avatar_url, verification_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, u.Email, u.PasswordHash, u.Subscription, u.AvatarURL, u.VerificationToken).Scan(&u.ID, &u.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

const userColumns = `id, email, password_hash, subscription, avatar_url, verify, verification_token, token, created_at`

func (s *PostgresUserStore) GetByID(id string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) GetByVerificationToken(token string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) SetVerified(id string) error {
	return s.exec(`UPDATE users SET verify = TRUE, verification_token = NULL WHERE id = $1`, id)
}

func (s *PostgresUserStore) SetToken(id string, token *string) error {
	return s.exec(`UPDATE users SET token = $2 WHERE id = $1`, id, token)
}

func (s *PostgresUserStore) SetSubscription(id, subscription string) error {
	return s.exec(`UPDATE users SET subscription = $2 WHERE id = $1`, id, subscription)
}

func (s *PostgresUserStore) SetAvatarURL(id, avatarURL string) error {
	return s.exec(`UPDATE users SET avatar_url = $2 WHERE id = $1`, id, avatarURL)
}

func (s *PostgresUserStore) exec(query string, args ...interface{}) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type PostgresContactStore struct {
	db *sqlx.DB
}

func NewPostgresContactStore(db *sqlx.DB) *PostgresContactStore {
	return &PostgresContactStore{db: db}
}

const contactColumns = `id, name, email, phone, favorite, owner_id`

func (s *PostgresContactStore) List(ownerID string, page, limit int, favorite *bool) (*models.ContactPage, error) {
	where := "owner_id = $1"
	args := []interface{}{ownerID}
	if favorite != nil {
		where += " AND favorite = $2"
		args = append(args, *favorite)
	}

	var total int
	if err := s.db.Get(&total, `SELECT COUNT(*) FROM contacts WHERE `+where, args...); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM contacts
		WHERE %s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d
	`, contactColumns, where, len(args)+1, len(args)+2)

	docs := []models.Contact{}
	offset := (page - 1) * limit
	if err := s.db.Select(&docs, query, append(args, limit, offset)...); err != nil {
		return nil, err
	}

	return models.NewContactPage(docs, total, page, limit), nil
}

func (s *PostgresContactStore) Get(ownerID, id string) (*models.Contact, error) {
	var ct models.Contact
	err := s.db.Get(&ct, `SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (s *PostgresContactStore) Create(ownerID string, in ContactInput) (*models.Contact, error) {
	var ct models.Contact
	err := s.db.Get(&ct, `
		INSERT INTO contacts (name, email, phone, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+contactColumns+`
	`, in.Name, in.Email, in.Phone, ownerID)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// Update is a single conditional statement: the owner filter rides along in
// the WHERE clause so an un-owned contact is never touched and surfaces as
// ErrNotFound.
func (s *PostgresContactStore) Update(ownerID, id string, patch ContactPatch) (*models.Contact, error) {
	set := []string{}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Favorite != nil {
		add("favorite", *patch.Favorite)
	}
	if len(set) == 0 {
		return s.Get(ownerID, id)
	}

	query := fmt.Sprintf(`
		UPDATE contacts SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING %s
	`, strings.Join(set, ", "), n, n+1, contactColumns)
	args = append(args, id, ownerID)

	var ct models.Contact
	err := s.db.Get(&ct, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (s *PostgresContactStore) Delete(ownerID, id string) (*models.Contact, error) {
	var ct models.Contact
	err := s.db.Get(&ct, `
		DELETE FROM contacts
		WHERE id = $1 AND owner_id = $2
		RETURNING `+contactColumns+`
	`, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (s *PostgresContactStore) SetFavorite(ownerID, id string, favorite bool) (*models.Contact, error) {
	var ct models.Contact
	err := s.db.Get(&ct, `
		UPDATE contacts SET favorite = $1
		WHERE id = $2 AND owner_id = $3
		RETURNING `+contactColumns+`
	`, favorite, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}
