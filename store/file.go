package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"phonebook/models"
)

// FileContactStore is the legacy demo backend: contacts in a JSON file.
// A mutex serializes every operation, so concurrent writers cannot interleave
// the read-modify-write cycle.
type FileContactStore struct {
	mu   sync.Mutex
	path string
}

func NewFileContactStore(path string) (*FileContactStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, err
		}
	}
	return &FileContactStore{path: path}, nil
}

func (s *FileContactStore) load() ([]models.Contact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var contacts []models.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *FileContactStore) save(contacts []models.Contact) error {
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileContactStore) List(ownerID string, page, limit int, favorite *bool) (*models.ContactPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return nil, err
	}

	matched := []models.Contact{}
	for _, ct := range contacts {
		if ct.OwnerID != ownerID {
			continue
		}
		if favorite != nil && ct.Favorite != *favorite {
			continue
		}
		matched = append(matched, ct)
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return models.NewContactPage(matched[start:end], len(matched), page, limit), nil
}

func (s *FileContactStore) Get(ownerID, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, ct := range contacts {
		if ct.ID == id && ct.OwnerID == ownerID {
			return &ct, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileContactStore) Create(ownerID string, in ContactInput) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return nil, err
	}

	ct := models.Contact{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		OwnerID: ownerID,
	}
	contacts = append(contacts, ct)

	if err := s.save(contacts); err != nil {
		return nil, err
	}
	return &ct, nil
}

func (s *FileContactStore) Update(ownerID, id string, patch ContactPatch) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ownerID, id, patch)
}

// update assumes the caller holds mu.
func (s *FileContactStore) update(ownerID, id string, patch ContactPatch) (*models.Contact, error) {
	contacts, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID != id || contacts[i].OwnerID != ownerID {
			continue
		}
		if patch.Name != nil {
			contacts[i].Name = *patch.Name
		}
		if patch.Email != nil {
			contacts[i].Email = *patch.Email
		}
		if patch.Phone != nil {
			contacts[i].Phone = *patch.Phone
		}
		if patch.Favorite != nil {
			contacts[i].Favorite = *patch.Favorite
		}
		if err := s.save(contacts); err != nil {
			return nil, err
		}
		ct := contacts[i]
		return &ct, nil
	}
	return nil, ErrNotFound
}

func (s *FileContactStore) Delete(ownerID, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID != id || contacts[i].OwnerID != ownerID {
			continue
		}
		removed := contacts[i]
		contacts = append(contacts[:i], contacts[i+1:]...)
		if err := s.save(contacts); err != nil {
			return nil, err
		}
		return &removed, nil
	}
	return nil, ErrNotFound
}

func (s *FileContactStore) SetFavorite(ownerID, id string, favorite bool) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ownerID, id, ContactPatch{Favorite: &favorite})
}
