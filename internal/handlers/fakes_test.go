package handlers_test

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"unimaterials/internal/models"
)

// Minimal in-memory stand-ins for the Postgres repositories, the SMTP
// notifier and the blob store, enough to drive the full HTTP stack
// through httptest.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: map[string]*models.User{}}
}

func (r *memUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return errors.New("duplicate email")
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateRole(userID int, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.Role = role
		}
	}
	return nil
}

func (r *memUserRepo) UpdatePassword(userID int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}

type memOTPRepo struct {
	mu      sync.Mutex
	records map[string]models.OTPRecord
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{records: map[string]models.OTPRecord{}}
}

func (r *memOTPRepo) Upsert(email, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[email] = models.OTPRecord{Email: email, Code: code, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	return nil
}

func (r *memOTPRepo) GetByEmail(email string) (*models.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[email]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (r *memOTPRepo) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, email)
	return nil
}

func (r *memOTPRepo) DeleteExpired() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for email, rec := range r.records {
		if now.After(rec.ExpiresAt) {
			delete(r.records, email)
			n++
		}
	}
	return n, nil
}

type memMaterialRepo struct {
	mu        sync.Mutex
	nextID    int
	materials map[int]*models.Material
}

func newMemMaterialRepo() *memMaterialRepo {
	return &memMaterialRepo{nextID: 1, materials: map[int]*models.Material{}}
}

func (r *memMaterialRepo) Create(m *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *memMaterialRepo) GetByID(id int) (*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMaterialRepo) List(filter models.MaterialFilter) ([]*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Material
	for _, m := range r.materials {
		if filter.Level != "" && m.Level != filter.Level {
			continue
		}
		if filter.CourseCode != "" && m.CourseCode != filter.CourseCode {
			continue
		}
		if filter.Approved != nil && m.Approved != *filter.Approved {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMaterialRepo) Update(m *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[m.ID]; !ok {
		return errors.New("no rows in result set")
	}
	m.UpdatedAt = time.Now()
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *memMaterialRepo) SetApproved(id int, approved bool) (*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, nil
	}
	m.Approved = approved
	m.UpdatedAt = time.Now()
	cp := *m
	return &cp, nil
}

func (r *memMaterialRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.materials, id)
	return nil
}

type memEmailService struct {
	mu   sync.Mutex
	sent map[string][]string
}

func newMemEmailService() *memEmailService {
	return &memEmailService{sent: map[string][]string{}}
}

func (s *memEmailService) SendOTPEmail(email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[email] = append(s.sent[email], code)
	return nil
}

func (s *memEmailService) SendWelcomeEmail(string) error { return nil }

func (s *memEmailService) lastCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := s.sent[email]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

type memBlobStore struct {
	mu     sync.Mutex
	nextID int
	blobs  map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{nextID: 1, blobs: map[string][]byte{}}
}

func (s *memBlobStore) Save(key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("http://localhost:8080/uploads/%d/%s", s.nextID, key)
	s.nextID++
	s.blobs[url] = data
	return url, nil
}

func (s *memBlobStore) Remove(publicURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, publicURL)
	return nil
}
