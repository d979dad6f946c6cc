package services

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"unimaterials/internal/models"
)

// In-memory fakes standing in for the Postgres repositories and the
// SMTP notifier, so the auth and catalog flows can be exercised
// without external services.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return errors.New("duplicate key value violates unique constraint")
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

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateRole(userID int, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.Role = role
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return nil
}

type fakeOTPRepo struct {
	mu      sync.Mutex
	records map[string]models.OTPRecord
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{records: map[string]models.OTPRecord{}}
}

func (r *fakeOTPRepo) Upsert(email, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[email] = models.OTPRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeOTPRepo) GetByEmail(email string) (*models.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[email]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (r *fakeOTPRepo) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, email)
	return nil
}

func (r *fakeOTPRepo) DeleteExpired() (int64, error) {
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

// fakeEmailService records every OTP it "delivers" so tests can read
// the code back, and can be told to fail.
type fakeEmailService struct {
	mu       sync.Mutex
	sent     map[string][]string // email -> codes, in send order
	welcomed []string
	fail     bool
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: map[string][]string{}}
}

func (s *fakeEmailService) SendOTPEmail(email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp: connection refused")
	}
	s.sent[email] = append(s.sent[email], code)
	return nil
}

func (s *fakeEmailService) SendWelcomeEmail(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.welcomed = append(s.welcomed, email)
	return nil
}

func (s *fakeEmailService) lastCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := s.sent[email]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

type fakeMaterialRepo struct {
	mu        sync.Mutex
	nextID    int
	materials map[int]*models.Material
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{nextID: 1, materials: map[int]*models.Material{}}
}

func (r *fakeMaterialRepo) Create(m *models.Material) error {
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

func (r *fakeMaterialRepo) GetByID(id int) (*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaterialRepo) List(filter models.MaterialFilter) ([]*models.Material, error) {
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

func (r *fakeMaterialRepo) Update(m *models.Material) error {
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

func (r *fakeMaterialRepo) SetApproved(id int, approved bool) (*models.Material, error) {
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

func (r *fakeMaterialRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.materials, id)
	return nil
}

// fakeBlobStore keeps blobs in a map keyed by their public URL.
type fakeBlobStore struct {
	mu     sync.Mutex
	nextID int
	blobs  map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{nextID: 1, blobs: map[string][]byte{}}
}

func (s *fakeBlobStore) Save(key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("http://blobs.test/uploads/%d/%s", s.nextID, key)
	s.nextID++
	s.blobs[url] = data
	return url, nil
}

func (s *fakeBlobStore) Remove(publicURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, publicURL)
	return nil
}

func (s *fakeBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
