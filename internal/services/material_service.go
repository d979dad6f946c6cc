package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"unimaterials/internal/models"
	"unimaterials/internal/repositories"
	"unimaterials/internal/storage"
)

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrFileRequired     = errors.New("please upload a PDF file")
	ErrFieldsRequired   = errors.New("all fields are required")
)

type MaterialInput struct {
	Level       string
	CourseCode  string
	CourseTitle string
	Description string
	Approved    *bool
}

type MaterialService interface {
	Create(in MaterialInput, filename string, file io.Reader) (*models.Material, error)
	Get(id int) (*models.Material, error)
	List(filter models.MaterialFilter) ([]*models.Material, error)
	Update(id int, in MaterialInput, filename string, file io.Reader) (*models.Material, error)
	ToggleApproval(id int) (*models.Material, error)
	Delete(id int) error
}

type materialService struct {
	repo  repositories.MaterialRepository
	blobs storage.BlobStore
}

func NewMaterialService(repo repositories.MaterialRepository, blobs storage.BlobStore) MaterialService {
	return &materialService{repo: repo, blobs: blobs}
}

// blobKey derives the storage key for an upload. The timestamp keeps
// re-uploads of the same filename from colliding.
func blobKey(level, courseCode, filename string) string {
	return fmt.Sprintf("%s/%s/%d_%s", level, courseCode, time.Now().Unix(), filepath.Base(filename))
}

func (s *materialService) Create(in MaterialInput, filename string, file io.Reader) (*models.Material, error) {
	if file == nil {
		return nil, ErrFileRequired
	}
	level := strings.TrimSpace(in.Level)
	courseCode := strings.TrimSpace(in.CourseCode)
	courseTitle := strings.TrimSpace(in.CourseTitle)
	if level == "" || courseCode == "" || courseTitle == "" {
		return nil, ErrFieldsRequired
	}

	url, err := s.blobs.Save(blobKey(level, courseCode, filename), file)
	if err != nil {
		return nil, err
	}

	m := &models.Material{
		Level:       level,
		CourseCode:  courseCode,
		CourseTitle: courseTitle,
		Description: strings.TrimSpace(in.Description),
		PdfURL:      url,
		Approved:    false, // admin approves later
	}
	if err := s.repo.Create(m); err != nil {
		// best effort: don't leave an orphaned blob behind
		if rmErr := s.blobs.Remove(url); rmErr != nil {
			log.Printf("[materials][create] orphan blob cleanup failed: %v", rmErr)
		}
		return nil, err
	}
	return m, nil
}

func (s *materialService) Get(id int) (*models.Material, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMaterialNotFound
	}
	return m, nil
}

func (s *materialService) List(filter models.MaterialFilter) ([]*models.Material, error) {
	return s.repo.List(filter)
}

// Update replaces metadata fields that were supplied and keeps the
// rest. A new file replaces the stored blob and the old one is
// discarded.
func (s *materialService) Update(id int, in MaterialInput, filename string, file io.Reader) (*models.Material, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMaterialNotFound
	}

	if v := strings.TrimSpace(in.Level); v != "" {
		m.Level = v
	}
	if v := strings.TrimSpace(in.CourseCode); v != "" {
		m.CourseCode = v
	}
	if v := strings.TrimSpace(in.CourseTitle); v != "" {
		m.CourseTitle = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		m.Description = v
	}
	if in.Approved != nil {
		m.Approved = *in.Approved
	}

	if file != nil {
		oldURL := m.PdfURL
		url, err := s.blobs.Save(blobKey(m.Level, m.CourseCode, filename), file)
		if err != nil {
			return nil, err
		}
		m.PdfURL = url
		if oldURL != "" {
			if err := s.blobs.Remove(oldURL); err != nil {
				log.Printf("[materials][update] old blob cleanup failed: %v", err)
			}
		}
	}

	if err := s.repo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *materialService) ToggleApproval(id int) (*models.Material, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMaterialNotFound
	}
	updated, err := s.repo.SetApproved(id, !m.Approved)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrMaterialNotFound
	}
	return updated, nil
}

func (s *materialService) Delete(id int) error {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMaterialNotFound
	}
	if m.PdfURL != "" {
		if err := s.blobs.Remove(m.PdfURL); err != nil {
			log.Printf("[materials][delete] blob cleanup failed: %v", err)
		}
	}
	return s.repo.Delete(m.ID)
}
