package repositories

import (
	"database/sql"
	"fmt"

	"unimaterials/internal/models"
)

type MaterialRepository interface {
	Create(m *models.Material) error
	GetByID(id int) (*models.Material, error)
	List(filter models.MaterialFilter) ([]*models.Material, error)
	Update(m *models.Material) error
	SetApproved(id int, approved bool) (*models.Material, error)
	Delete(id int) error
}

type materialRepository struct {
	DB *sql.DB
}

func NewMaterialRepository(db *sql.DB) MaterialRepository {
	return &materialRepository{DB: db}
}

func (r *materialRepository) Create(m *models.Material) error {
	const q = `
		INSERT INTO materials (level, course_code, course_title, description, pdf_url, approved)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		m.Level, m.CourseCode, m.CourseTitle, m.Description, m.PdfURL, m.Approved,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

func (r *materialRepository) GetByID(id int) (*models.Material, error) {
	const q = `
		SELECT id, level, course_code, course_title, description, pdf_url, approved, created_at, updated_at
		FROM materials
		WHERE id = $1
	`
	m := &models.Material{}
	err := r.DB.QueryRow(q, id).Scan(
		&m.ID, &m.Level, &m.CourseCode, &m.CourseTitle, &m.Description, &m.PdfURL,
		&m.Approved, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

func (r *materialRepository) List(filter models.MaterialFilter) ([]*models.Material, error) {
	query := `SELECT id, level, course_code, course_title, description, pdf_url, approved, created_at, updated_at FROM materials WHERE 1=1`
	args := []interface{}{}
	i := 1

	if filter.Level != "" {
		query += fmt.Sprintf(" AND level = $%d", i)
		args = append(args, filter.Level)
		i++
	}
	if filter.CourseCode != "" {
		query += fmt.Sprintf(" AND course_code = $%d", i)
		args = append(args, filter.CourseCode)
		i++
	}
	if filter.Approved != nil {
		query += fmt.Sprintf(" AND approved = $%d", i)
		args = append(args, *filter.Approved)
		i++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var out []*models.Material
	for rows.Next() {
		m := &models.Material{}
		if err := rows.Scan(
			&m.ID, &m.Level, &m.CourseCode, &m.CourseTitle, &m.Description, &m.PdfURL,
			&m.Approved, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *materialRepository) Update(m *models.Material) error {
	const q = `
		UPDATE materials
		SET level=$1, course_code=$2, course_title=$3, description=$4, pdf_url=$5, approved=$6, updated_at=NOW()
		WHERE id=$7
		RETURNING updated_at
	`
	if err := r.DB.QueryRow(q,
		m.Level, m.CourseCode, m.CourseTitle, m.Description, m.PdfURL, m.Approved, m.ID,
	).Scan(&m.UpdatedAt); err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

func (r *materialRepository) SetApproved(id int, approved bool) (*models.Material, error) {
	const q = `
		UPDATE materials
		SET approved=$1, updated_at=NOW()
		WHERE id=$2
		RETURNING id, level, course_code, course_title, description, pdf_url, approved, created_at, updated_at
	`
	m := &models.Material{}
	err := r.DB.QueryRow(q, approved, id).Scan(
		&m.ID, &m.Level, &m.CourseCode, &m.CourseTitle, &m.Description, &m.PdfURL,
		&m.Approved, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("set material approved: %w", err)
	}
	return m, nil
}

func (r *materialRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM materials WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}
