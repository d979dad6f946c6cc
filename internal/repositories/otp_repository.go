package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"unimaterials/internal/models"
)

// OTPRepository is the ledger of live login codes, keyed by email.
// Upsert keeps the one-live-code-per-email invariant in the database
// (ON CONFLICT), so two concurrent requests resolve last-write-wins.
type OTPRepository interface {
	Upsert(email, code string, expiresAt time.Time) error
	GetByEmail(email string) (*models.OTPRecord, error)
	Delete(email string) error
	DeleteExpired() (int64, error)
}

type otpRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{DB: db}
}

func (r *otpRepository) Upsert(email, code string, expiresAt time.Time) error {
	const q = `
		INSERT INTO otps (email, code, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email)
		DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`
	if _, err := r.DB.Exec(q, email, code, expiresAt); err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

func (r *otpRepository) GetByEmail(email string) (*models.OTPRecord, error) {
	const q = `
		SELECT email, code, expires_at, created_at
		FROM otps
		WHERE email = $1
	`
	rec := &models.OTPRecord{}
	err := r.DB.QueryRow(q, email).Scan(&rec.Email, &rec.Code, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return rec, nil
}

func (r *otpRepository) Delete(email string) error {
	if _, err := r.DB.Exec(`DELETE FROM otps WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// DeleteExpired evicts stale codes so the table never accumulates
// dead rows. Runs on a ticker from app startup; the verify path still
// checks expires_at itself.
func (r *otpRepository) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM otps WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired otps: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
