package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"unimaterials/internal/models"
	"unimaterials/internal/repositories"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidDomain = errors.New("not a valid institutional email")
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	// One error for absent, expired and mismatched codes, so a caller
	// cannot tell which case it hit.
	ErrOTPInvalid = errors.New("invalid or expired OTP")

	ErrBadCredentials = errors.New("invalid email or password")
	ErrWeakPassword   = errors.New("password must be at least 6 characters")
)

// AuthService runs the OTP login flow: account lookup, code
// generation, ledger write, delivery, verification and single-use
// invalidation.
type AuthService interface {
	Register(email string) (*models.User, error)
	RequestOTP(email string) error
	VerifyOTP(email, code string) (*models.User, error)
	LoginWithPassword(email, password string) (*models.User, error)
	PromoteToAdmin(email, password string) (*models.User, error)
}

type authService struct {
	users  repositories.UserRepository
	otps   repositories.OTPRepository
	emails EmailService
	domain string
	otpTTL time.Duration
}

func NewAuthService(
	users repositories.UserRepository,
	otps repositories.OTPRepository,
	emails EmailService,
	allowedDomain string,
	otpTTL time.Duration,
) AuthService {
	return &authService{
		users:  users,
		otps:   otps,
		emails: emails,
		domain: allowedDomain,
		otpTTL: otpTTL,
	}
}

// generateCode returns a uniformly random six-digit code. The range
// starts at 100000 so a code never carries a leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	at := strings.LastIndex(email, "@")
	if at < 1 || email[at+1:] != s.domain {
		return nil, ErrInvalidDomain
	}

	user := &models.User{Email: email, Role: models.RoleUser}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	log.Printf("[auth][register] created user id=%d email=%s", user.ID, user.Email)

	// best effort, registration does not fail on a lost welcome mail
	if err := s.emails.SendWelcomeEmail(user.Email); err != nil {
		log.Printf("[auth][register] welcome email to %s failed: %v", user.Email, err)
	}

	if err := s.sendOTP(user.Email); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) RequestOTP(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.sendOTP(user.Email)
}

// sendOTP writes the code to the ledger before dispatching it, and
// does not roll the ledger entry back if delivery fails: the client
// simply requests a fresh code, which overwrites this one.
func (s *authService) sendOTP(email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.otpTTL)

	if err := s.otps.Upsert(email, code, expiresAt); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.emails.SendOTPEmail(email, code, s.otpTTL); err != nil {
		return fmt.Errorf("deliver otp: %w", err)
	}
	log.Printf("[auth][request-otp] sent to %s, expires %s", email, expiresAt.Format(time.RFC3339))
	return nil
}

func (s *authService) VerifyOTP(email, code string) (*models.User, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, ErrOTPInvalid
	}

	rec, err := s.otps.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrOTPInvalid
	}
	// The store evicts expired rows on its own schedule; check here
	// too so a coarse eviction tick never lets a stale code through.
	if time.Now().After(rec.ExpiresAt) {
		return nil, ErrOTPInvalid
	}
	if rec.Code != code {
		return nil, ErrOTPInvalid
	}

	// single-use: burn the code before reporting success
	if err := s.otps.Delete(email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	log.Printf("[auth][verify-otp] OK user id=%d email=%s", user.ID, user.Email)
	return user, nil
}

// LoginWithPassword is the password path used by admin accounts.
// Accounts created through the OTP flow carry no hash and always fail
// here with the same error as a wrong password.
func (s *authService) LoginWithPassword(email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrBadCredentials
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	log.Printf("[auth][login] password OK user id=%d email=%s", user.ID, user.Email)
	return user, nil
}

// PromoteToAdmin grants the admin role to an existing account and sets
// the password it will log in with. There is no HTTP route for this;
// operators run the promote command.
func (s *authService) PromoteToAdmin(email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(user.ID, models.RoleAdmin); err != nil {
		return nil, err
	}

	user.PasswordHash = string(hash)
	user.Role = models.RoleAdmin
	log.Printf("[auth][promote] user id=%d email=%s is now admin", user.ID, user.Email)
	return user, nil
}
