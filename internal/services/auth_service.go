package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

const tokenTTL = 72 * time.Hour

type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*models.Profile, error)
	Login(ctx context.Context, email, password string) (token string, p *models.Profile, err error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	PendingProfiles(ctx context.Context) ([]models.Profile, error)
	Approve(ctx context.Context, adminID, userID string) (*models.Profile, error)
	Reject(ctx context.Context, adminID, userID string) (*models.Profile, error)
}

// Claims carried in issued bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authService struct {
	profiles      pgrepo.ProfileRepository
	notifications pgrepo.NotificationRepository
	secret        []byte
	issuer        string
}

func NewAuthService(profiles pgrepo.ProfileRepository, notifications pgrepo.NotificationRepository) AuthService {
	return &authService{
		profiles:      profiles,
		notifications: notifications,
		secret:        []byte(os.Getenv("JWT_SECRET")),
		issuer:        os.Getenv("JWT_ISSUER"),
	}
}

func (s *authService) Register(ctx context.Context, email, password, fullName string) (*models.Profile, error) {
	const op = "AuthService.Register"

	if email == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if len(password) < 8 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "password must be at least 8 characters", nil)
	}

	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "an account with this email already exists", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing account", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	p := &models.Profile{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         models.RoleUser,
		Status:       models.ProfilePending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.profiles.Insert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create account", err)
	}
	return p, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	const op = "AuthService.Login"

	if email == "" || password == "" {
		return "", nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if len(s.secret) == 0 {
		return "", nil, utils.E(utils.CodeInternal, op, "JWT_SECRET is not set", nil)
	}

	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
		}
		return "", nil, utils.E(utils.CodeInternal, op, "failed to look up account", err)
	}

	if err := utils.CheckPassword(p.PasswordHash, password); err != nil {
		return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
	}

	// Approval gating happens after the password check so a pending user
	// gets a clear "awaiting approval" instead of a generic 401.
	if p.Status != models.ProfileApproved {
		return "", nil, utils.E(utils.CodeForbidden, op, "account is awaiting admin approval", nil)
	}

	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Email: p.Email,
		Role:  string(p.Role),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return token, p, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "AuthService.GetProfile"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *authService) PendingProfiles(ctx context.Context) ([]models.Profile, error) {
	const op = "AuthService.PendingProfiles"

	rows, err := s.profiles.ListByStatus(ctx, models.ProfilePending)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list pending profiles", err)
	}
	return rows, nil
}

func (s *authService) Approve(ctx context.Context, adminID, userID string) (*models.Profile, error) {
	const op = "AuthService.Approve"
	return s.decide(ctx, op, adminID, userID, models.ProfileApproved)
}

func (s *authService) Reject(ctx context.Context, adminID, userID string) (*models.Profile, error) {
	const op = "AuthService.Reject"
	return s.decide(ctx, op, adminID, userID, models.ProfileRejected)
}

func (s *authService) decide(ctx context.Context, op, adminID, userID string, status models.ProfileStatus) (*models.Profile, error) {
	if adminID == "" || userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "admin_id and user_id are required", nil)
	}
	if adminID == userID {
		return nil, utils.E(utils.CodeForbidden, op, "cannot approve or reject your own account", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	if p.Status != models.ProfilePending {
		return nil, utils.E(utils.CodeConflict, op, "profile has already been decided", nil)
	}

	now := time.Now().UTC()
	p.Status = status
	p.ApprovedBy = &adminID
	p.ApprovedAt = &now
	p.UpdatedAt = now

	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}

	if status == models.ProfileApproved {
		// best effort: the account works either way
		_ = s.notifications.Insert(ctx, &models.Notification{
			ID:        uuid.NewString(),
			UserID:    p.UserID,
			Type:      "account_approved",
			Title:     "Account approved",
			Body:      "Your account has been approved. You can now sign in.",
			CreatedAt: now,
		})
	}
	return p, nil
}
