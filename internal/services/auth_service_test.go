package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type memProfileRepo struct {
	pgrepo.ProfileRepository

	rows map[string]*models.Profile // keyed by user_id
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{rows: map[string]*models.Profile{}}
}

func (r *memProfileRepo) Insert(ctx context.Context, p *models.Profile) error {
	cp := *p
	r.rows[p.UserID] = &cp
	return nil
}

func (r *memProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	p, ok := r.rows[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, p := range r.rows {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *memProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	cp := *p
	r.rows[p.UserID] = &cp
	return nil
}

func (r *memProfileRepo) ListByStatus(ctx context.Context, status models.ProfileStatus) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range r.rows {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memNotificationRepo struct {
	pgrepo.NotificationRepository

	rows []models.Notification
}

func (r *memNotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	r.rows = append(r.rows, *n)
	return nil
}

func newAuthService(t *testing.T) (AuthService, *memProfileRepo, *memNotificationRepo) {
	t.Setenv("JWT_SECRET", "test-secret")
	profiles := newMemProfileRepo()
	notifications := &memNotificationRepo{}
	return NewAuthService(profiles, notifications), profiles, notifications
}

func TestRegisterCreatesPendingProfile(t *testing.T) {
	svc, repo, _ := newAuthService(t)

	p, err := svc.Register(context.Background(), "user@cubstechnical.com", "s3cretpass", "New User")
	require.NoError(t, err)
	assert.Equal(t, models.ProfilePending, p.Status)
	assert.Equal(t, models.RoleUser, p.Role)
	assert.NotEmpty(t, p.UserID)
	assert.NotEqual(t, "s3cretpass", repo.rows[p.UserID].PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), "user@cubstechnical.com", "s3cretpass", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "USER@cubstechnical.com", "otherpass1", "")
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), "", "s3cretpass", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Register(context.Background(), "a@b.com", "short", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestLoginApprovalGating(t *testing.T) {
	svc, repo, _ := newAuthService(t)

	p, err := svc.Register(context.Background(), "user@cubstechnical.com", "s3cretpass", "")
	require.NoError(t, err)

	// pending account: right password, still forbidden
	_, _, err = svc.Login(context.Background(), "user@cubstechnical.com", "s3cretpass")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	repo.rows[p.UserID].Status = models.ProfileApproved

	token, got, err := svc.Login(context.Background(), "user@cubstechnical.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, p.UserID, got.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _ := newAuthService(t)

	p, err := svc.Register(context.Background(), "user@cubstechnical.com", "s3cretpass", "")
	require.NoError(t, err)
	repo.rows[p.UserID].Status = models.ProfileApproved

	_, _, err = svc.Login(context.Background(), "user@cubstechnical.com", "wrongpass1")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, _, err = svc.Login(context.Background(), "nobody@cubstechnical.com", "s3cretpass")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}

func TestApproveWorkflow(t *testing.T) {
	svc, repo, notifications := newAuthService(t)

	p, err := svc.Register(context.Background(), "user@cubstechnical.com", "s3cretpass", "")
	require.NoError(t, err)

	out, err := svc.Approve(context.Background(), "admin-1", p.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileApproved, out.Status)
	require.NotNil(t, out.ApprovedBy)
	assert.Equal(t, "admin-1", *out.ApprovedBy)
	assert.NotNil(t, out.ApprovedAt)

	// approval pings the user in-app
	require.Len(t, notifications.rows, 1)
	assert.Equal(t, "account_approved", notifications.rows[0].Type)

	// already decided
	_, err = svc.Approve(context.Background(), "admin-1", p.UserID)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))

	_ = repo
}

func TestApproveSelfForbidden(t *testing.T) {
	svc, _, _ := newAuthService(t)

	p, err := svc.Register(context.Background(), "admin@cubstechnical.com", "s3cretpass", "")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), p.UserID, p.UserID)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestRejectWorkflow(t *testing.T) {
	svc, _, notifications := newAuthService(t)

	p, err := svc.Register(context.Background(), "user@cubstechnical.com", "s3cretpass", "")
	require.NoError(t, err)

	out, err := svc.Reject(context.Background(), "admin-1", p.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileRejected, out.Status)

	// no approval notification on reject
	assert.Empty(t, notifications.rows)

	// rejected account cannot log in
	_, _, err = svc.Login(context.Background(), "user@cubstechnical.com", "s3cretpass")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}
