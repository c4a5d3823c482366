package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubstechnical/cubs-ems/internal/cache"
	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type memEmployeeRepo struct {
	pgrepo.EmployeeRepository

	rows map[string]*models.Employee

	lastListParams pgrepo.EmployeeListParams
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{rows: map[string]*models.Employee{}}
}

func (r *memEmployeeRepo) Insert(ctx context.Context, e *models.Employee) error {
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memEmployeeRepo) Update(ctx context.Context, e *models.Employee) error {
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}

func (r *memEmployeeRepo) SoftDelete(ctx context.Context, id string) error {
	e, ok := r.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	e.IsActive = false
	return nil
}

func (r *memEmployeeRepo) List(ctx context.Context, p pgrepo.EmployeeListParams) ([]models.Employee, int64, error) {
	r.lastListParams = p
	return nil, 0, nil
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestEmployeeCreateValidation(t *testing.T) {
	svc := NewEmployeeService(newMemEmployeeRepo(), nil)

	tests := []struct {
		name string
		in   *models.Employee
	}{
		{"missing employee_id", &models.Employee{Name: "A", CompanyName: "C"}},
		{"missing name", &models.Employee{EmployeeID: "CUBS-1", CompanyName: "C"}},
		{"missing company", &models.Employee{EmployeeID: "CUBS-1", Name: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}
}

func TestEmployeeCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := newMemEmployeeRepo()
	svc := NewEmployeeService(repo, nil)

	out, err := svc.Create(context.Background(), &models.Employee{
		EmployeeID: "CUBS-1", Name: "Anil Kumar", CompanyName: "CUBS Technical",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.True(t, out.IsActive)
	assert.False(t, out.CreatedAt.IsZero())
	assert.Contains(t, repo.rows, out.ID)
}

func TestEmployeeUpdateClearsNotifiedFlagsOnVisaChange(t *testing.T) {
	repo := newMemEmployeeRepo()
	svc := NewEmployeeService(repo, nil)

	created, err := svc.Create(context.Background(), &models.Employee{
		EmployeeID: "CUBS-2", Name: "Ramesh P", CompanyName: "CUBS Technical",
		VisaExpiryDate: date(2026, 10, 1),
	})
	require.NoError(t, err)

	// pretend alerts already went out
	created.Notified60 = true
	created.Notified30 = true
	require.NoError(t, repo.Update(context.Background(), created))

	// renewal: visa date moves, flags reset
	created.VisaExpiryDate = date(2028, 10, 1)
	out, err := svc.Update(context.Background(), created)
	require.NoError(t, err)
	assert.False(t, out.Notified60)
	assert.False(t, out.Notified30)
	assert.False(t, out.Notified15)
}

func TestEmployeeUpdateKeepsFlagsWhenVisaUnchanged(t *testing.T) {
	repo := newMemEmployeeRepo()
	svc := NewEmployeeService(repo, nil)

	created, err := svc.Create(context.Background(), &models.Employee{
		EmployeeID: "CUBS-3", Name: "Joseph M", CompanyName: "Al Ashbal",
		VisaExpiryDate: date(2026, 10, 1),
	})
	require.NoError(t, err)

	created.Notified60 = true
	require.NoError(t, repo.Update(context.Background(), created))

	created.Phone = "+971500000000"
	out, err := svc.Update(context.Background(), created)
	require.NoError(t, err)
	assert.True(t, out.Notified60)
}

func TestEmployeeUpdateNotFound(t *testing.T) {
	svc := NewEmployeeService(newMemEmployeeRepo(), nil)

	_, err := svc.Update(context.Background(), &models.Employee{ID: "missing"})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestEmployeeListClampsPagination(t *testing.T) {
	repo := newMemEmployeeRepo()
	svc := NewEmployeeService(repo, nil)

	tests := []struct {
		name           string
		limit, offset  int
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", 0, 0, 20, 0},
		{"cap at 100", 500, 10, 100, 10},
		{"negative offset reset", 20, -5, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.List(context.Background(), pgrepo.EmployeeListParams{Limit: tt.limit, Offset: tt.offset})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLimit, repo.lastListParams.Limit)
			assert.Equal(t, tt.expectedOffset, repo.lastListParams.Offset)
		})
	}
}

func TestEmployeeMutationsInvalidateDashboardCache(t *testing.T) {
	repo := newMemEmployeeRepo()
	c := newRecordingCache()
	svc := NewEmployeeService(repo, c)

	created, err := svc.Create(context.Background(), &models.Employee{
		EmployeeID: "CUBS-5", Name: "Imran S", CompanyName: "CUBS Technical",
	})
	require.NoError(t, err)

	created.Phone = "+971500000000"
	_, err = svc.Update(context.Background(), created)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, false))

	assert.Equal(t, []string{
		cache.KeyDashboardSummary,
		cache.KeyDashboardSummary,
		cache.KeyDashboardSummary,
	}, c.dels)
}

func TestEmployeeSoftDelete(t *testing.T) {
	repo := newMemEmployeeRepo()
	svc := NewEmployeeService(repo, nil)

	created, err := svc.Create(context.Background(), &models.Employee{
		EmployeeID: "CUBS-4", Name: "Vijay N", CompanyName: "CUBS Contracting",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, false))
	assert.False(t, repo.rows[created.ID].IsActive)
}
