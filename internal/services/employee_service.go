package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cubstechnical/cubs-ems/internal/cache"
	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type EmployeeService interface {
	Create(ctx context.Context, e *models.Employee) (*models.Employee, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) (*models.Employee, error)
	Delete(ctx context.Context, id string, hard bool) error
	List(ctx context.Context, p pgrepo.EmployeeListParams) ([]models.Employee, int64, error)
}

type employeeService struct {
	employees pgrepo.EmployeeRepository
	cache     cache.Cache
}

func NewEmployeeService(employees pgrepo.EmployeeRepository, c cache.Cache) EmployeeService {
	return &employeeService{employees: employees, cache: c}
}

func (s *employeeService) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	const op = "EmployeeService.Create"

	if e == nil || e.EmployeeID == "" || e.Name == "" || e.CompanyName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employee_id, name and company_name are required", nil)
	}

	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.IsActive = true
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.employees.Insert(ctx, e); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create employee", err)
	}
	s.invalidateDashboard(ctx)
	return e, nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	const op = "EmployeeService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "employee not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get employee", err)
	}
	return e, nil
}

func (s *employeeService) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	const op = "EmployeeService.Update"

	if e == nil || e.ID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}

	prev, err := s.employees.GetByID(ctx, e.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "employee not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load employee", err)
	}

	// A changed visa date restarts the alert cycle.
	if !sameDate(prev.VisaExpiryDate, e.VisaExpiryDate) {
		e.Notified60 = false
		e.Notified30 = false
		e.Notified15 = false
		e.Notified7 = false
		e.Notified1 = false
	}

	e.CreatedAt = prev.CreatedAt
	e.UpdatedAt = time.Now().UTC()

	if err := s.employees.Update(ctx, e); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update employee", err)
	}
	s.invalidateDashboard(ctx)
	return e, nil
}

func (s *employeeService) Delete(ctx context.Context, id string, hard bool) error {
	const op = "EmployeeService.Delete"

	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}

	var err error
	if hard {
		err = s.employees.HardDelete(ctx, id)
	} else {
		err = s.employees.SoftDelete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "employee not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete employee", err)
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *employeeService) List(ctx context.Context, p pgrepo.EmployeeListParams) ([]models.Employee, int64, error) {
	const op = "EmployeeService.List"

	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	rows, total, err := s.employees.List(ctx, p)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list employees", err)
	}
	return rows, total, nil
}

func (s *employeeService) invalidateDashboard(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, cache.KeyDashboardSummary)
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
