package services

import (
	"context"
	"time"

	"github.com/cubstechnical/cubs-ems/internal/cache"
	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

const dashboardTTL = 5 * time.Minute

type ExpiryBuckets struct {
	Expired  int64 `json:"expired"`
	Within7  int64 `json:"within_7"`
	Within30 int64 `json:"within_30"`
	Within60 int64 `json:"within_60"`
}

type DashboardSummary struct {
	ActiveEmployees int64                 `json:"active_employees"`
	TotalDocuments  int64                 `json:"total_documents"`
	ByCompany       []pgrepo.CompanyCount `json:"by_company"`
	VisaExpiry      ExpiryBuckets         `json:"visa_expiry"`
	RecentActivity  []models.AuditLog     `json:"recent_activity"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
	ExpiringVisas(ctx context.Context, withinDays int) ([]models.Employee, error)
}

type dashboardService struct {
	employees pgrepo.EmployeeRepository
	documents pgrepo.DocumentRepository
	audits    pgrepo.AuditLogRepository
	cache     cache.Cache
}

func NewDashboardService(employees pgrepo.EmployeeRepository, documents pgrepo.DocumentRepository, audits pgrepo.AuditLogRepository, c cache.Cache) DashboardService {
	return &dashboardService{employees: employees, documents: documents, audits: audits, cache: c}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	const op = "DashboardService.Summary"

	if s.cache != nil {
		var cached DashboardSummary
		if hit, _ := s.cache.GetJSON(ctx, cache.KeyDashboardSummary, &cached); hit {
			return &cached, nil
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	out := &DashboardSummary{GeneratedAt: time.Now().UTC()}

	var err error
	if out.ActiveEmployees, err = s.employees.CountActive(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count employees", err)
	}
	if out.TotalDocuments, err = s.documents.CountAll(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count documents", err)
	}
	if out.ByCompany, err = s.employees.CountByCompany(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count by company", err)
	}
	if out.VisaExpiry.Expired, err = s.employees.CountVisaExpired(ctx, today); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count expired visas", err)
	}
	if out.VisaExpiry.Within7, err = s.employees.CountVisaExpiringWithin(ctx, today, today.AddDate(0, 0, 7)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count expiring visas", err)
	}
	if out.VisaExpiry.Within30, err = s.employees.CountVisaExpiringWithin(ctx, today, today.AddDate(0, 0, 30)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count expiring visas", err)
	}
	if out.VisaExpiry.Within60, err = s.employees.CountVisaExpiringWithin(ctx, today, today.AddDate(0, 0, 60)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count expiring visas", err)
	}
	if out.RecentActivity, err = s.audits.Recent(ctx, 10); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load recent activity", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cache.KeyDashboardSummary, out, dashboardTTL)
	}
	return out, nil
}

func (s *dashboardService) ExpiringVisas(ctx context.Context, withinDays int) ([]models.Employee, error) {
	const op = "DashboardService.ExpiringVisas"

	if withinDays <= 0 {
		withinDays = 60
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	rows, err := s.employees.VisaExpiringBetween(ctx, today, today.AddDate(0, 0, withinDays))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load expiring visas", err)
	}
	return rows, nil
}
