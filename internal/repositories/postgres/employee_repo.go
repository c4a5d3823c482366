package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cubstechnical/cubs-ems/internal/models"
	"github.com/cubstechnical/cubs-ems/internal/utils"
	"gorm.io/gorm"
)

// EmployeeListParams narrows and pages the employee list.
type EmployeeListParams struct {
	Search     string // ILIKE across name, employee_id, trade, company_name
	Company    string
	Trade      string
	ActiveOnly bool
	ExpiryDays int // >0: visa expires within N days from today
	Limit      int
	Offset     int
}

// CompanyCount is a dashboard aggregate row.
type CompanyCount struct {
	CompanyName string `json:"company_name"`
	Count       int64  `json:"count"`
}

type EmployeeRepository interface {
	Insert(ctx context.Context, e *models.Employee) error
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	List(ctx context.Context, p EmployeeListParams) ([]models.Employee, int64, error)

	// Expiry alert support.
	VisaExpiringOn(ctx context.Context, date time.Time, flagColumn string) ([]models.Employee, error)
	MarkNotified(ctx context.Context, ids []string, flagColumn string) error

	// Dashboard aggregates.
	CountActive(ctx context.Context) (int64, error)
	CountByCompany(ctx context.Context) ([]CompanyCount, error)
	CountVisaExpiringWithin(ctx context.Context, from, to time.Time) (int64, error)
	CountVisaExpired(ctx context.Context, asOf time.Time) (int64, error)
	VisaExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Insert(ctx context.Context, e *models.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	var e models.Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &e, err
}

func (r *employeeRepo) Update(ctx context.Context, e *models.Employee) error {
	// Save writes every column so cleared notified flags and nulled dates stick.
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *employeeRepo) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *employeeRepo) HardDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *employeeRepo) List(ctx context.Context, p EmployeeListParams) ([]models.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Employee{})

	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where(
			"name ILIKE ? OR employee_id ILIKE ? OR trade ILIKE ? OR company_name ILIKE ?",
			like, like, like, like,
		)
	}
	if p.Company != "" {
		q = q.Where("company_name = ?", p.Company)
	}
	if p.Trade != "" {
		q = q.Where("trade = ?", p.Trade)
	}
	if p.ActiveOnly {
		q = q.Where("is_active = true")
	}
	if p.ExpiryDays > 0 {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		q = q.Where("visa_expiry_date IS NOT NULL AND visa_expiry_date BETWEEN ? AND ?",
			today, today.AddDate(0, 0, p.ExpiryDays))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Employee
	err := q.Order("name ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *employeeRepo) VisaExpiringOn(ctx context.Context, date time.Time, flagColumn string) ([]models.Employee, error) {
	var rows []models.Employee
	err := r.db.WithContext(ctx).
		Where("is_active = true AND visa_expiry_date = ? AND "+flagColumn+" = false", date.Format("2006-01-02")).
		Order("company_name ASC, name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *employeeRepo) MarkNotified(ctx context.Context, ids []string, flagColumn string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id IN ?", ids).
		Update(flagColumn, true).Error
}

func (r *employeeRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("is_active = true").
		Count(&n).Error
	return n, err
}

func (r *employeeRepo) CountByCompany(ctx context.Context) ([]CompanyCount, error) {
	var rows []CompanyCount
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Select("company_name, COUNT(*) AS count").
		Where("is_active = true").
		Group("company_name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *employeeRepo) CountVisaExpiringWithin(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("is_active = true AND visa_expiry_date BETWEEN ? AND ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Count(&n).Error
	return n, err
}

func (r *employeeRepo) CountVisaExpired(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("is_active = true AND visa_expiry_date < ?", asOf.Format("2006-01-02")).
		Count(&n).Error
	return n, err
}

func (r *employeeRepo) VisaExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Employee, error) {
	var rows []models.Employee
	err := r.db.WithContext(ctx).
		Where("is_active = true AND visa_expiry_date BETWEEN ? AND ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("visa_expiry_date ASC, name ASC").
		Find(&rows).Error
	return rows, err
}
