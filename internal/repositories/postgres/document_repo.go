package postgres

import (
	"context"
	"errors"

	"github.com/cubstechnical/cubs-ems/internal/models"
	"github.com/cubstechnical/cubs-ems/internal/utils"
	"gorm.io/gorm"
)

type DocumentListParams struct {
	EmployeeID   string
	DocumentType string
	Search       string // ILIKE across file_name and notes
	Limit        int
	Offset       int
}

type DocumentRepository interface {
	Insert(ctx context.Context, d *models.EmployeeDocument) error
	GetByID(ctx context.Context, id string) (*models.EmployeeDocument, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, p DocumentListParams) ([]models.EmployeeDocument, int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type documentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Insert(ctx context.Context, d *models.EmployeeDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*models.EmployeeDocument, error) {
	var d models.EmployeeDocument
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &d, err
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.EmployeeDocument{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *documentRepo) List(ctx context.Context, p DocumentListParams) ([]models.EmployeeDocument, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.EmployeeDocument{})

	if p.EmployeeID != "" {
		q = q.Where("employee_id = ?", p.EmployeeID)
	}
	if p.DocumentType != "" {
		q = q.Where("document_type = ?", p.DocumentType)
	}
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("file_name ILIKE ? OR notes ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EmployeeDocument
	err := q.Order("uploaded_at DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *documentRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.EmployeeDocument{}).Count(&n).Error
	return n, err
}
