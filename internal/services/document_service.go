package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/storage"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

const signedURLTTL = 15 * time.Minute

// UploadInput carries everything the handler validated about an incoming file.
type UploadInput struct {
	EmployeeID   string
	DocumentType string
	FileName     string
	FileSize     int64
	MimeType     string
	ObjectName   string
	UploadedBy   string
	Notes        string
	Tags         []string
}

type DocumentService interface {
	Upload(ctx context.Context, in UploadInput, r io.Reader) (*models.EmployeeDocument, error)
	Get(ctx context.Context, id string) (*models.EmployeeDocument, error)
	List(ctx context.Context, p pgrepo.DocumentListParams) ([]models.EmployeeDocument, int64, error)
	SignedURL(ctx context.Context, id string) (string, error)
	Open(ctx context.Context, id string) (*models.EmployeeDocument, io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	documents pgrepo.DocumentRepository
	employees pgrepo.EmployeeRepository
	store     storage.Store
}

func NewDocumentService(documents pgrepo.DocumentRepository, employees pgrepo.EmployeeRepository, store storage.Store) DocumentService {
	return &documentService{documents: documents, employees: employees, store: store}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput, r io.Reader) (*models.EmployeeDocument, error) {
	const op = "DocumentService.Upload"

	if in.EmployeeID == "" || in.ObjectName == "" || in.FileName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employee_id, object_name and file_name are required", nil)
	}
	if s.store == nil {
		return nil, utils.E(utils.CodeInternal, op, "storage is not configured", nil)
	}

	if _, err := s.employees.GetByID(ctx, in.EmployeeID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "employee not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load employee", err)
	}

	// Metadata is written only after the bytes are safely stored.
	storedPath, err := s.store.Upload(ctx, in.ObjectName, in.MimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	row := &models.EmployeeDocument{
		ID:           uuid.NewString(),
		EmployeeID:   in.EmployeeID,
		DocumentType: in.DocumentType,
		FileName:     in.FileName,
		FilePath:     storedPath,
		FileSize:     in.FileSize,
		MimeType:     in.MimeType,
		UploadedBy:   in.UploadedBy,
		Notes:        in.Notes,
		Tags:         in.Tags,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.documents.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist document metadata", err)
	}
	return row, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*models.EmployeeDocument, error) {
	const op = "DocumentService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "document not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get document", err)
	}
	return d, nil
}

func (s *documentService) List(ctx context.Context, p pgrepo.DocumentListParams) ([]models.EmployeeDocument, int64, error) {
	const op = "DocumentService.List"

	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	rows, total, err := s.documents.List(ctx, p)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list documents", err)
	}
	return rows, total, nil
}

func (s *documentService) SignedURL(ctx context.Context, id string) (string, error) {
	const op = "DocumentService.SignedURL"

	d, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.SignedGetURL(ctx, d.FilePath, signedURLTTL)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign download url", err)
	}
	return url, nil
}

func (s *documentService) Open(ctx context.Context, id string) (*models.EmployeeDocument, io.ReadCloser, error) {
	const op = "DocumentService.Open"

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Download(ctx, d.FilePath)
	if err != nil {
		return nil, nil, utils.E(utils.CodeUnavailable, op, "failed to fetch file from storage", err)
	}
	return d, rc, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	const op = "DocumentService.Delete"

	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	// Storage first; a dangling row is recoverable, a dangling object is not.
	if err := s.store.Delete(ctx, d.FilePath); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to delete file from storage", err)
	}
	if err := s.documents.Delete(ctx, id); err != nil && !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to delete document metadata", err)
	}
	return nil
}
