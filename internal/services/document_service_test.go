package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type memDocumentRepo struct {
	pgrepo.DocumentRepository

	rows map[string]*models.EmployeeDocument
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{rows: map[string]*models.EmployeeDocument{}}
}

func (r *memDocumentRepo) Insert(ctx context.Context, d *models.EmployeeDocument) error {
	cp := *d
	r.rows[d.ID] = &cp
	return nil
}

func (r *memDocumentRepo) GetByID(ctx context.Context, id string) (*models.EmployeeDocument, error) {
	d, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDocumentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memStore struct {
	objects map[string][]byte
	failPut bool
	deleted []string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	if s.failPut {
		return "", errors.New("storage unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[objectName] = b
	return objectName, nil
}

func (s *memStore) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	b, ok := s.objects[objectName]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(strings.NewReader(string(b))), nil
}

func (s *memStore) SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	return "https://b2.example.com/" + objectName + "?sig=abc", nil
}

func (s *memStore) Delete(ctx context.Context, objectName string) error {
	s.deleted = append(s.deleted, objectName)
	delete(s.objects, objectName)
	return nil
}

func newDocumentFixture() (DocumentService, *memDocumentRepo, *memEmployeeRepo, *memStore) {
	docs := newMemDocumentRepo()
	emps := newMemEmployeeRepo()
	store := newMemStore()
	return NewDocumentService(docs, emps, store), docs, emps, store
}

func seedEmployee(t *testing.T, emps *memEmployeeRepo) *models.Employee {
	t.Helper()
	e := &models.Employee{ID: "emp-1", EmployeeID: "CUBS-1", Name: "Anil Kumar", CompanyName: "CUBS Technical"}
	require.NoError(t, emps.Insert(context.Background(), e))
	return e
}

func TestDocumentUploadStoresBytesThenMetadata(t *testing.T) {
	svc, docs, emps, store := newDocumentFixture()
	e := seedEmployee(t, emps)

	in := UploadInput{
		EmployeeID:   e.ID,
		DocumentType: "visa",
		FileName:     "visa-copy.pdf",
		FileSize:     11,
		MimeType:     "application/pdf",
		ObjectName:   "documents/emp-1/abc.pdf",
		UploadedBy:   "admin-1",
	}
	row, err := svc.Upload(context.Background(), in, strings.NewReader("pdf content"))
	require.NoError(t, err)

	assert.Equal(t, "documents/emp-1/abc.pdf", row.FilePath)
	assert.Equal(t, []byte("pdf content"), store.objects[row.FilePath])
	assert.Contains(t, docs.rows, row.ID)
}

func TestDocumentUploadUnknownEmployee(t *testing.T) {
	svc, _, _, _ := newDocumentFixture()

	_, err := svc.Upload(context.Background(), UploadInput{
		EmployeeID: "missing", FileName: "a.pdf", ObjectName: "documents/missing/a.pdf",
	}, strings.NewReader("x"))
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestDocumentUploadStorageFailureWritesNoRow(t *testing.T) {
	svc, docs, emps, store := newDocumentFixture()
	e := seedEmployee(t, emps)
	store.failPut = true

	_, err := svc.Upload(context.Background(), UploadInput{
		EmployeeID: e.ID, FileName: "a.pdf", ObjectName: "documents/emp-1/a.pdf",
	}, strings.NewReader("x"))
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Empty(t, docs.rows)
}

func TestDocumentDeleteRemovesStorageFirst(t *testing.T) {
	svc, docs, emps, store := newDocumentFixture()
	e := seedEmployee(t, emps)

	row, err := svc.Upload(context.Background(), UploadInput{
		EmployeeID: e.ID, FileName: "a.pdf", ObjectName: "documents/emp-1/a.pdf",
	}, strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), row.ID))
	assert.Equal(t, []string{"documents/emp-1/a.pdf"}, store.deleted)
	assert.Empty(t, docs.rows)
}

func TestDocumentSignedURL(t *testing.T) {
	svc, _, emps, _ := newDocumentFixture()
	e := seedEmployee(t, emps)

	row, err := svc.Upload(context.Background(), UploadInput{
		EmployeeID: e.ID, FileName: "a.pdf", ObjectName: "documents/emp-1/a.pdf",
	}, strings.NewReader("x"))
	require.NoError(t, err)

	url, err := svc.SignedURL(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "documents/emp-1/a.pdf")

	_, err = svc.SignedURL(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestDocumentOpenStreams(t *testing.T) {
	svc, _, emps, _ := newDocumentFixture()
	e := seedEmployee(t, emps)

	row, err := svc.Upload(context.Background(), UploadInput{
		EmployeeID: e.ID, FileName: "a.pdf", ObjectName: "documents/emp-1/a.pdf",
	}, strings.NewReader("pdf content"))
	require.NoError(t, err)

	doc, rc, err := svc.Open(context.Background(), row.ID)
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf content", string(b))
	assert.Equal(t, "a.pdf", doc.FileName)
}
