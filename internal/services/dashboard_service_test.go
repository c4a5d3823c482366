package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubstechnical/cubs-ems/internal/cache"
	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
)

type recordingCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
	dels []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *recordingCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *recordingCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.ttls[key] = ttl
	return nil
}

func (c *recordingCache) Del(ctx context.Context, keys ...string) error {
	c.dels = append(c.dels, keys...)
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type statsEmployeeRepo struct {
	pgrepo.EmployeeRepository

	active     int64
	countCalls int
}

func (r *statsEmployeeRepo) CountActive(ctx context.Context) (int64, error) {
	r.countCalls++
	return r.active, nil
}

func (r *statsEmployeeRepo) CountByCompany(ctx context.Context) ([]pgrepo.CompanyCount, error) {
	return []pgrepo.CompanyCount{{CompanyName: "CUBS Technical", Count: r.active}}, nil
}

func (r *statsEmployeeRepo) CountVisaExpiringWithin(ctx context.Context, from, to time.Time) (int64, error) {
	return 2, nil
}

func (r *statsEmployeeRepo) CountVisaExpired(ctx context.Context, asOf time.Time) (int64, error) {
	return 1, nil
}

type statsDocumentRepo struct {
	pgrepo.DocumentRepository
}

func (statsDocumentRepo) CountAll(ctx context.Context) (int64, error) { return 7, nil }

type statsAuditRepo struct {
	pgrepo.AuditLogRepository
}

func (statsAuditRepo) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return nil, nil
}

func TestDashboardSummaryCachesOnMiss(t *testing.T) {
	emps := &statsEmployeeRepo{active: 42}
	c := newRecordingCache()
	svc := NewDashboardService(emps, statsDocumentRepo{}, statsAuditRepo{}, c)

	out, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.ActiveEmployees)
	assert.Equal(t, int64(7), out.TotalDocuments)
	assert.Equal(t, int64(1), out.VisaExpiry.Expired)

	assert.Contains(t, c.data, cache.KeyDashboardSummary)
	assert.Equal(t, dashboardTTL, c.ttls[cache.KeyDashboardSummary])
}

func TestDashboardSummaryReturnsCachedValue(t *testing.T) {
	emps := &statsEmployeeRepo{active: 42}
	c := newRecordingCache()
	require.NoError(t, c.SetJSON(context.Background(), cache.KeyDashboardSummary,
		&DashboardSummary{ActiveEmployees: 99}, dashboardTTL))

	svc := NewDashboardService(emps, statsDocumentRepo{}, statsAuditRepo{}, c)

	out, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(99), out.ActiveEmployees)
	assert.Zero(t, emps.countCalls) // never hit the repo
}

func TestDashboardSummaryRecomputesAfterInvalidation(t *testing.T) {
	emps := &statsEmployeeRepo{active: 42}
	c := newRecordingCache()
	svc := NewDashboardService(emps, statsDocumentRepo{}, statsAuditRepo{}, c)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	// an employee mutation drops the key
	require.NoError(t, c.Del(context.Background(), cache.KeyDashboardSummary))
	emps.active = 43

	out, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(43), out.ActiveEmployees)
	assert.Equal(t, 2, emps.countCalls)
}
