package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cubstechnical/cubs-ems/internal/models"
)

func TestBuildExpiryReport(t *testing.T) {
	asOf := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2026, 9, 25, 0, 0, 0, 0, time.UTC)

	rows := []models.Employee{
		{
			EmployeeID:     "CUBS-1",
			Name:           "Anil Kumar",
			CompanyName:    "CUBS Technical",
			Trade:          "Electrician",
			VisaNumber:     "V-1001",
			VisaExpiryDate: &expiry,
		},
		{
			EmployeeID:  "CUBS-2",
			Name:        "Ramesh P",
			CompanyName: "Al Ashbal",
			Trade:       "Plumber",
			// no visa date on file
		},
	}

	buf, err := BuildExpiryReport(rows, asOf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(expirySheet)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, expiryHeader, got[0])
	assert.Equal(t, []string{"CUBS-1", "Anil Kumar", "CUBS Technical", "Electrician", "V-1001", "2026-09-25", "30"}, got[1])
	assert.Equal(t, "CUBS-2", got[2][0])
	// GetRows trims trailing empty cells for the dateless row
	assert.LessOrEqual(t, len(got[2]), len(expiryHeader))
}

func TestBuildExpiryReportEmpty(t *testing.T) {
	buf, err := BuildExpiryReport(nil, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(expirySheet)
	require.NoError(t, err)
	require.Len(t, got, 1) // header only
}
