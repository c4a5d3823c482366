package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cubstechnical/cubs-ems/internal/models"
)

const expirySheet = "Expiring Visas"

var expiryHeader = []string{"Employee ID", "Name", "Company", "Trade", "Visa Number", "Visa Expiry", "Days Left"}

// BuildExpiryReport renders the expiring-visas list as an .xlsx workbook.
func BuildExpiryReport(employees []models.Employee, asOf time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(expirySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, h := range expiryHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(expirySheet, cell, h); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(expirySheet, "A1", "G1", headerStyle); err != nil {
		return nil, err
	}

	asOfDay := asOf.Truncate(24 * time.Hour)
	for i, e := range employees {
		row := i + 2
		expiry := ""
		daysLeft := ""
		if e.VisaExpiryDate != nil {
			expiry = e.VisaExpiryDate.Format("2006-01-02")
			daysLeft = fmt.Sprintf("%d", int(e.VisaExpiryDate.Sub(asOfDay).Hours()/24))
		}
		values := []any{e.EmployeeID, e.Name, e.CompanyName, e.Trade, e.VisaNumber, expiry, daysLeft}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(expirySheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(expirySheet, "A", "G", 18); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
