// Package export renders reports as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const renewalsSheet = "Renewals"

// RenewalRow is one assignment line of the renewals report.
type RenewalRow struct {
	AssignmentSID string
	Customer      string
	CustomerEmail string
	Product       string
	BillingType   string
	Source        string
	Amount        float64
	DateAssigned  string
	Expiry        string
	Bucket        string
	Remaining     string
	Payments      int
	Remarks       string
}

var renewalHeaders = []string{
	"Mapping", "Customer", "Email", "Product", "Type", "Source",
	"Amount", "Assigned", "Expiry", "Status", "Remaining", "Payments", "Remarks",
}

var renewalWidths = []float64{14, 24, 28, 24, 12, 12, 12, 12, 12, 10, 22, 10, 40}

// WriteRenewals writes an xlsx workbook with one sheet of rows to w.
func WriteRenewals(w io.Writer, rows []RenewalRow, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(renewalsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	pastStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#C00000"},
	})
	if err != nil {
		return fmt.Errorf("failed to create status style: %w", err)
	}

	for i, h := range renewalHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(renewalsSheet, cell, h); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(renewalsSheet, col, col, renewalWidths[i]); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(renewalHeaders), 1)
	if err := f.SetCellStyle(renewalsSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		values := []interface{}{
			r.AssignmentSID, r.Customer, r.CustomerEmail, r.Product, r.BillingType, r.Source,
			r.Amount, r.DateAssigned, r.Expiry, r.Bucket, r.Remaining, r.Payments, r.Remarks,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(renewalsSheet, start, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if r.Bucket == "Expired" || r.Bucket == "Over-Due" {
			cell, _ := excelize.CoordinatesToCellName(10, row)
			if err := f.SetCellStyle(renewalsSheet, cell, cell, pastStyle); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(renewalsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Renewals",
		Creator: "subtrack",
		Created: generatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
