package report

import (
	"bytes"
	"fmt"

	"github.com/hugorgg/command-ai-nexus/internal/analytics"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of WriteXLSX output
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var dayHeader = []string{"Day", "Count", "Completed", "Amount"}

// WriteXLSX renders the report as a workbook with Summary, Appointments,
// Payments, Interactions and Channels sheets
func WriteXLSX(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Period (days)", int(r.Period)},
		{"Generated at", r.GeneratedAt.Format("2006-01-02 15:04")},
		{"Total interactions", r.Snapshot.TotalInteractions},
		{"Total appointments", r.Snapshot.TotalAppointments},
		{"Total revenue", r.Snapshot.TotalRevenue.StringFixed(2)},
		{"Total messages", r.Snapshot.TotalMessages},
		{"Appointment completion rate (%)", r.AppointmentCompletionRate},
		{"Interaction completion rate (%)", r.InteractionCompletionRate},
		{"Received", r.PaymentTotals.Received.StringFixed(2)},
		{"Pending", r.PaymentTotals.Pending.StringFixed(2)},
		{"Overall", r.PaymentTotals.Overall.StringFixed(2)},
	}
	if err := writeSheet(f, "Summary", summary, headerStyle); err != nil {
		return nil, err
	}
	// the default sheet is replaced by Summary
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for _, sheet := range []struct {
		name    string
		buckets []analytics.DayBucket
	}{
		{"Appointments", r.Appointments},
		{"Payments", r.Payments},
		{"Interactions", r.Interactions},
	} {
		if err := writeSheet(f, sheet.name, dayRows(sheet.buckets), headerStyle); err != nil {
			return nil, err
		}
	}

	channels := [][]any{{"Channel", "Count", "Share (%)"}}
	for _, c := range r.Channels {
		channels = append(channels, []any{c.Category, c.Count, c.Share})
	}
	if err := writeSheet(f, "Channels", channels, headerStyle); err != nil {
		return nil, err
	}

	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func dayRows(buckets []analytics.DayBucket) [][]any {
	rows := [][]any{{dayHeader[0], dayHeader[1], dayHeader[2], dayHeader[3]}}
	for _, b := range buckets {
		rows = append(rows, []any{b.Label, b.Count, b.Completed, b.Amount.StringFixed(2)})
	}
	return rows
}

func writeSheet(f *excelize.File, name string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", name, i+1, err)
		}
	}
	if len(rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	if err := f.SetColWidth(name, "A", "A", 32); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}
