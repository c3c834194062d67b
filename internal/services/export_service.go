package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Export formats accepted by ExportService.Export.
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
	ExportPDF  = "pdf"
)

const maxExportRows = 10_000

var auditExportHeader = []string{"ID", "Timestamp (UTC)", "User", "Section", "Action", "Record ID", "Old value", "New value"}

// ExportService renders the audit trail as downloadable reports.
type ExportService struct {
	audit *AuditService
	now   func() time.Time
}

func NewExportService(audit *AuditService) *ExportService {
	return &ExportService{audit: audit, now: time.Now}
}

// Export renders the entries matching filter in the given format and returns
// the file body, a suggested file name and its content type.
func (s *ExportService) Export(ctx context.Context, format string, filter repository.AuditFilter) ([]byte, string, string, error) {
	logs, err := s.collect(ctx, filter)
	if err != nil {
		return nil, "", "", err
	}

	stamp := s.now().UTC().Format("2006-01-02")
	switch format {
	case ExportCSV:
		data, err := s.exportCSV(logs)
		return data, "audit_logs_" + stamp + ".csv", "text/csv", err
	case ExportXLSX, "":
		data, err := s.exportXLSX(logs)
		return data, "audit_logs_" + stamp + ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case ExportPDF:
		data, err := s.exportPDF(logs)
		return data, "audit_logs_" + stamp + ".pdf", "application/pdf", err
	default:
		return nil, "", "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidContent, format)
	}
}

// collect pages through the audit trail, newest first, up to maxExportRows.
func (s *ExportService) collect(ctx context.Context, filter repository.AuditFilter) ([]models.AuditLog, error) {
	filter.Limit = maxAuditLimit
	filter.Offset = 0

	var all []models.AuditLog
	for len(all) < maxExportRows {
		page, total, err := s.audit.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < filter.Limit || int64(len(all)) >= total {
			break
		}
		filter.Offset += len(page)
	}
	if len(all) > maxExportRows {
		all = all[:maxExportRows]
	}
	return all, nil
}

func auditRow(l models.AuditLog) []string {
	return []string{
		strconv.FormatUint(uint64(l.ID), 10),
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.UserEmail,
		l.Section,
		l.Action,
		l.RecordID,
		string(l.OldValue),
		string(l.NewValue),
	}
}

func (s *ExportService) exportCSV(logs []models.AuditLog) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	_ = writer.Write(auditExportHeader)
	for _, l := range logs {
		_ = writer.Write(auditRow(l))
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func (s *ExportService) exportXLSX(logs []models.AuditLog) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audit Logs"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, h := range auditExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(auditExportHeader), 1)
	_ = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for r, l := range logs {
		for c, v := range auditRow(l) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "B", "C", 24)
	_ = f.SetColWidth(sheet, "G", "H", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportPDF prints a summary table; snapshots are left to the spreadsheet formats.
func (s *ExportService) exportPDF(logs []models.AuditLog) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Audit Log")
	pdf.Ln(12)

	widths := []float64{16, 42, 70, 34, 22, 90}
	headers := auditExportHeader[:6]

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(224, 224, 224)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, l := range logs {
		row := auditRow(l)[:6]
		for i, v := range row {
			pdf.CellFormat(widths[i], 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
