package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

// Table is a titled grid of already formatted cells.
type Table struct {
	Name    string // file name stem
	Title   string
	Headers []string
	Rows    [][]string
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

type ExportService struct {
	now func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// Export renders table in format (csv, xlsx or pdf).
func (s *ExportService) Export(ctx context.Context, table Table, format string) (*ExportFile, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = FormatCSV
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = s.exportCSV(table)
	case FormatXLSX:
		data, err = s.exportXLSX(table)
	case FormatPDF:
		data, err = s.exportPDF(table)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrValidation, format)
	}
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Data:        data,
		Filename:    fmt.Sprintf("%s_%s.%s", table.Name, s.now().Format("2006-01-02"), format),
		ContentType: contentTypes[format],
	}, nil
}

func (s *ExportService) exportCSV(table Table) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	if err := writer.Write(table.Headers); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), writer.Error()
}

func (s *ExportService) exportXLSX(table Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	if len(table.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Headers), 1)
		_ = f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for r, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) exportPDF(table Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, tr(table.Title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 8)
	pdf.Cell(0, 6, s.now().Format("2006-01-02 15:04"))
	pdf.Ln(8)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(max(len(table.Headers), 1))

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(224, 224, 224)
	for _, h := range table.Headers {
		pdf.CellFormat(colWidth, 7, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		for _, v := range row {
			pdf.CellFormat(colWidth, 6, tr(clip(v, 40)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// LeadsTable formats leads for export.
func LeadsTable(leads []*models.Lead) Table {
	t := Table{
		Name:    "leads",
		Title:   "Leads",
		Headers: []string{"Name", "Phone", "Email", "Source", "Status", "Budget", "Project", "Assigned To", "Created At"},
	}
	for _, l := range leads {
		budget := ""
		if l.Budget != nil {
			budget = fmt.Sprintf("%.2f", *l.Budget)
		}
		project := ""
		if l.Project != nil {
			project = l.Project.Name
		}
		assignee := ""
		if l.AssignedTo != nil {
			assignee = l.AssignedTo.FullName
		}
		t.Rows = append(t.Rows, []string{
			l.Name,
			getStringValue(l.Phone),
			getStringValue(l.Email),
			getStringValue(l.Source),
			getStringValue(l.Status),
			budget,
			project,
			assignee,
			l.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return t
}

// AuditLogTable formats audit entries for export.
func AuditLogTable(logs []models.AuditLog) Table {
	t := Table{
		Name:    "audit_log",
		Title:   "Audit Log",
		Headers: []string{"Date", "User", "Role", "Action", "Description", "Lead", "IP"},
	}
	for _, l := range logs {
		t.Rows = append(t.Rows, []string{
			l.CreatedAt.Format("2006-01-02 15:04:05"),
			l.Email,
			l.UserRole,
			l.Action,
			l.Description,
			getStringValue(l.LeadID),
			l.IP,
		})
	}
	return t
}
