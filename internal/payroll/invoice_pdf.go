package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// InvoiceData carries everything the invoice document shows. It is built
// from the salary snapshot, not from the live employee row.
type InvoiceData struct {
	InvoiceNo string
	IssuedAt  time.Time

	EmployeeName   string
	EmployeeNumber string
	Position       string

	BankName      string
	AccountNumber string
	IFSCCode      string

	Period      Period
	BasicSalary int64
	Allowances  int64
	Deductions  int64
	TaxRate     float64
	TaxAmount   int64
	NetSalary   int64
}

//go:generate mockgen -source=invoice_pdf.go -destination=mock/invoice_renderer_mock.go -package=mock
type InvoiceRenderer interface {
	Render(data InvoiceData) ([]byte, error)
}

type pdfRenderer struct {
	companyName string
}

func NewPDFRenderer(companyName string) InvoiceRenderer {
	if companyName == "" {
		companyName = "HRMS"
	}
	return &pdfRenderer{companyName: companyName}
}

func (r *pdfRenderer) Render(data InvoiceData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Salary Invoice %s", data.InvoiceNo), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(120, 10, r.companyName)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(70, 10, "SALARY INVOICE", "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 6, fmt.Sprintf("Invoice No: %s", data.InvoiceNo))
	pdf.CellFormat(95, 6, fmt.Sprintf("Date: %s", data.IssuedAt.Format("02 Jan 2006")), "", 1, "R", false, 0, "")
	pdf.Cell(95, 6, fmt.Sprintf("Period: %02d/%d", data.Period.Month, data.Period.Year))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(190, 6, "Employee")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 5, fmt.Sprintf("%s (%s)", data.EmployeeName, data.EmployeeNumber))
	pdf.Ln(5)
	if data.Position != "" {
		pdf.Cell(190, 5, data.Position)
		pdf.Ln(5)
	}
	pdf.Cell(190, 5, fmt.Sprintf("Bank: %s, A/C %s, IFSC %s", data.BankName, data.AccountNumber, data.IFSCCode))
	pdf.Ln(10)

	line := func(label string, amount int64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(140, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%d", amount), "1", 1, "R", false, 0, "")
	}

	line("Basic Salary", data.BasicSalary, false)
	line("Allowances", data.Allowances, false)
	line("Deductions", -data.Deductions, false)
	line(fmt.Sprintf("Tax (%.2f%%)", data.TaxRate), -data.TaxAmount, false)
	line("Net Pay", data.NetSalary, true)

	pdf.Ln(12)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(190, 5, "This is a system generated invoice and does not require a signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
