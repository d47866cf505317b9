package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/wagebook-hr/wagebook/internal/employee"
	"github.com/wagebook-hr/wagebook/internal/rules"
	"github.com/wagebook-hr/wagebook/internal/shared"
)

// RenderPDF writes a printable payslip to w. The amounts come straight from
// the stored payslip; nothing is recomputed here.
func RenderPDF(w io.Writer, emp employee.Employee, slip Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", emp.FullName()))
	pdf.Ln(7)
	if emp.JobTitle != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Job Title: %s", emp.JobTitle))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		slip.PeriodStart.Format("2006-01-02"), slip.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 8, "Earnings")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	renderItems(pdf, slip.Items, rules.KindEarning)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 8, "Deductions")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	renderItems(pdf, slip.Items, rules.KindDeduction)
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 8, "Gross Earnings")
	pdf.CellFormat(60, 8, shared.FormatMYR(slip.GrossEarnings), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.Cell(100, 8, "Total Deductions")
	pdf.CellFormat(60, 8, shared.FormatMYR(slip.TotalDeductions), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.Cell(100, 8, "Net Pay")
	pdf.CellFormat(60, 8, shared.FormatMYR(slip.NetPay), "", 0, "R", false, 0, "")

	return pdf.Output(w)
}

func renderItems(pdf *gofpdf.Fpdf, items []PayItem, kind rules.Kind) {
	for _, it := range items {
		if it.Kind != kind {
			continue
		}
		pdf.Cell(100, 7, it.Name)
		pdf.CellFormat(60, 7, shared.FormatMYR(it.Amount), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
}
