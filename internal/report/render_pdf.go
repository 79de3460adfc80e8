package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/meicontrol/backend/internal/models"
	"github.com/shopspring/decimal"
)

// MonthlyPDF renders the monthly gross revenue report of one filing.
// The layout follows the figures a MEI copies into the official filing
// form: income per revenue class, total income, expenses and net
// balance.
func MonthlyPDF(user models.User, obligation models.MonthlyObligation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, translate("Relatório Mensal de Receita Bruta"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, translate(fmt.Sprintf("Empreendedor: %s", user.Name)))
	pdf.Ln(6)

	if user.CNPJ != "" {
		pdf.Cell(0, 6, translate(fmt.Sprintf("CNPJ: %s", user.CNPJ)))
		pdf.Ln(6)
	}

	pdf.Cell(0, 6, translate(fmt.Sprintf("Período: %02d/%04d", obligation.Month, obligation.Year)))
	pdf.Ln(6)
	pdf.Cell(0, 6, translate(fmt.Sprintf("Situação: %s", statusLabel(obligation.Status))))
	pdf.Ln(12)

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Receita de comércio", obligation.TotalComercio},
		{"Receita de serviços", obligation.TotalServicos},
		{"Receita de indústria", obligation.TotalIndustria},
		{"Outras receitas", obligation.TotalOutros},
		{"Receita total", obligation.TotalIncome},
		{"Despesas", obligation.TotalExpense},
		{"Saldo", obligation.NetBalance},
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, translate("Categoria"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, translate("Valor"), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(120, 8, translate(row.label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, translate(currency(row.value)), "1", 1, "R", false, 0, "")
	}

	var buffer bytes.Buffer
	err := pdf.Output(&buffer)
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func statusLabel(status models.ObligationStatus) string {
	switch status {
	case models.StatusFinal:
		return "Finalizado"
	case models.StatusSubmitted:
		return "Enviado"
	}

	return "Rascunho"
}

// currency formats a value the Brazilian way: R$ 1.234,56
func currency(value decimal.Decimal) string {
	s := value.StringFixed(2)

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	whole, fraction := s[:len(s)-3], s[len(s)-2:]

	var grouped []byte
	for i, digit := range []byte(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, digit)
	}

	if negative {
		return fmt.Sprintf("-R$ %s,%s", grouped, fraction)
	}

	return fmt.Sprintf("R$ %s,%s", grouped, fraction)
}
