package report

import (
	"fmt"

	"github.com/meicontrol/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// monthNames are the Brazilian month names for the spreadsheet rows.
var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// AnnualXLSX renders the yearly rollup as a spreadsheet with one row
// per month. Months without a filing get an empty row, not zeros, so
// that the gap stays visible.
func AnnualXLSX(user models.User, summary AnnualSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	err := f.SetSheetName(sheet, fmt.Sprintf("Receitas %d", summary.Year))
	if err != nil {
		return nil, err
	}
	sheet = fmt.Sprintf("Receitas %d", summary.Year)

	header := []any{"Mês", "Comércio", "Serviços", "Indústria", "Outros", "Receita total", "Despesas", "Saldo", "Situação"}
	err = f.SetSheetRow(sheet, "A1", &header)
	if err != nil {
		return nil, err
	}

	filings := make(map[int]models.MonthlyObligation, len(summary.Months))
	for _, o := range summary.Months {
		filings[o.Month] = o
	}

	for month := 1; month <= 12; month++ {
		cell := fmt.Sprintf("A%d", month+1)

		o, ok := filings[month]
		if !ok {
			err = f.SetSheetRow(sheet, cell, &[]any{monthNames[month-1]})
			if err != nil {
				return nil, err
			}
			continue
		}

		row := []any{
			monthNames[month-1],
			toFloat(o.TotalComercio),
			toFloat(o.TotalServicos),
			toFloat(o.TotalIndustria),
			toFloat(o.TotalOutros),
			toFloat(o.TotalIncome),
			toFloat(o.TotalExpense),
			toFloat(o.NetBalance),
			statusLabel(o.Status),
		}
		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return nil, err
		}
	}

	totals := []any{
		"Total",
		toFloat(summary.TotalComercio),
		toFloat(summary.TotalServicos),
		toFloat(summary.TotalIndustria),
		toFloat(summary.TotalOutros),
		toFloat(summary.TotalIncome),
		toFloat(summary.TotalExpense),
		toFloat(summary.NetBalance),
		"",
	}
	err = f.SetSheetRow(sheet, "A14", &totals)
	if err != nil {
		return nil, err
	}

	ceiling := []any{
		"Limite anual",
		toFloat(summary.Ceiling),
		"Consumido",
		fmt.Sprintf("%s%%", summary.CeilingPercent.StringFixed(2)),
	}
	err = f.SetSheetRow(sheet, "A16", &ceiling)
	if err != nil {
		return nil, err
	}

	owner := []any{"Empreendedor", user.Name, "CNPJ", user.CNPJ}
	err = f.SetSheetRow(sheet, "A18", &owner)
	if err != nil {
		return nil, err
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// MonthlyXLSX renders one filing as a two column spreadsheet.
func MonthlyXLSX(user models.User, obligation models.MonthlyObligation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	name := fmt.Sprintf("%02d-%04d", obligation.Month, obligation.Year)
	err := f.SetSheetName(sheet, name)
	if err != nil {
		return nil, err
	}
	sheet = name

	rows := [][]any{
		{"Empreendedor", user.Name},
		{"CNPJ", user.CNPJ},
		{"Período", fmt.Sprintf("%02d/%04d", obligation.Month, obligation.Year)},
		{"Situação", statusLabel(obligation.Status)},
		{},
		{"Receita de comércio", toFloat(obligation.TotalComercio)},
		{"Receita de serviços", toFloat(obligation.TotalServicos)},
		{"Receita de indústria", toFloat(obligation.TotalIndustria)},
		{"Outras receitas", toFloat(obligation.TotalOutros)},
		{"Receita total", toFloat(obligation.TotalIncome)},
		{"Despesas", toFloat(obligation.TotalExpense)},
		{"Saldo", toFloat(obligation.NetBalance)},
	}

	for i, row := range rows {
		err = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row)
		if err != nil {
			return nil, err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// toFloat converts for the spreadsheet cell. The stored precision of
// two decimal places survives the conversion.
func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
