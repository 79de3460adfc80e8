package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/internal/report"
	"github.com/shopspring/decimal"
)

type ObligationLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/reports/monthly/2025-03"`                // The filing itself
	Recompute string `json:"recompute" example:"https://example.com/api/v1/reports/monthly/2025-03/recompute"` // Recompute the totals from the ledger
	PDF       string `json:"pdf" example:"https://example.com/api/v1/reports/monthly/2025-03/pdf"`             // The report rendered as PDF
	XLSX      string `json:"xlsx" example:"https://example.com/api/v1/reports/monthly/2025-03/xlsx"`           // The report rendered as spreadsheet
}

// Obligation is the representation of a MonthlyObligation in API v1.
type Obligation struct {
	models.DefaultModel
	Year  int `json:"year" example:"2025"` // Calendar year of the filing
	Month int `json:"month" example:"3"`   // Month of the filing, 1 to 12

	TotalComercio  decimal.Decimal `json:"totalComercio" example:"150.00"` // Income of the comercio revenue class
	TotalServicos  decimal.Decimal `json:"totalServicos" example:"200.50"` // Income of the servicos revenue class
	TotalIndustria decimal.Decimal `json:"totalIndustria" example:"0"`     // Income of the industria revenue class
	TotalOutros    decimal.Decimal `json:"totalOutros" example:"0"`        // Income of the outros revenue class

	TotalIncome  decimal.Decimal `json:"totalIncome" example:"350.50"` // Sum of the four revenue classes
	TotalExpense decimal.Decimal `json:"totalExpense" example:"80.00"` // Sum of all expense entries
	NetBalance   decimal.Decimal `json:"netBalance" example:"270.50"`  // Income minus expenses

	Status      models.ObligationStatus `json:"status" example:"draft"` // draft, final or submitted
	FinalizedAt *time.Time              `json:"finalizedAt"`            // When the filing was finalized
	SubmittedAt *time.Time              `json:"submittedAt"`            // When the filing was submitted

	Links ObligationLinks `json:"links"`
}

// newObligation returns the API v1 representation of the resource
func newObligation(c *gin.Context, model models.MonthlyObligation) Obligation {
	url := c.GetString(string(models.DBContextURL))
	period := fmt.Sprintf("%04d-%02d", model.Year, model.Month)

	return Obligation{
		DefaultModel: model.DefaultModel,
		Year:         model.Year,
		Month:        model.Month,

		TotalComercio:  model.TotalComercio,
		TotalServicos:  model.TotalServicos,
		TotalIndustria: model.TotalIndustria,
		TotalOutros:    model.TotalOutros,

		TotalIncome:  model.TotalIncome,
		TotalExpense: model.TotalExpense,
		NetBalance:   model.NetBalance,

		Status:      model.Status,
		FinalizedAt: model.FinalizedAt,
		SubmittedAt: model.SubmittedAt,

		Links: ObligationLinks{
			Self:      fmt.Sprintf("%s/v1/reports/monthly/%s", url, period),
			Recompute: fmt.Sprintf("%s/v1/reports/monthly/%s/recompute", url, period),
			PDF:       fmt.Sprintf("%s/v1/reports/monthly/%s/pdf", url, period),
			XLSX:      fmt.Sprintf("%s/v1/reports/monthly/%s/xlsx", url, period),
		},
	}
}

type ObligationResponse struct {
	Error *string     `json:"error" example:"there is no monthly obligation matching your query"` // The error, if any occurred
	Data  *Obligation `json:"data"`                                                               // The filing data
}

type ObligationListResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []Obligation `json:"data"`                                                          // List of filings, newest period first
}

type AnnualResponse struct {
	Error *string               `json:"error" example:"the year must be 2009 or later"` // The error, if any occurred
	Data  *report.AnnualSummary `json:"data"`                                           // The yearly rollup
}

type DeadlinesResponse struct {
	Error *string           `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
	Data  []report.Deadline `json:"data"`                                                                // Filing deadlines, oldest period first
}
