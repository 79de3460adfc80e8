package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/httputil"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/internal/report"
	"github.com/meicontrol/backend/internal/types"
)

// RegisterReportRoutes registers the routes for monthly and annual
// obligation reports with the RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	// Monthly filings
	{
		r.OPTIONS("/monthly/:month", httputil.OptionsGet)
		r.GET("/monthly/:month", GetMonthlyReport)

		r.OPTIONS("/monthly/:month/recompute", httputil.OptionsPost)
		r.POST("/monthly/:month/recompute", RecomputeMonthlyReport)

		r.OPTIONS("/monthly/:month/finalize", httputil.OptionsPost)
		r.POST("/monthly/:month/finalize", FinalizeMonthlyReport)

		r.OPTIONS("/monthly/:month/submit", httputil.OptionsPost)
		r.POST("/monthly/:month/submit", SubmitMonthlyReport)

		r.OPTIONS("/monthly/:month/pdf", httputil.OptionsGet)
		r.GET("/monthly/:month/pdf", GetMonthlyReportPDF)

		r.OPTIONS("/monthly/:month/xlsx", httputil.OptionsGet)
		r.GET("/monthly/:month/xlsx", GetMonthlyReportXLSX)
	}

	// Annual rollup
	{
		r.OPTIONS("/annual/:year", httputil.OptionsGet)
		r.GET("/annual/:year", GetAnnualReport)

		r.OPTIONS("/annual/:year/xlsx", httputil.OptionsGet)
		r.GET("/annual/:year/xlsx", GetAnnualReportXLSX)
	}

	r.OPTIONS("/history", httputil.OptionsGet)
	r.GET("/history", GetReportHistory)

	r.OPTIONS("/deadlines", httputil.OptionsGet)
	r.GET("/deadlines", GetDeadlines)
}

// GetMonthlyReport returns the filing for one month
//
//	@Summary		Get monthly report
//	@Description	Returns the monthly gross revenue filing. A month that has never been computed returns 404, computing only happens via the recompute endpoint.
//	@Tags			Reports
//	@Produce		json
//	@Success		200		{object}	ObligationResponse
//	@Failure		400		{object}	ObligationResponse
//	@Failure		404		{object}	ObligationResponse
//	@Failure		500		{object}	ObligationResponse
//	@Param			month	path		string	true	"The month in YYYY-MM format"
//	@Router			/v1/reports/monthly/{month} [get]
//	@Security		BearerAuth
func GetMonthlyReport(c *gin.Context) {
	month, err := bindMonth(c)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ObligationResponse{Error: &e})
		return
	}

	user := currentUser(c)

	obligation, err := report.GetMonthly(models.DB, user.ID, month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationResponse{Error: &e})
		return
	}

	data := newObligation(c, obligation)
	c.JSON(http.StatusOK, ObligationResponse{Data: &data})
}

// RecomputeMonthlyReport recomputes the filing from the ledger
//
//	@Summary		Recompute monthly report
//	@Description	Aggregates the ledger entries of the month into the filing, creating it if needed. Recomputing is idempotent and overwrites earlier totals. A finalized or submitted filing cannot be recomputed.
//	@Tags			Reports
//	@Produce		json
//	@Success		200		{object}	ObligationResponse
//	@Failure		400		{object}	ObligationResponse
//	@Failure		500		{object}	ObligationResponse
//	@Param			month	path		string	true	"The month in YYYY-MM format"
//	@Router			/v1/reports/monthly/{month}/recompute [post]
//	@Security		BearerAuth
func RecomputeMonthlyReport(c *gin.Context) {
	month, err := bindMonth(c)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ObligationResponse{Error: &e})
		return
	}

	user := currentUser(c)

	obligation, err := report.RecomputeMonthly(models.DB, user.ID, month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationResponse{Error: &e})
		return
	}

	data := newObligation(c, obligation)
	c.JSON(http.StatusOK, ObligationResponse{Data: &data})
}

// FinalizeMonthlyReport advances the filing to final
//
//	@Summary		Finalize monthly report
//	@Description	Freezes the filing. A final filing cannot be recomputed and cannot go back to draft.
//	@Tags			Reports
//	@Produce		json
//	@Success		200		{object}	ObligationResponse
//	@Failure		400		{object}	ObligationResponse
//	@Failure		404		{object}	ObligationResponse
//	@Failure		500		{object}	ObligationResponse
//	@Param			month	path		string	true	"The month in YYYY-MM format"
//	@Router			/v1/reports/monthly/{month}/finalize [post]
//	@Security		BearerAuth
func FinalizeMonthlyReport(c *gin.Context) {
	advanceStatus(c, models.StatusFinal)
}

// SubmitMonthlyReport advances the filing to submitted
//
//	@Summary		Submit monthly report
//	@Description	Marks the filing as submitted to the tax authority. This is a bookkeeping state, nothing is transmitted anywhere.
//	@Tags			Reports
//	@Produce		json
//	@Success		200		{object}	ObligationResponse
//	@Failure		400		{object}	ObligationResponse
//	@Failure		404		{object}	ObligationResponse
//	@Failure		500		{object}	ObligationResponse
//	@Param			month	path		string	true	"The month in YYYY-MM format"
//	@Router			/v1/reports/monthly/{month}/submit [post]
//	@Security		BearerAuth
func SubmitMonthlyReport(c *gin.Context) {
	advanceStatus(c, models.StatusSubmitted)
}

// GetMonthlyReportPDF renders the filing as PDF
//
//	@Summary		Monthly report PDF
//	@Description	Renders the monthly gross revenue report as a PDF document
//	@Tags			Reports
//	@Produce		application/pdf
//	@Success		200		{file}		file
//	@Failure		400		{object}	httpError
//	@Failure		404		{object}	httpError
//	@Failure		500		{object}	httpError
//	@Param			month	path		string	true	"The month in YYYY-MM format"
//	@Router			/v1/reports/monthly/{month}/pdf [get]
//	@Security		BearerAuth
func GetMonthlyReportPDF(c *gin.Context) {
	month, err := bindMonth(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	user := currentUser(c)

	obligation, err := report.GetMonthly(models.DB, user.ID, month)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	content, err := report.MonthlyPDF(user, obligation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	c.Header("content-disposition", fmt.Sprintf(`attachment; filename="relatorio-%s.pdf"`, month))
	c.Data(http.StatusOK, "application/pdf", content)
}

// GetMonthlyReportXLSX renders the filing as spreadsheet
//
//	@Summary		Monthly report spreadsheet
//	@Description	Renders the monthly gross revenue report as an xlsx spreadsheet
//	@Tags			Reports
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200		{file}		file
//	@Failure		400		{object}	httpError
//	@Failure		404		{object}	httpError
//	@Failure		500		{object}	httpError
//	@Param			month	path		string	true	"The month in YYYY-MM format"
//	@Router			/v1/reports/monthly/{month}/xlsx [get]
//	@Security		BearerAuth
func GetMonthlyReportXLSX(c *gin.Context) {
	month, err := bindMonth(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	user := currentUser(c)

	obligation, err := report.GetMonthly(models.DB, user.ID, month)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	content, err := report.MonthlyXLSX(user, obligation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	c.Header("content-disposition", fmt.Sprintf(`attachment; filename="relatorio-%s.xlsx"`, month))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// GetAnnualReport returns the yearly rollup
//
//	@Summary		Get annual report
//	@Description	Rolls the monthly filings of a year up into the annual declaration figures. Months without a filing are listed as missing, never treated as zero.
//	@Tags			Reports
//	@Produce		json
//	@Success		200		{object}	AnnualResponse
//	@Failure		400		{object}	AnnualResponse
//	@Failure		500		{object}	AnnualResponse
//	@Param			year	path		int	true	"Four digit year"
//	@Router			/v1/reports/annual/{year} [get]
//	@Security		BearerAuth
func GetAnnualReport(c *gin.Context) {
	var uri URIYear
	if err := c.ShouldBindUri(&uri); err != nil {
		e := errYearInvalid.Error()
		c.JSON(http.StatusBadRequest, AnnualResponse{Error: &e})
		return
	}

	user := currentUser(c)

	summary, err := report.Annual(models.DB, user.ID, uri.Year)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AnnualResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, AnnualResponse{Data: &summary})
}

// GetAnnualReportXLSX renders the yearly rollup as spreadsheet
//
//	@Summary		Annual report spreadsheet
//	@Description	Renders the yearly rollup as an xlsx spreadsheet with one row per month
//	@Tags			Reports
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200		{file}		file
//	@Failure		400		{object}	httpError
//	@Failure		500		{object}	httpError
//	@Param			year	path		int	true	"Four digit year"
//	@Router			/v1/reports/annual/{year}/xlsx [get]
//	@Security		BearerAuth
func GetAnnualReportXLSX(c *gin.Context) {
	var uri URIYear
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errYearInvalid.Error()})
		return
	}

	user := currentUser(c)

	summary, err := report.Annual(models.DB, user.ID, uri.Year)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	content, err := report.AnnualXLSX(user, summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	c.Header("content-disposition", fmt.Sprintf(`attachment; filename="receitas-%d.xlsx"`, uri.Year))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// GetReportHistory returns all filings of the user
//
//	@Summary		Report history
//	@Description	Returns all monthly filings of the authenticated user, newest period first
//	@Tags			Reports
//	@Produce		json
//	@Success		200	{object}	ObligationListResponse
//	@Failure		500	{object}	ObligationListResponse
//	@Router			/v1/reports/history [get]
//	@Security		BearerAuth
func GetReportHistory(c *gin.Context) {
	user := currentUser(c)

	obligations, err := report.History(models.DB, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationListResponse{Error: &e})
		return
	}

	data := make([]Obligation, 0)
	for _, obligation := range obligations {
		data = append(data, newObligation(c, obligation))
	}

	c.JSON(http.StatusOK, ObligationListResponse{Data: data})
}

// GetDeadlines returns the filing deadlines
//
//	@Summary		Filing deadlines
//	@Description	Returns the monthly filing deadlines of the trailing twelve months and the annual declaration deadline, each with its current standing
//	@Tags			Reports
//	@Produce		json
//	@Success		200	{object}	DeadlinesResponse
//	@Failure		500	{object}	DeadlinesResponse
//	@Router			/v1/reports/deadlines [get]
//	@Security		BearerAuth
func GetDeadlines(c *gin.Context) {
	user := currentUser(c)

	deadlines, err := report.Deadlines(models.DB, user, time.Now().In(time.UTC))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DeadlinesResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, DeadlinesResponse{Data: deadlines})
}

// advanceStatus is the shared implementation of finalize and submit.
func advanceStatus(c *gin.Context, to models.ObligationStatus) {
	month, err := bindMonth(c)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ObligationResponse{Error: &e})
		return
	}

	user := currentUser(c)

	obligation, err := report.GetMonthly(models.DB, user.ID, month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationResponse{Error: &e})
		return
	}

	err = obligation.AdvanceStatus(models.DB, to)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationResponse{Error: &e})
		return
	}

	data := newObligation(c, obligation)
	c.JSON(http.StatusOK, ObligationResponse{Data: &data})
}

// bindMonth parses the month path parameter.
func bindMonth(c *gin.Context) (types.Month, error) {
	month, err := types.ParseMonth(c.Param("month"))
	if err != nil {
		return types.Month{}, httputil.ErrInvalidMonth
	}

	return month, nil
}
