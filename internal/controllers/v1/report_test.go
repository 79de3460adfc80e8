package v1_test

import (
	"net/http"
	"strings"

	v1 "github.com/meicontrol/backend/internal/controllers/v1"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/test"
	"github.com/shopspring/decimal"
)

// recomputeTestReport aggregates the ledger into the filing for the month.
func (suite *TestSuiteStandard) recomputeTestReport(token, month string) v1.Obligation {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/reports/monthly/"+month+"/recompute", "", authHeaders(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ObligationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	if response.Data == nil {
		suite.Assert().FailNow("recompute did not return filing data")
	}

	return *response.Data
}

func (suite *TestSuiteStandard) TestRecomputeMonthlyReport() {
	session := suite.registerTestUser()

	_ = suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio", "date": "2025-03-05T00:00:00Z"},
		{"kind": "income", "amount": "200.50", "category": "servicos", "date": "2025-03-12T00:00:00Z"},
		{"kind": "expense", "amount": "80.00", "category": "material", "date": "2025-03-20T00:00:00Z"},
	})

	obligation := suite.recomputeTestReport(session.Token, "2025-03")

	suite.Assert().Equal(2025, obligation.Year)
	suite.Assert().Equal(3, obligation.Month)
	suite.Assert().Equal(models.StatusDraft, obligation.Status)

	suite.Assert().True(decimal.RequireFromString("150.00").Equal(obligation.TotalComercio))
	suite.Assert().True(decimal.RequireFromString("200.50").Equal(obligation.TotalServicos))
	suite.Assert().True(decimal.RequireFromString("350.50").Equal(obligation.TotalIncome))
	suite.Assert().True(decimal.RequireFromString("80.00").Equal(obligation.TotalExpense))
	suite.Assert().True(decimal.RequireFromString("270.50").Equal(obligation.NetBalance))

	suite.Assert().Equal("http://example.com/v1/reports/monthly/2025-03", obligation.Links.Self)
}

// A month that was never computed does not exist, only recompute creates it.
func (suite *TestSuiteStandard) TestGetMonthlyReportNotComputed() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/monthly/2025-03", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetMonthlyReport() {
	session := suite.registerTestUser()

	obligation := suite.recomputeTestReport(session.Token, "2025-03")

	recorder := test.Request(suite.T(), http.MethodGet, obligation.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ObligationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(obligation.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestMonthlyReportInvalidMonth() {
	session := suite.registerTestUser()

	for _, month := range []string{"2025-3", "March-2025", "2025-13"} {
		recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/monthly/"+month, "", authHeaders(session.Token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

		recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/reports/monthly/"+month+"/recompute", "", authHeaders(session.Token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestFinalizeAndSubmitMonthlyReport() {
	session := suite.registerTestUser()

	_ = suite.recomputeTestReport(session.Token, "2025-03")

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/reports/monthly/2025-03/finalize", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ObligationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(models.StatusFinal, response.Data.Status)
	suite.Assert().NotNil(response.Data.FinalizedAt)

	// A frozen filing cannot be recomputed
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/reports/monthly/2025-03/recompute", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/reports/monthly/2025-03/submit", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(models.StatusSubmitted, response.Data.Status)
	suite.Assert().NotNil(response.Data.SubmittedAt)

	// The status only moves forward
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/reports/monthly/2025-03/finalize", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestSubmitMonthlyReportNotComputed() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/reports/monthly/2025-03/submit", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestMonthlyReportPDF() {
	session := suite.registerTestUser()

	obligation := suite.recomputeTestReport(session.Token, "2025-03")

	recorder := test.Request(suite.T(), http.MethodGet, obligation.Links.PDF, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().Equal("application/pdf", recorder.Header().Get("content-type"))
	suite.Assert().Contains(recorder.Header().Get("content-disposition"), "relatorio-2025-03.pdf")
	suite.Assert().True(strings.HasPrefix(recorder.Body.String(), "%PDF"))
}

func (suite *TestSuiteStandard) TestMonthlyReportXLSX() {
	session := suite.registerTestUser()

	obligation := suite.recomputeTestReport(session.Token, "2025-03")

	recorder := test.Request(suite.T(), http.MethodGet, obligation.Links.XLSX, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", recorder.Header().Get("content-type"))
	suite.Assert().Contains(recorder.Header().Get("content-disposition"), "relatorio-2025-03.xlsx")
	suite.Assert().NotZero(recorder.Body.Len())
}

func (suite *TestSuiteStandard) TestMonthlyReportPDFNotComputed() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/monthly/2025-03/pdf", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAnnualReport() {
	session := suite.registerTestUser()

	_ = suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio", "date": "2025-01-10T00:00:00Z"},
		{"kind": "income", "amount": "350.50", "category": "servicos", "date": "2025-03-12T00:00:00Z"},
	})

	_ = suite.recomputeTestReport(session.Token, "2025-01")
	_ = suite.recomputeTestReport(session.Token, "2025-03")

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/annual/2025", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AnnualResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().Equal(2025, response.Data.Year)
	suite.Assert().Len(response.Data.Months, 2)
	suite.Assert().True(decimal.RequireFromString("500.50").Equal(response.Data.TotalIncome))
	suite.Assert().False(response.Data.CeilingExceeded)

	// February and April through December have no filing
	suite.Assert().Len(response.Data.MissingMonths, 10)
	suite.Assert().Contains(response.Data.MissingMonths, 2)
}

func (suite *TestSuiteStandard) TestAnnualReportInvalidYear() {
	session := suite.registerTestUser()

	for _, year := range []string{"abcd", "2008"} {
		recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/annual/"+year, "", authHeaders(session.Token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestAnnualReportXLSX() {
	session := suite.registerTestUser()

	_ = suite.recomputeTestReport(session.Token, "2025-03")

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/annual/2025/xlsx", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().Contains(recorder.Header().Get("content-disposition"), "receitas-2025.xlsx")
	suite.Assert().NotZero(recorder.Body.Len())
}

func (suite *TestSuiteStandard) TestReportHistory() {
	session := suite.registerTestUser()

	_ = suite.recomputeTestReport(session.Token, "2024-12")
	_ = suite.recomputeTestReport(session.Token, "2025-03")
	_ = suite.recomputeTestReport(session.Token, "2025-01")

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/history", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ObligationListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 3)

	// Newest period first
	suite.Assert().Equal(3, response.Data[0].Month)
	suite.Assert().Equal(1, response.Data[1].Month)
	suite.Assert().Equal(12, response.Data[2].Month)
}

func (suite *TestSuiteStandard) TestGetDeadlines() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/deadlines", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.DeadlinesResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	// Twelve trailing months plus the annual declaration
	suite.Require().Len(response.Data, 13)

	for _, deadline := range response.Data[:12] {
		suite.Assert().Equal("monthly", deadline.Kind)
	}
	suite.Assert().Equal("annual", response.Data[12].Kind)
}
