package v1_test

import (
	"net/http"
	"time"

	v1 "github.com/meicontrol/backend/internal/controllers/v1"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGetPlans() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/plans", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PlanListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)

	suite.Assert().Equal(models.PlanBasic, response.Data[0].Name)
	suite.Assert().True(decimal.RequireFromString("9.90").Equal(response.Data[0].MonthlyPrice))
	suite.Assert().Equal(models.PlanAdvanced, response.Data[1].Name)
	suite.Assert().True(decimal.RequireFromString("19.90").Equal(response.Data[1].MonthlyPrice))
	suite.Assert().NotEmpty(response.Data[1].Features)
}

func (suite *TestSuiteStandard) TestSubscribe() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/plans/subscribe", map[string]string{
		"plan": "advanced",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(models.PlanAdvanced, response.Data.Plan)
	suite.Assert().Equal(models.PaymentActive, response.Data.PaymentStatus)

	// The subscription runs for 30 days
	var user models.User
	suite.Require().NoError(models.DB.First(&user, "id = ?", session.User.ID).Error)
	suite.Require().NotNil(user.PlanExpiry)
	suite.Assert().WithinDuration(time.Now().AddDate(0, 0, 30), *user.PlanExpiry, time.Hour)
}

// Renewing before the period ends extends it instead of restarting it.
func (suite *TestSuiteStandard) TestSubscribeRenewalExtends() {
	session := suite.registerTestUser()

	for range 2 {
		recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/plans/subscribe", map[string]string{
			"plan": "advanced",
		}, authHeaders(session.Token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	}

	var user models.User
	suite.Require().NoError(models.DB.First(&user, "id = ?", session.User.ID).Error)
	suite.Require().NotNil(user.PlanExpiry)
	suite.Assert().WithinDuration(time.Now().AddDate(0, 0, 60), *user.PlanExpiry, time.Hour)
}

func (suite *TestSuiteStandard) TestSubscribeInvalidPlan() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/plans/subscribe", map[string]string{
		"plan": "premium",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestSubscribeMissingPlan() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/plans/subscribe", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

// An expired subscription blocks the plan gated resources but not the
// account itself.
func (suite *TestSuiteStandard) TestExpiredPlanBlocksAccess() {
	session := suite.registerTestUser()

	expired := time.Now().AddDate(0, -1, 0)
	err := models.DB.Model(&models.User{}).Where("id = ?", session.User.ID).Update("plan_expiry", &expired).Error
	suite.Require().NoError(err)

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/documents", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPaymentRequired)

	// The account endpoints stay reachable so that the user can renew
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/user", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/plans/subscribe", map[string]string{
		"plan": "basic",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/documents", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestOverduePaymentBlocksAccess() {
	session := suite.registerTestUser()

	err := models.DB.Model(&models.User{}).Where("id = ?", session.User.ID).Update("payment_status", models.PaymentOverdue).Error
	suite.Require().NoError(err)

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/history", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPaymentRequired)
}
