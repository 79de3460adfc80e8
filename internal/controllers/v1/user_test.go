package v1_test

import (
	"net/http"

	v1 "github.com/meicontrol/backend/internal/controllers/v1"
	"github.com/meicontrol/backend/test"
)

func (suite *TestSuiteStandard) TestGetUser() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/user", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().Equal(session.User.Email, response.Data.Email)
	suite.Assert().Equal("http://example.com/v1/user", response.Data.Links.Self)
	suite.Assert().Equal("http://example.com/v1/user/settings", response.Data.Links.Settings)
}

func (suite *TestSuiteStandard) TestUpdateUser() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/user", map[string]string{
		"tradeName": "Doces da Maria",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().Equal("Doces da Maria", response.Data.TradeName)

	// Fields not in the body stay untouched
	suite.Assert().Equal("Maria da Silva", response.Data.Name)
}

func (suite *TestSuiteStandard) TestUpdateUserClearField() {
	session := suite.registerTestUser()

	// An explicit empty string clears the field
	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/user", map[string]string{
		"name": "",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Empty(response.Data.Name)
}

func (suite *TestSuiteStandard) TestUpdateUserInvalidBody() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/user", `{ broken`, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetSettings() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/user/settings", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().True(response.Data.EmailReminders)
	suite.Assert().Equal(5, response.Data.DaysBeforeDeadline)
}

func (suite *TestSuiteStandard) TestUpdateSettings() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/user/settings", map[string]any{
		"emailReminders":     false,
		"daysBeforeDeadline": 10,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().False(response.Data.EmailReminders)
	suite.Assert().Equal(10, response.Data.DaysBeforeDeadline)

	// The settings survive a reload
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/user/settings", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(10, response.Data.DaysBeforeDeadline)
}

func (suite *TestSuiteStandard) TestUpdateSettingsInvalidWindow() {
	session := suite.registerTestUser()

	for _, days := range []int{0, -1, 31} {
		recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/user/settings", map[string]any{
			"daysBeforeDeadline": days,
		}, authHeaders(session.Token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

// The settings are a fixed set, unknown options are dropped by the
// JSON binding and never stored.
func (suite *TestSuiteStandard) TestUpdateSettingsUnknownOption() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/user/settings", map[string]any{
		"smokeSignals": true,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	// The known settings keep their values
	suite.Assert().True(response.Data.EmailReminders)
	suite.Assert().Equal(5, response.Data.DaysBeforeDeadline)
}
