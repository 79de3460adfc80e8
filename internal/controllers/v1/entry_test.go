package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/meicontrol/backend/internal/controllers/v1"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateEntries() {
	session := suite.registerTestUser()

	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio", "date": "2025-03-05T00:00:00Z", "description": "Venda de doces"},
		{"kind": "expense", "amount": "80.00", "category": "material", "date": "2025-03-20T00:00:00Z"},
	})

	suite.Require().Len(entries, 2)
	suite.Require().NotNil(entries[0].Data)
	suite.Assert().Equal(models.KindIncome, entries[0].Data.Kind)
	suite.Assert().True(decimal.RequireFromString("150.00").Equal(entries[0].Data.Amount))
	suite.Assert().Contains(entries[0].Data.Links.Self, "/v1/entries/")
}

func (suite *TestSuiteStandard) TestCreateEntriesPartialFailure() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/entries", []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio"},
		{"kind": "income", "amount": "10.00", "category": "material"},
	}, authHeaders(session.Token))

	// The status is the worst status of the single creations
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.EntryCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().NotNil(response.Data[0].Data)
	suite.Require().NotNil(response.Data[1].Error)
	suite.Assert().Equal(models.ErrEntryCategoryInvalid.Error(), *response.Data[1].Error)
}

func (suite *TestSuiteStandard) TestGetEntries() {
	session := suite.registerTestUser()

	_ = suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio", "date": "2025-03-05T00:00:00Z"},
		{"kind": "income", "amount": "200.50", "category": "servicos", "date": "2025-03-12T00:00:00Z"},
		{"kind": "expense", "amount": "80.00", "category": "material", "date": "2025-03-20T00:00:00Z"},
	})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/entries", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.EntryListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 3)

	// Newest date first
	suite.Assert().Equal("material", response.Data[0].Category)

	suite.Require().NotNil(response.Pagination)
	suite.Assert().Equal(int64(3), response.Pagination.Total)
}

func (suite *TestSuiteStandard) TestGetEntriesFilters() {
	session := suite.registerTestUser()

	_ = suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio", "date": "2025-03-05T00:00:00Z", "description": "Venda de doces"},
		{"kind": "income", "amount": "200.50", "category": "servicos", "date": "2025-03-12T00:00:00Z"},
		{"kind": "expense", "amount": "80.00", "category": "material", "date": "2025-04-02T00:00:00Z"},
	})

	tests := []struct {
		query string
		count int
	}{
		{"kind=income", 2},
		{"kind=expense", 1},
		{"category=comercio", 1},
		{"fromDate=2025-03-10T00:00:00Z", 2},
		{"untilDate=2025-03-31T00:00:00Z", 2},
		{"fromDate=2025-03-10T00:00:00Z&untilDate=2025-03-31T00:00:00Z", 1},
		{"date=2025-03-05T00:00:00Z", 1},
		{"amount=80.00", 1},
		{"amountMoreOrEqual=150.00", 2},
		{"amountLessOrEqual=150.00", 2},
		{"description=doces", 1},
		{"description=churrasco", 0},
		{"linked=false", 3},
		{"linked=true", 0},
		{"limit=2", 2},
		{"offset=2", 1},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/entries?%s", tt.query), "", authHeaders(session.Token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

		var response v1.EntryListResponse
		test.DecodeResponse(suite.T(), &recorder, &response)
		suite.Assert().Len(response.Data, tt.count, "wrong number of entries for query %q", tt.query)
	}
}

func (suite *TestSuiteStandard) TestGetEntriesScopedToUser() {
	session := suite.registerTestUser()
	other := suite.registerTestUser()

	_ = suite.createTestEntries(other.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio"},
	})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/entries", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.EntryListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Empty(response.Data)
}

func (suite *TestSuiteStandard) TestGetEntry() {
	session := suite.registerTestUser()

	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodGet, entries[0].Data.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.EntryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(entries[0].Data.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetEntryInvalidID() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/entries/not-a-uuid", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetEntryNotFound() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/entries/65392deb-5e92-4268-b114-297faad6cdce", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

// Entries of other users are indistinguishable from missing ones.
func (suite *TestSuiteStandard) TestGetEntryForeign() {
	session := suite.registerTestUser()
	other := suite.registerTestUser()

	entries := suite.createTestEntries(other.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodGet, entries[0].Data.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateEntry() {
	session := suite.registerTestUser()

	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodPatch, entries[0].Data.Links.Self, map[string]any{
		"description": "Venda de doces",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.EntryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Venda de doces", response.Data.Description)

	// Values not in the body are kept
	suite.Assert().True(decimal.RequireFromString("150.00").Equal(response.Data.Amount))
	suite.Assert().Equal("comercio", response.Data.Category)
}

func (suite *TestSuiteStandard) TestUpdateEntryInvalidCategory() {
	session := suite.registerTestUser()

	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodPatch, entries[0].Data.Links.Self, map[string]any{
		"category": "material",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteEntry() {
	session := suite.registerTestUser()

	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "150.00", "category": "comercio"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodDelete, entries[0].Data.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, entries[0].Data.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestEntryOptions() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/entries", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, POST", recorder.Header().Get("allow"))
}
