package v1_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"
	v1 "github.com/meicontrol/backend/internal/controllers/v1"
	"github.com/meicontrol/backend/test"
	"github.com/shopspring/decimal"
)

const documentText = `NOTA FISCAL Nº 12345
Data: 17/03/2025
CNPJ: 12.345.678/0001-95
VALOR TOTAL: R$ 1.234,56
`

// multipartBody builds the request body for a file upload.
func (suite *TestSuiteStandard) multipartBody(direction, filename, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if direction != "" {
		err := w.WriteField("direction", direction)
		suite.Require().NoError(err)
	}

	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		suite.Require().NoError(err)

		_, err = part.Write([]byte(content))
		suite.Require().NoError(err)
	}

	suite.Require().NoError(w.Close())

	return &buf, w.FormDataContentType()
}

// uploadTestDocument uploads a file through the API.
func (suite *TestSuiteStandard) uploadTestDocument(token, direction, filename, content string) v1.Document {
	body, contentType := suite.multipartBody(direction, filename, content)

	headers := authHeaders(token)
	headers["Content-Type"] = contentType

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/documents", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.DocumentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	if response.Data == nil {
		suite.Assert().FailNow("document upload did not return data")
	}

	return *response.Data
}

func (suite *TestSuiteStandard) TestCreateDocument() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota-12345.txt", documentText)

	suite.Assert().Equal("nota-12345.txt", document.FileName)
	suite.Assert().Equal("text", document.FileType)
	suite.Assert().True(document.Processed)
	suite.Assert().Equal("12345", document.Number)
	suite.Assert().Equal("12.345.678/0001-95", document.TaxID)
	suite.Assert().True(decimal.RequireFromString("1234.56").Equal(document.Total))
	suite.Assert().True(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC).Equal(document.IssueDate))
	suite.Assert().Contains(document.Links.Download, "/download")
}

// The text of a PDF lives in compressed content streams, extraction
// must run on the decoded text, not on the raw file bytes.
func (suite *TestSuiteStandard) TestCreateDocumentPDF() {
	session := suite.registerTestUser()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 10, "Nota Fiscal: 123")
	doc.Ln(10)
	doc.Cell(0, 10, "Valor Total: R$ 100,00")

	var buf bytes.Buffer
	suite.Require().NoError(doc.Output(&buf))

	document := suite.uploadTestDocument(session.Token, "inbound", "nota-123.pdf", buf.String())

	suite.Assert().Equal("pdf", document.FileType)
	suite.Assert().True(document.Processed)
	suite.Assert().Equal("123", document.Number)
	suite.Assert().True(decimal.RequireFromString("100").Equal(document.Total))
}

// A file with a pdf extension that cannot be parsed is stored anyway,
// the metadata stays empty for manual entry.
func (suite *TestSuiteStandard) TestCreateDocumentBrokenPDF() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.pdf", "%PDF-1.4 truncated")

	suite.Assert().False(document.Processed)
	suite.Assert().Empty(document.Number)
	suite.Assert().True(document.Total.IsZero())
}

// Images carry no machine readable text, all metadata stays empty.
func (suite *TestSuiteStandard) TestCreateDocumentImage() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "foto.png", documentText)

	suite.Assert().Equal("image", document.FileType)
	suite.Assert().False(document.Processed)
	suite.Assert().Empty(document.Number)
	suite.Assert().True(document.Total.IsZero())
}

func (suite *TestSuiteStandard) TestCreateDocumentMissingDirection() {
	session := suite.registerTestUser()

	body, contentType := suite.multipartBody("", "nota.txt", documentText)
	headers := authHeaders(session.Token)
	headers["Content-Type"] = contentType

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/documents", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateDocumentMissingFile() {
	session := suite.registerTestUser()

	body, contentType := suite.multipartBody("inbound", "", "")
	headers := authHeaders(session.Token)
	headers["Content-Type"] = contentType

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/documents", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateDocumentBadFileType() {
	session := suite.registerTestUser()

	body, contentType := suite.multipartBody("inbound", "nota.exe", documentText)
	headers := authHeaders(session.Token)
	headers["Content-Type"] = contentType

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/documents", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetDocuments() {
	session := suite.registerTestUser()

	_ = suite.uploadTestDocument(session.Token, "inbound", "nota-1.txt", documentText)
	_ = suite.uploadTestDocument(session.Token, "outbound", "nota-2.txt", "sem dados")

	tests := []struct {
		query string
		count int
	}{
		{"", 2},
		{"direction=inbound", 1},
		{"direction=outbound", 1},
		{"processed=true", 1},
		{"processed=false", 1},
		{"number=12345", 1},
		{"number=99999", 0},
		{"linked=false", 2},
		{"linked=true", 0},
		{"fromDate=2025-03-01T00:00:00Z&untilDate=2025-03-31T00:00:00Z", 1},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/documents?%s", tt.query), "", authHeaders(session.Token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

		var response v1.DocumentListResponse
		test.DecodeResponse(suite.T(), &recorder, &response)
		suite.Assert().Len(response.Data, tt.count, "wrong number of documents for query %q", tt.query)
	}
}

func (suite *TestSuiteStandard) TestGetDocument() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)

	recorder := test.Request(suite.T(), http.MethodGet, document.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.DocumentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(document.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetDocumentInvalidID() {
	session := suite.registerTestUser()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/documents/not-a-uuid", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetDocumentForeign() {
	session := suite.registerTestUser()
	other := suite.registerTestUser()

	document := suite.uploadTestDocument(other.Token, "inbound", "nota.txt", documentText)

	recorder := test.Request(suite.T(), http.MethodGet, document.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateDocument() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "foto.png", "")

	recorder := test.Request(suite.T(), http.MethodPatch, document.Links.Self, map[string]any{
		"number":           "777",
		"total":            "99.90",
		"counterpartyName": "Fornecedor de Materiais",
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.DocumentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().Equal("777", response.Data.Number)
	suite.Assert().Equal("Fornecedor de Materiais", response.Data.CounterpartyName)
	suite.Assert().True(decimal.RequireFromString("99.90").Equal(response.Data.Total))

	// The direction is not in the body and keeps its value
	suite.Assert().Equal("inbound", string(response.Data.Direction))
}

func (suite *TestSuiteStandard) TestDeleteDocument() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)

	recorder := test.Request(suite.T(), http.MethodDelete, document.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, document.Links.Self, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDownloadDocument() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)

	recorder := test.Request(suite.T(), http.MethodGet, document.Links.Download, "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().Equal(documentText, recorder.Body.String())
	suite.Assert().Contains(recorder.Header().Get("content-disposition"), `filename="nota.txt"`)
}

func (suite *TestSuiteStandard) TestLinkDocument() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)
	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "1234.56", "category": "comercio", "date": "2025-03-18T00:00:00Z"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodPost, document.Links.Self+"/link", map[string]any{
		"entryId": entries[0].Data.ID,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.DocumentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().True(response.Data.LinkedIncome)
	suite.Assert().False(response.Data.LinkedExpense)
}

func (suite *TestSuiteStandard) TestLinkDocumentMissingEntryID() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)

	recorder := test.Request(suite.T(), http.MethodPost, document.Links.Self+"/link", `{}`, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

// An inbound document can only be linked to an income entry.
func (suite *TestSuiteStandard) TestLinkDocumentDirectionMismatch() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)
	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "expense", "amount": "1234.56", "category": "material", "date": "2025-03-18T00:00:00Z"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodPost, document.Links.Self+"/link", map[string]any{
		"entryId": entries[0].Data.ID,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestLinkDocumentTwice() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)
	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "1234.56", "category": "comercio", "date": "2025-03-18T00:00:00Z"},
		{"kind": "income", "amount": "1200.00", "category": "comercio", "date": "2025-03-18T00:00:00Z"},
	})

	recorder := test.Request(suite.T(), http.MethodPost, document.Links.Self+"/link", map[string]any{
		"entryId": entries[0].Data.ID,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodPost, document.Links.Self+"/link", map[string]any{
		"entryId": entries[1].Data.ID,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestLinkDocumentForeignEntry() {
	session := suite.registerTestUser()
	other := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)
	entries := suite.createTestEntries(other.Token, []map[string]any{
		{"kind": "income", "amount": "1234.56", "category": "comercio", "date": "2025-03-18T00:00:00Z"},
	})
	suite.Require().NotNil(entries[0].Data)

	recorder := test.Request(suite.T(), http.MethodPost, document.Links.Self+"/link", map[string]any{
		"entryId": entries[0].Data.ID,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetSuggestions() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)
	_ = suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "1234.56", "category": "comercio", "date": "2025-03-19T00:00:00Z"},
	})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/documents/suggestions", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SuggestionsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)

	suite.Assert().Equal(document.ID, response.Data[0].Document.ID)
	suite.Assert().Equal(2, response.Data[0].DayDistance)
	suite.Assert().Equal(80, response.Data[0].Confidence)
}

func (suite *TestSuiteStandard) TestGetSuggestionsEmptyAfterLink() {
	session := suite.registerTestUser()

	document := suite.uploadTestDocument(session.Token, "inbound", "nota.txt", documentText)
	entries := suite.createTestEntries(session.Token, []map[string]any{
		{"kind": "income", "amount": "1234.56", "category": "comercio", "date": "2025-03-18T00:00:00Z"},
	})

	recorder := test.Request(suite.T(), http.MethodPost, document.Links.Self+"/link", map[string]any{
		"entryId": entries[0].Data.ID,
	}, authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/documents/suggestions", "", authHeaders(session.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SuggestionsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Empty(response.Data)
}
