package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/internal/reconcile"
	"github.com/shopspring/decimal"
)

// DocumentEditable are the fields that can be corrected manually after
// the automatic extraction.
type DocumentEditable struct {
	Number    string                   `json:"number" example:"12345"`                   // Document number
	Series    string                   `json:"series" example:"1"`                       // Document series
	IssueDate time.Time                `json:"issueDate" example:"2025-03-10T00:00:00Z"` // Issue date of the document
	Total     decimal.Decimal          `json:"total" example:"150.00"`                   // Total amount of the document
	Direction models.DocumentDirection `json:"direction" example:"inbound"`              // inbound (received) or outbound (issued)

	TaxID            string `json:"taxId" example:"12.345.678/0001-95"`    // CNPJ or CPF of the counterparty
	CounterpartyName string `json:"counterpartyName" example:"Fornecedor"` // Name of the counterparty
}

// model returns the database resource for the API representation of the editable fields
func (editable DocumentEditable) model() models.FiscalDocument {
	return models.FiscalDocument{
		Number:           editable.Number,
		Series:           editable.Series,
		IssueDate:        editable.IssueDate,
		Total:            editable.Total,
		Direction:        editable.Direction,
		TaxID:            editable.TaxID,
		CounterpartyName: editable.CounterpartyName,
	}
}

type DocumentLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/documents/d430d7c3-d14c-4712-9336-ee56965a6673"`              // The document itself
	Download string `json:"download" example:"https://example.com/api/v1/documents/d430d7c3-d14c-4712-9336-ee56965a6673/download"` // The stored file
}

// Document is the representation of a FiscalDocument in API v1.
type Document struct {
	models.DefaultModel
	DocumentEditable
	FileName      string `json:"fileName" example:"nota-fiscal-12345.pdf"` // Name of the uploaded file
	FileType      string `json:"fileType" example:"pdf"`                   // pdf, image or text
	Processed     bool   `json:"processed" example:"true"`                 // Did the extraction find the document number?
	LinkedIncome  bool   `json:"linkedIncome" example:"false"`             // Is the document linked to an income entry?
	LinkedExpense bool   `json:"linkedExpense" example:"false"`            // Is the document linked to an expense entry?

	Links DocumentLinks `json:"links"`
}

// newDocument returns the API v1 representation of the resource
func newDocument(c *gin.Context, model models.FiscalDocument) Document {
	url := c.GetString(string(models.DBContextURL))

	return Document{
		DefaultModel: model.DefaultModel,
		DocumentEditable: DocumentEditable{
			Number:           model.Number,
			Series:           model.Series,
			IssueDate:        model.IssueDate,
			Total:            model.Total,
			Direction:        model.Direction,
			TaxID:            model.TaxID,
			CounterpartyName: model.CounterpartyName,
		},
		FileName:      model.FileName,
		FileType:      model.FileType,
		Processed:     model.Processed,
		LinkedIncome:  model.LinkedIncome,
		LinkedExpense: model.LinkedExpense,
		Links: DocumentLinks{
			Self:     fmt.Sprintf("%s/v1/documents/%s", url, model.ID),
			Download: fmt.Sprintf("%s/v1/documents/%s/download", url, model.ID),
		},
	}
}

type DocumentListResponse struct {
	Data       []Document  `json:"data"`                                                          // List of documents
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type DocumentResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Document `json:"data"`                                                          // The document data
}

// LinkEditable is the body for confirming a reconciliation suggestion.
type LinkEditable struct {
	EntryID uuid.UUID `json:"entryId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45" binding:"required"` // ID of the ledger entry to link
}

type SuggestionsResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []reconcile.Suggestion `json:"data"`                                                          // The suggested pairings, best first
}

type DocumentQueryFilter struct {
	Number    string                   `form:"number"`                        // Filter by document number
	Direction models.DocumentDirection `form:"direction"`                     // inbound or outbound
	TaxID     string                   `form:"taxId"`                         // Filter by counterparty tax ID
	Processed bool                     `form:"processed"`                     // Did the extraction find the document number?
	Linked    bool                     `form:"linked" filterField:"false"`    // Only documents with (true) or without (false) a linked entry
	FromDate  time.Time                `form:"fromDate" filterField:"false"`  // Documents issued at and after this date
	UntilDate time.Time                `form:"untilDate" filterField:"false"` // Documents issued before and at this date
	Offset    uint                     `form:"offset" filterField:"false"`    // The offset of the first document returned. Defaults to 0.
	Limit     int                      `form:"limit" filterField:"false"`     // Maximum number of documents to return. Defaults to 50.
}

func (f DocumentQueryFilter) model() (models.FiscalDocument, error) {
	return models.FiscalDocument{
		Number:    f.Number,
		Direction: f.Direction,
		TaxID:     f.TaxID,
		Processed: f.Processed,
	}, nil
}
