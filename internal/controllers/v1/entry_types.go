package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meicontrol/backend/internal/models"
	mc_uuid "github.com/meicontrol/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type EntryEditable struct {
	Kind models.EntryKind `json:"kind" example:"income"` // income or expense

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	Amount decimal.Decimal `json:"amount" example:"150.00" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount of the entry

	Date        time.Time  `json:"date" example:"2025-03-10T00:00:00Z"`                       // Date of the entry. Time is currently only used for sorting
	Category    string     `json:"category" example:"comercio"`                               // Revenue class for income, expense class for expenses
	Description string     `json:"description" example:"Venda de doces" default:""`           // A note
	DocumentID  *uuid.UUID `json:"documentId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"` // ID of the linked fiscal document
}

// model returns the database resource for the API representation of the editable fields
func (editable EntryEditable) model() models.LedgerEntry {
	return models.LedgerEntry{
		Kind:        editable.Kind,
		Amount:      editable.Amount,
		Date:        editable.Date,
		Category:    editable.Category,
		Description: editable.Description,
		DocumentID:  editable.DocumentID,
	}
}

type EntryLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/entries/d430d7c3-d14c-4712-9336-ee56965a6673"` // The entry itself
}

// Entry is the representation of a LedgerEntry in API v1.
type Entry struct {
	models.DefaultModel
	EntryEditable
	Links EntryLinks `json:"links"`
}

// newEntry returns the API v1 representation of the resource
func newEntry(c *gin.Context, model models.LedgerEntry) Entry {
	url := c.GetString(string(models.DBContextURL))

	return Entry{
		DefaultModel: model.DefaultModel,
		EntryEditable: EntryEditable{
			Kind:        model.Kind,
			Amount:      model.Amount,
			Date:        model.Date,
			Category:    model.Category,
			Description: model.Description,
			DocumentID:  model.DocumentID,
		},
		Links: EntryLinks{
			Self: fmt.Sprintf("%s/v1/entries/%s", url, model.ID),
		},
	}
}

type EntryListResponse struct {
	Data       []Entry     `json:"data"`                                                          // List of entries
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type EntryCreateResponse struct {
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []EntryResponse `json:"data"`                                                          // List of created entries
}

func (t *EntryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, EntryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type EntryResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this entry
	Data  *Entry  `json:"data"`                                                          // The entry data, if creation was successful
}

type EntryQueryFilter struct {
	Kind              models.EntryKind `form:"kind"`                                  // income or expense
	Category          string           `form:"category"`                              // Filter by category
	Date              time.Time        `form:"date" filterField:"false"`              // Exact date. Time is ignored.
	FromDate          time.Time        `form:"fromDate" filterField:"false"`          // Entries at and after this date. Time is ignored.
	UntilDate         time.Time        `form:"untilDate" filterField:"false"`         // Entries before and at this date. Time is ignored.
	Amount            decimal.Decimal  `form:"amount"`                                // Exact amount
	AmountLessOrEqual decimal.Decimal  `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual decimal.Decimal  `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Description       string           `form:"description" filterField:"false"`       // Description contains this string
	DocumentID        mc_uuid.UUID     `form:"document"`                              // ID of the linked fiscal document
	Linked            bool             `form:"linked" filterField:"false"`            // Only entries with (true) or without (false) a linked document
	Offset            uint             `form:"offset" filterField:"false"`            // The offset of the first entry returned. Defaults to 0.
	Limit             int              `form:"limit" filterField:"false"`             // Maximum number of entries to return. Defaults to 50.
}

func (f EntryQueryFilter) model() (models.LedgerEntry, error) {
	// If the documentID is nil, use an actual nil, not uuid.Nil
	var dID *uuid.UUID
	if f.DocumentID != mc_uuid.Nil {
		dID = &f.DocumentID.UUID
	}

	// This does not set the string or date fields since they are
	// handled in the controller function
	return EntryEditable{
		Kind:       f.Kind,
		Amount:     f.Amount,
		Category:   f.Category,
		DocumentID: dID,
	}.model(), nil
}
