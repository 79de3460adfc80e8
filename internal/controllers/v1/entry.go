package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/httputil"
	"github.com/meicontrol/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterEntryRoutes registers the routes for ledger entries with
// the RouterGroup that is passed.
func RegisterEntryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsEntries)
		r.GET("", GetEntries)
		r.POST("", CreateEntries)
	}

	// Entry with ID
	{
		r.OPTIONS("/:id", OptionsEntryDetail)
		r.GET("/:id", GetEntry)
		r.PATCH("/:id", UpdateEntry)
		r.DELETE("/:id", DeleteEntry)
	}
}

// OptionsEntries returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Entries
//	@Success		204
//	@Router			/v1/entries [options]
//	@Security		BearerAuth
func OptionsEntries(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsEntryDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Entries
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Router			/v1/entries/{id} [options]
//	@Security		BearerAuth
func OptionsEntryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err = getUserEntry(c, uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// GetEntry returns a specific ledger entry
//
//	@Summary		Get entry
//	@Description	Returns a specific ledger entry of the authenticated user
//	@Tags			Entries
//	@Produce		json
//	@Success		200	{object}	EntryResponse
//	@Failure		400	{object}	EntryResponse
//	@Failure		404	{object}	EntryResponse
//	@Failure		500	{object}	EntryResponse
//	@Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Router			/v1/entries/{id} [get]
//	@Security		BearerAuth
func GetEntry(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryResponse{Error: &e})
		return
	}

	entry, err := getUserEntry(c, uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryResponse{Error: &e})
		return
	}

	data := newEntry(c, entry)
	c.JSON(http.StatusOK, EntryResponse{Data: &data})
}

// GetEntries returns a list of ledger entries
//
//	@Summary		Get entries
//	@Description	Returns a list of the authenticated user's ledger entries
//	@Tags			Entries
//	@Produce		json
//	@Success		200	{object}	EntryListResponse
//	@Failure		400	{object}	EntryListResponse
//	@Failure		500	{object}	EntryListResponse
//	@Router			/v1/entries [get]
//	@Security		BearerAuth
//	@Param			kind				query	string	false	"Filter by kind: income or expense"
//	@Param			category			query	string	false	"Filter by category"
//	@Param			date				query	string	false	"Date of the entry. Ignores exact time, matches on the day of the RFC3339 timestamp provided."
//	@Param			fromDate			query	string	false	"Entries at and after this date. Ignores exact time, matches on the day of the RFC3339 timestamp provided."
//	@Param			untilDate			query	string	false	"Entries before and at this date. Ignores exact time, matches on the day of the RFC3339 timestamp provided."
//	@Param			amount				query	string	false	"Filter by amount"
//	@Param			amountLessOrEqual	query	string	false	"Amount less than or equal to this"
//	@Param			amountMoreOrEqual	query	string	false	"Amount more than or equal to this"
//	@Param			description			query	string	false	"Filter by description"
//	@Param			document			query	string	false	"Filter by ID of the linked fiscal document"
//	@Param			linked				query	bool	false	"Only entries with (true) or without (false) a linked document"
//	@Param			offset				query	uint	false	"The offset of the first entry returned. Defaults to 0."
//	@Param			limit				query	int		false	"Maximum number of entries to return. Defaults to 50."
func GetEntries(c *gin.Context) {
	var filter EntryQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, EntryListResponse{Error: &s})
		return
	}

	// Get the fields set in the filter
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a model
	model, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryListResponse{Error: &e})
		return
	}

	user := currentUser(c)

	var q *gorm.DB
	q = models.DB.
		Order("datetime(ledger_entries.date) DESC, datetime(ledger_entries.created_at) DESC").
		Where("ledger_entries.user_id = ?", user.ID).
		Where(&model, queryFields...)

	// Filter for the entry being at the same date
	if !filter.Date.IsZero() {
		date := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("ledger_entries.date >= date(?)", date).Where("ledger_entries.date < date(?)", date.AddDate(0, 0, 1))
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("ledger_entries.date >= date(?)", time.Date(filter.FromDate.Year(), filter.FromDate.Month(), filter.FromDate.Day(), 0, 0, 0, 0, time.UTC))
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("ledger_entries.date < date(?)", time.Date(filter.UntilDate.Year(), filter.UntilDate.Month(), filter.UntilDate.Day()+1, 0, 0, 0, 0, time.UTC))
	}

	if !filter.AmountLessOrEqual.IsZero() {
		q = q.Where("ledger_entries.amount <= ?", filter.AmountLessOrEqual)
	}

	if !filter.AmountMoreOrEqual.IsZero() {
		q = q.Where("ledger_entries.amount >= ?", filter.AmountMoreOrEqual)
	}

	if filter.Description != "" {
		q = q.Where("ledger_entries.description LIKE ?", fmt.Sprintf("%%%s%%", filter.Description))
	} else if slices.Contains(setFields, "Description") {
		q = q.Where("ledger_entries.description = ''")
	}

	if slices.Contains(setFields, "Linked") {
		if filter.Linked {
			q = q.Where("ledger_entries.document_id IS NOT NULL")
		} else {
			q = q.Where("ledger_entries.document_id IS NULL")
		}
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 entries and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var entries []models.LedgerEntry
	err = q.Find(&entries).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryListResponse{Error: &e})
		return
	}

	data := make([]Entry, 0)
	for _, entry := range entries {
		data = append(data, newEntry(c, entry))
	}

	c.JSON(http.StatusOK, EntryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// CreateEntries creates ledger entries
//
//	@Summary		Create entries
//	@Description	Creates entries from the list of submitted entry data. The response code is the highest response code number that a single entry creation would have caused. If it is not equal to 201, at least one entry has an error.
//	@Tags			Entries
//	@Produce		json
//	@Success		201		{object}	EntryCreateResponse
//	@Failure		400		{object}	EntryCreateResponse
//	@Failure		404		{object}	EntryCreateResponse
//	@Failure		500		{object}	EntryCreateResponse
//	@Param			entries	body		[]EntryEditable	true	"Entries"
//	@Router			/v1/entries [post]
//	@Security		BearerAuth
func CreateEntries(c *gin.Context) {
	var editables []EntryEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryCreateResponse{Error: &e})
		return
	}

	user := currentUser(c)

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := EntryCreateResponse{}

	for _, editable := range editables {
		entry := editable.model()
		entry.UserID = user.ID

		err := models.DB.Create(&entry).Error
		// Append the error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newEntry(c, entry)
		r.Data = append(r.Data, EntryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// UpdateEntry updates a ledger entry
//
//	@Summary		Update entry
//	@Description	Updates an existing entry. Only values to be updated need to be specified.
//	@Tags			Entries
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	EntryResponse
//	@Failure		400		{object}	EntryResponse
//	@Failure		404		{object}	EntryResponse
//	@Failure		500		{object}	EntryResponse
//	@Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Param			entry	body		EntryEditable	true	"Entry"
//	@Router			/v1/entries/{id} [patch]
//	@Security		BearerAuth
func UpdateEntry(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryResponse{Error: &e})
		return
	}

	entry, err := getUserEntry(c, uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryResponse{Error: &e})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, EntryEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryResponse{Error: &e})
		return
	}

	// Bind the update for the patch
	var update EntryEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryResponse{Error: &e})
		return
	}

	// If the amount set via the API request is not existent or
	// is 0, we use the old amount
	if update.Amount.IsZero() {
		update.Amount = entry.Amount
	}

	// The kind and category always pass validation together
	if update.Kind == "" {
		update.Kind = entry.Kind
	}

	if update.Category == "" {
		update.Category = entry.Category
	}

	err = models.DB.Model(&entry).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EntryResponse{Error: &e})
		return
	}

	data := newEntry(c, entry)
	c.JSON(http.StatusOK, EntryResponse{Data: &data})
}

// DeleteEntry deletes a ledger entry
//
//	@Summary		Delete entry
//	@Description	Deletes an entry. A linked fiscal document is detached, not deleted.
//	@Tags			Entries
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Router			/v1/entries/{id} [delete]
//	@Security		BearerAuth
func DeleteEntry(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	entry, err := getUserEntry(c, uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&entry).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// getUserEntry loads an entry and verifies it belongs to the
// authenticated user. Foreign entries are indistinguishable from
// missing ones.
func getUserEntry(c *gin.Context, uri URIID) (models.LedgerEntry, error) {
	user := currentUser(c)

	var entry models.LedgerEntry
	err := models.DB.First(&entry, "id = ? AND user_id = ?", uri.ID.UUID, user.ID).Error

	return entry, err
}
