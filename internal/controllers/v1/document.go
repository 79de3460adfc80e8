package v1

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meicontrol/backend/internal/extract"
	"github.com/meicontrol/backend/internal/httputil"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/internal/reconcile"
	"github.com/meicontrol/backend/internal/storage"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterDocumentRoutes registers the routes for fiscal documents with
// the RouterGroup that is passed.
func RegisterDocumentRoutes(store *storage.Store, r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsDocuments)
		r.GET("", GetDocuments)
		r.POST("", CreateDocument(store))
	}

	// Reconciliation suggestions over all unlinked documents
	{
		r.OPTIONS("/suggestions", httputil.OptionsGet)
		r.GET("/suggestions", GetSuggestions)
	}

	// Document with ID
	{
		r.OPTIONS("/:id", OptionsDocumentDetail)
		r.GET("/:id", GetDocument)
		r.PATCH("/:id", UpdateDocument)
		r.DELETE("/:id", DeleteDocument(store))

		r.OPTIONS("/:id/download", httputil.OptionsGet)
		r.GET("/:id/download", DownloadDocument(store))

		r.OPTIONS("/:id/link", httputil.OptionsPost)
		r.POST("/:id/link", LinkDocument)
	}
}

// OptionsDocuments returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Documents
//	@Success		204
//	@Router			/v1/documents [options]
//	@Security		BearerAuth
func OptionsDocuments(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsDocumentDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Documents
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Router			/v1/documents/{id} [options]
//	@Security		BearerAuth
func OptionsDocumentDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err = getUserDocument(c, uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// CreateDocument stores an uploaded file and extracts its metadata
//
//	@Summary		Upload document
//	@Description	Stores the uploaded file and scans it for the document number, total, counterparty tax ID and issue date. Fields that cannot be recognized stay empty and can be set manually later.
//	@Tags			Documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		201			{object}	DocumentResponse
//	@Failure		400			{object}	DocumentResponse
//	@Failure		413			{object}	DocumentResponse
//	@Failure		500			{object}	DocumentResponse
//	@Param			file		formData	file	true	"The document file: pdf, png, jpg or txt"
//	@Param			direction	formData	string	true	"inbound (received) or outbound (issued)"
//	@Router			/v1/documents [post]
//	@Security		BearerAuth
func CreateDocument(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		direction := models.DocumentDirection(c.PostForm("direction"))
		if direction == "" {
			e := errDirectionNotSet.Error()
			c.JSON(http.StatusBadRequest, DocumentResponse{Error: &e})
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			e := httputil.ErrFileMissing.Error()
			c.JSON(http.StatusBadRequest, DocumentResponse{Error: &e})
			return
		}

		if header.Size > storage.MaxFileSize {
			e := storage.ErrFileTooLarge.Error()
			c.JSON(http.StatusRequestEntityTooLarge, DocumentResponse{Error: &e})
			return
		}

		fileType, err := storage.FileType(header.Filename)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, DocumentResponse{Error: &e})
			return
		}

		file, err := header.Open()
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, DocumentResponse{Error: &e})
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, DocumentResponse{Error: &e})
			return
		}

		ref, err := store.Save(header.Filename, content)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), DocumentResponse{Error: &e})
			return
		}

		document := models.FiscalDocument{
			UserID:    user.ID,
			Direction: direction,
			FileName:  filepath.Base(header.Filename),
			FileRef:   ref,
			FileType:  fileType,
		}

		// Images carry no machine readable text, their fields stay
		// empty until the user fills them in.
		if fileType != "image" {
			text := string(content)
			if fileType == "pdf" {
				// An unreadable PDF is stored anyway, its fields stay
				// empty for manual entry
				text, err = extract.PDFText(content)
				if err != nil {
					text = ""
				}
			}

			fields := extract.Parse(text)

			document.Number = fields.Number
			document.TaxID = fields.TaxID
			document.Processed = fields.Number != ""

			if fields.Total != nil {
				document.Total = *fields.Total
			}

			if fields.IssueDate != nil {
				document.IssueDate = *fields.IssueDate
			}
		}

		err = models.DB.Create(&document).Error
		if err != nil {
			// The database row failed, remove the stored file again
			_ = store.Delete(ref)

			e := err.Error()
			c.JSON(status(err), DocumentResponse{Error: &e})
			return
		}

		data := newDocument(c, document)
		c.JSON(http.StatusCreated, DocumentResponse{Data: &data})
	}
}

// GetDocument returns a specific fiscal document
//
//	@Summary		Get document
//	@Description	Returns a specific fiscal document of the authenticated user
//	@Tags			Documents
//	@Produce		json
//	@Success		200	{object}	DocumentResponse
//	@Failure		400	{object}	DocumentResponse
//	@Failure		404	{object}	DocumentResponse
//	@Failure		500	{object}	DocumentResponse
//	@Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Router			/v1/documents/{id} [get]
//	@Security		BearerAuth
func GetDocument(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	document, err := getUserDocument(c, uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	data := newDocument(c, document)
	c.JSON(http.StatusOK, DocumentResponse{Data: &data})
}

// GetDocuments returns a list of fiscal documents
//
//	@Summary		Get documents
//	@Description	Returns a list of the authenticated user's fiscal documents
//	@Tags			Documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Failure		400	{object}	DocumentListResponse
//	@Failure		500	{object}	DocumentListResponse
//	@Router			/v1/documents [get]
//	@Security		BearerAuth
//	@Param			number		query	string	false	"Filter by document number"
//	@Param			direction	query	string	false	"Filter by direction: inbound or outbound"
//	@Param			taxId		query	string	false	"Filter by counterparty tax ID"
//	@Param			processed	query	bool	false	"Filter by extraction success"
//	@Param			linked		query	bool	false	"Only documents with (true) or without (false) a linked entry"
//	@Param			fromDate	query	string	false	"Documents issued at and after this date"
//	@Param			untilDate	query	string	false	"Documents issued before and at this date"
//	@Param			offset		query	uint	false	"The offset of the first document returned. Defaults to 0."
//	@Param			limit		query	int		false	"Maximum number of documents to return. Defaults to 50."
func GetDocuments(c *gin.Context) {
	var filter DocumentQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, DocumentListResponse{Error: &s})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentListResponse{Error: &e})
		return
	}

	user := currentUser(c)

	var q *gorm.DB
	q = models.DB.
		Order("datetime(fiscal_documents.issue_date) DESC, datetime(fiscal_documents.created_at) DESC").
		Where("fiscal_documents.user_id = ?", user.ID).
		Where(&model, queryFields...)

	if slices.Contains(setFields, "Linked") {
		if filter.Linked {
			q = q.Where("fiscal_documents.linked_income = true OR fiscal_documents.linked_expense = true")
		} else {
			q = q.Where("fiscal_documents.linked_income = false AND fiscal_documents.linked_expense = false")
		}
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("fiscal_documents.issue_date >= date(?)", time.Date(filter.FromDate.Year(), filter.FromDate.Month(), filter.FromDate.Day(), 0, 0, 0, 0, time.UTC))
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("fiscal_documents.issue_date < date(?)", time.Date(filter.UntilDate.Year(), filter.UntilDate.Month(), filter.UntilDate.Day()+1, 0, 0, 0, 0, time.UTC))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 documents and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var documents []models.FiscalDocument
	err = q.Find(&documents).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentListResponse{Error: &e})
		return
	}

	data := make([]Document, 0)
	for _, document := range documents {
		data = append(data, newDocument(c, document))
	}

	c.JSON(http.StatusOK, DocumentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// UpdateDocument corrects the metadata of a fiscal document
//
//	@Summary		Update document
//	@Description	Updates the extracted metadata. Only values to be updated need to be specified. The stored file itself is immutable.
//	@Tags			Documents
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	DocumentResponse
//	@Failure		400			{object}	DocumentResponse
//	@Failure		404			{object}	DocumentResponse
//	@Failure		500			{object}	DocumentResponse
//	@Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Param			document	body		DocumentEditable	true	"Document"
//	@Router			/v1/documents/{id} [patch]
//	@Security		BearerAuth
func UpdateDocument(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	document, err := getUserDocument(c, uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, DocumentEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	var update DocumentEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	// The direction is validated on save, an unset one keeps the old value
	if update.Direction == "" {
		update.Direction = document.Direction
	}

	err = models.DB.Model(&document).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	data := newDocument(c, document)
	c.JSON(http.StatusOK, DocumentResponse{Data: &data})
}

// DeleteDocument deletes a fiscal document and its stored file
//
//	@Summary		Delete document
//	@Description	Deletes a document and the stored file. Linked ledger entries are detached, not deleted.
//	@Tags			Documents
//	@Success		204
//	@Failure		400	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Router			/v1/documents/{id} [delete]
//	@Security		BearerAuth
func DeleteDocument(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri URIID
		err := c.ShouldBindUri(&uri)
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		document, err := getUserDocument(c, uri)
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		err = models.DB.Delete(&document).Error
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		// The database row is gone, a leftover file only wastes disk
		// space. Deletion errors are therefore not reported.
		_ = store.Delete(document.FileRef)

		c.JSON(http.StatusNoContent, nil)
	}
}

// DownloadDocument returns the stored file
//
//	@Summary		Download document
//	@Description	Returns the originally uploaded file
//	@Tags			Documents
//	@Produce		application/octet-stream
//	@Success		200	{file}		file
//	@Failure		400	{object}	httpError
//	@Failure		404	{object}	httpError
//	@Failure		500	{object}	httpError
//	@Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Router			/v1/documents/{id}/download [get]
//	@Security		BearerAuth
func DownloadDocument(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri URIID
		err := c.ShouldBindUri(&uri)
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		document, err := getUserDocument(c, uri)
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		content, err := store.Read(document.FileRef)
		if err != nil {
			e := models.ErrGeneral.Error()
			c.JSON(http.StatusInternalServerError, httpError{Error: e})
			return
		}

		contentType := mime.TypeByExtension(filepath.Ext(document.FileRef))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		c.Header("content-disposition", `attachment; filename="`+document.FileName+`"`)
		c.Data(http.StatusOK, contentType, content)
	}
}

// LinkDocument links a document to a ledger entry
//
//	@Summary		Link document
//	@Description	Links the document to a ledger entry of the matching kind. Both must be unlinked.
//	@Tags			Documents
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	DocumentResponse
//	@Failure		400		{object}	DocumentResponse
//	@Failure		404		{object}	DocumentResponse
//	@Failure		500		{object}	DocumentResponse
//	@Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
//	@Param			link	body		LinkEditable	true	"Link"
//	@Router			/v1/documents/{id}/link [post]
//	@Security		BearerAuth
func LinkDocument(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	var link LinkEditable
	err = httputil.BindData(c, &link)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	if link.EntryID == uuid.Nil {
		e := errEntryIDNotSet.Error()
		c.JSON(http.StatusBadRequest, DocumentResponse{Error: &e})
		return
	}

	user := currentUser(c)

	err = reconcile.Link(models.DB, user.ID, uri.ID.UUID, link.EntryID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	var document models.FiscalDocument
	err = models.DB.First(&document, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DocumentResponse{Error: &e})
		return
	}

	data := newDocument(c, document)
	c.JSON(http.StatusOK, DocumentResponse{Data: &data})
}

// GetSuggestions returns reconciliation suggestions
//
//	@Summary		Get suggestions
//	@Description	Pairs unlinked fiscal documents with unlinked ledger entries of similar amount and date. Returns at most the ten best suggestions.
//	@Tags			Documents
//	@Produce		json
//	@Success		200	{object}	SuggestionsResponse
//	@Failure		500	{object}	SuggestionsResponse
//	@Router			/v1/documents/suggestions [get]
//	@Security		BearerAuth
func GetSuggestions(c *gin.Context) {
	user := currentUser(c)

	suggestions, err := reconcile.Suggestions(models.DB, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SuggestionsResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, SuggestionsResponse{Data: suggestions})
}

// getUserDocument loads a document and verifies it belongs to the
// authenticated user. Foreign documents are indistinguishable from
// missing ones.
func getUserDocument(c *gin.Context, uri URIID) (models.FiscalDocument, error) {
	user := currentUser(c)

	var document models.FiscalDocument
	err := models.DB.First(&document, "id = ? AND user_id = ?", uri.ID.UUID, user.ID).Error

	return document, err
}
