package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// DocumentDirection tags a fiscal document as issued by the user
// (outbound) or received by the user (inbound). Inbound documents
// belong to income entries, outbound documents to expense entries.
type DocumentDirection string

const (
	DirectionInbound  DocumentDirection = "inbound"
	DirectionOutbound DocumentDirection = "outbound"
)

// EntryKind returns the ledger entry kind a document of this direction
// can be linked to.
func (d DocumentDirection) EntryKind() EntryKind {
	if d == DirectionOutbound {
		return KindExpense
	}

	return KindIncome
}

// FiscalDocument is an uploaded receipt or invoice together with the
// metadata extracted from it. All extracted fields are provisional and
// can be corrected manually.
type FiscalDocument struct {
	DefaultModel
	User   User      `json:"-"`
	UserID uuid.UUID `gorm:"index"`

	Number    string // Extracted document number, empty if not found
	Series    string
	IssueDate time.Time
	Total     decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Zero when extraction found no amount
	Direction DocumentDirection

	FileName string // Name of the uploaded file
	FileRef  string // Reference of the stored file
	FileType string // pdf, image or text

	TaxID            string // CNPJ or CPF of the counterparty, empty if not found
	CounterpartyName string

	Processed     bool // Extraction found at least the document number
	LinkedIncome  bool
	LinkedExpense bool
}

// BeforeSave validates the direction and the link flags and trims
// whitespace from all strings.
func (d *FiscalDocument) BeforeSave(_ *gorm.DB) error {
	d.Number = strings.TrimSpace(d.Number)
	d.Series = strings.TrimSpace(d.Series)
	d.TaxID = strings.TrimSpace(d.TaxID)
	d.CounterpartyName = strings.TrimSpace(d.CounterpartyName)

	if !slices.Contains([]DocumentDirection{DirectionInbound, DirectionOutbound}, d.Direction) {
		return ErrDocumentDirectionInvalid
	}

	if d.Total.IsNegative() {
		return ErrDocumentTotalNegative
	}

	if d.LinkedIncome && d.LinkedExpense {
		return ErrDocumentDoubleLinked
	}

	if d.IssueDate.IsZero() {
		d.IssueDate = time.Now().In(time.UTC)
	} else {
		d.IssueDate = d.IssueDate.In(time.UTC)
	}

	return nil
}

func (d *FiscalDocument) BeforeCreate(tx *gorm.DB) error {
	_ = d.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*FiscalDocument)
	return d.checkIntegrity(tx, *toSave)
}

// AfterDelete detaches all ledger entries that referenced this
// document.
func (d *FiscalDocument) AfterDelete(tx *gorm.DB) error {
	return tx.Model(&LedgerEntry{}).
		Where("document_id = ?", d.ID).
		Update("document_id", nil).Error
}

// Linked reports whether the document is linked to any ledger entry.
func (d FiscalDocument) Linked() bool {
	return d.LinkedIncome || d.LinkedExpense
}

// checkIntegrity verifies references to other resources
func (d *FiscalDocument) checkIntegrity(tx *gorm.DB, toSave FiscalDocument) error {
	return tx.First(&User{}, toSave.UserID).Error
}
