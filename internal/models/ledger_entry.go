package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// EntryKind tags a ledger entry as income or expense.
type EntryKind string

const (
	KindIncome  EntryKind = "income"
	KindExpense EntryKind = "expense"
)

// IncomeCategories is the closed set of categories for income entries.
// They mirror the revenue classes of the MEI monthly gross revenue
// filing.
var IncomeCategories = []string{"comercio", "servicos", "industria", "outros"}

// ExpenseCategories is the closed set of categories for expense entries.
var ExpenseCategories = []string{"material", "equipamento", "servicos", "outros"}

// CategoriesFor returns the allowed categories for an entry kind.
func CategoriesFor(kind EntryKind) []string {
	if kind == KindExpense {
		return ExpenseCategories
	}

	return IncomeCategories
}

// LedgerEntry is one income or expense record of a user. An entry can
// be linked to at most one fiscal document.
type LedgerEntry struct {
	DefaultModel
	User        User      `json:"-"`
	UserID      uuid.UUID `gorm:"index"`
	Kind        EntryKind `gorm:"index"`
	Description string
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date        time.Time
	Category    string
	DocumentID  *uuid.UUID
	Document    *FiscalDocument `json:"-"`
}

// BeforeSave validates the amount and the category and normalizes the
// entry date to UTC.
func (e *LedgerEntry) BeforeSave(_ *gorm.DB) error {
	if !slices.Contains([]EntryKind{KindIncome, KindExpense}, e.Kind) {
		return ErrEntryKindInvalid
	}

	if !e.Amount.IsPositive() {
		return ErrEntryAmountNotPositive
	}

	if !slices.Contains(CategoriesFor(e.Kind), e.Category) {
		return ErrEntryCategoryInvalid
	}

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*LedgerEntry)
	return e.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies references before committing an update.
func (e *LedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("UserID") {
		toSave := tx.Statement.Dest.(LedgerEntry)
		return e.checkIntegrity(tx, toSave)
	}

	return nil
}

// AfterDelete detaches the fiscal document that referenced this entry.
// The document itself stays, only its link flag is cleared so that it
// becomes available for reconciliation again.
func (e *LedgerEntry) AfterDelete(tx *gorm.DB) error {
	if e.DocumentID == nil {
		return nil
	}

	flag := "linked_income"
	if e.Kind == KindExpense {
		flag = "linked_expense"
	}

	return tx.Model(&FiscalDocument{}).
		Where("id = ?", *e.DocumentID).
		Update(flag, false).Error
}

// checkIntegrity verifies references to other resources
func (e *LedgerEntry) checkIntegrity(tx *gorm.DB, toSave LedgerEntry) error {
	return tx.First(&User{}, toSave.UserID).Error
}
