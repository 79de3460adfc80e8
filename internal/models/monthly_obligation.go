package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ObligationStatus is the filing state of a monthly obligation. It can
// only ever advance: draft -> final -> submitted.
type ObligationStatus string

const (
	StatusDraft     ObligationStatus = "draft"
	StatusFinal     ObligationStatus = "final"
	StatusSubmitted ObligationStatus = "submitted"
)

// rank orders the statuses for the forward-only check.
func (s ObligationStatus) rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusFinal:
		return 1
	case StatusSubmitted:
		return 2
	}

	return -1
}

// ObligationYearFloor is the earliest year a filing can refer to, the
// year the MEI regime was introduced.
const ObligationYearFloor = 2009

// MonthlyObligation holds the aggregated figures for one monthly gross
// revenue filing. There is exactly one per user, year and month, and
// recomputing it overwrites the totals in place.
type MonthlyObligation struct {
	DefaultModel
	User   User      `json:"-"`
	UserID uuid.UUID `gorm:"uniqueIndex:obligation_user_year_month"`
	Year   int       `gorm:"uniqueIndex:obligation_user_year_month"`
	Month  int       `gorm:"uniqueIndex:obligation_user_year_month"` // 1 to 12

	// Income by revenue class. TotalIncome is always the sum of the
	// four buckets.
	TotalComercio  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TotalServicos  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TotalIndustria decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TotalOutros    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	TotalIncome  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TotalExpense decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	NetBalance   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	Status      ObligationStatus
	FinalizedAt *time.Time
	SubmittedAt *time.Time
}

// BeforeSave validates the period and the status.
func (o *MonthlyObligation) BeforeSave(_ *gorm.DB) error {
	if o.Month < 1 || o.Month > 12 {
		return ErrObligationMonthInvalid
	}

	if o.Year < ObligationYearFloor {
		return ErrObligationYearInvalid
	}

	if o.Status == "" {
		o.Status = StatusDraft
	}

	if o.Status.rank() < 0 {
		return ErrObligationStatusInvalid
	}

	return nil
}

func (o *MonthlyObligation) BeforeCreate(tx *gorm.DB) error {
	_ = o.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*MonthlyObligation)
	return tx.First(&User{}, toSave.UserID).Error
}

// AdvanceStatus moves the filing to the requested status and stamps the
// transition time. Moving backwards is rejected.
func (o *MonthlyObligation) AdvanceStatus(db *gorm.DB, to ObligationStatus) error {
	if to.rank() < 0 {
		return ErrObligationStatusInvalid
	}

	if to.rank() <= o.Status.rank() {
		return ErrObligationStatusRegress
	}

	now := time.Now().In(time.UTC)
	updates := map[string]any{"status": to}

	if to == StatusFinal {
		updates["finalized_at"] = &now
	}

	if to == StatusSubmitted {
		updates["submitted_at"] = &now

		if o.FinalizedAt == nil {
			updates["finalized_at"] = &now
		}
	}

	return db.Model(o).Updates(updates).Error
}
