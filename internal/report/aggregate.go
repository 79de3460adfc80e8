// Package report computes the monthly and annual obligation figures
// and renders them as PDF and spreadsheet documents.
package report

import (
	"errors"

	"github.com/google/uuid"
	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrFilingNotEditable is returned when a recompute targets a filing
// that has already been finalized or submitted.
var ErrFilingNotEditable = errors.New("the filing for this month is already finalized and can not be recomputed")

// AnnualCeiling is the MEI gross revenue limit per calendar year, in
// BRL.
var AnnualCeiling = decimal.RequireFromString("81000.00")

// AnnualSummary is the yearly rollup over the monthly filings.
//
// Months without a filing are reported in MissingMonths and contribute
// nothing to the totals. A missing month is not the same as a month
// with zero revenue, so no filing is ever synthesized here.
type AnnualSummary struct {
	Year   int                        `json:"year"`
	Months []models.MonthlyObligation `json:"months"`

	MissingMonths []int `json:"missingMonths"`

	TotalComercio  decimal.Decimal `json:"totalComercio"`
	TotalServicos  decimal.Decimal `json:"totalServicos"`
	TotalIndustria decimal.Decimal `json:"totalIndustria"`
	TotalOutros    decimal.Decimal `json:"totalOutros"`

	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetBalance   decimal.Decimal `json:"netBalance"`

	Ceiling         decimal.Decimal `json:"ceiling"`
	CeilingPercent  decimal.Decimal `json:"ceilingPercent"` // Share of the ceiling consumed, in percent
	CeilingExceeded bool            `json:"ceilingExceeded"`
}

// RecomputeMonthly aggregates the user's ledger entries of a month into
// its filing, creating it on first call and overwriting the totals on
// every later one. Recomputing is idempotent: the result only depends
// on the entries, never on the previous totals.
//
// A filing that has advanced beyond draft is frozen and returns
// ErrFilingNotEditable.
func RecomputeMonthly(db *gorm.DB, userID uuid.UUID, month types.Month) (models.MonthlyObligation, error) {
	obligation, found, err := getMonthly(db, userID, month)
	if err != nil {
		return models.MonthlyObligation{}, err
	}

	if found && obligation.Status != models.StatusDraft {
		return models.MonthlyObligation{}, ErrFilingNotEditable
	}

	var entries []models.LedgerEntry
	err = db.
		Where(&models.LedgerEntry{UserID: userID}).
		Where("date >= ? AND date < ?", month.FirstDay(), month.AddDate(0, 1).FirstDay()).
		Find(&entries).Error
	if err != nil {
		return models.MonthlyObligation{}, err
	}

	obligation.UserID = userID
	obligation.Year = month.Year()
	obligation.Month = int(month.Month())
	obligation.Status = models.StatusDraft
	aggregate(&obligation, entries)

	if found {
		err = db.Model(&obligation).
			Select("TotalComercio", "TotalServicos", "TotalIndustria", "TotalOutros", "TotalIncome", "TotalExpense", "NetBalance").
			Updates(obligation).Error
		return obligation, err
	}

	err = db.Create(&obligation).Error
	if errors.Is(err, models.ErrObligationMonthNotUnique) {
		// A concurrent recompute created the filing first. Retry once
		// as an update against the winning row.
		return RecomputeMonthly(db, userID, month)
	}

	return obligation, err
}

// GetMonthly returns the filing for a month. A month that has never
// been computed is reported as not found, it is never computed on read.
func GetMonthly(db *gorm.DB, userID uuid.UUID, month types.Month) (models.MonthlyObligation, error) {
	var obligation models.MonthlyObligation
	err := db.First(&obligation, &models.MonthlyObligation{
		UserID: userID,
		Year:   month.Year(),
		Month:  int(month.Month()),
	}).Error

	return obligation, err
}

// History returns all filings of the user, newest period first.
func History(db *gorm.DB, userID uuid.UUID) ([]models.MonthlyObligation, error) {
	var obligations []models.MonthlyObligation
	err := db.
		Where(&models.MonthlyObligation{UserID: userID}).
		Order("year DESC, month DESC").
		Find(&obligations).Error

	return obligations, err
}

// Annual rolls the monthly filings of a calendar year up into the
// figures of the annual declaration.
func Annual(db *gorm.DB, userID uuid.UUID, year int) (AnnualSummary, error) {
	if year < models.ObligationYearFloor {
		return AnnualSummary{}, models.ErrObligationYearInvalid
	}

	var obligations []models.MonthlyObligation
	err := db.
		Where(&models.MonthlyObligation{UserID: userID, Year: year}).
		Order("month ASC").
		Find(&obligations).Error
	if err != nil {
		return AnnualSummary{}, err
	}

	summary := AnnualSummary{
		Year:    year,
		Months:  obligations,
		Ceiling: AnnualCeiling,
	}

	present := make(map[int]bool, len(obligations))
	for _, o := range obligations {
		present[o.Month] = true

		summary.TotalComercio = summary.TotalComercio.Add(o.TotalComercio)
		summary.TotalServicos = summary.TotalServicos.Add(o.TotalServicos)
		summary.TotalIndustria = summary.TotalIndustria.Add(o.TotalIndustria)
		summary.TotalOutros = summary.TotalOutros.Add(o.TotalOutros)

		summary.TotalIncome = summary.TotalIncome.Add(o.TotalIncome)
		summary.TotalExpense = summary.TotalExpense.Add(o.TotalExpense)
		summary.NetBalance = summary.NetBalance.Add(o.NetBalance)
	}

	summary.MissingMonths = make([]int, 0)
	for month := 1; month <= 12; month++ {
		if !present[month] {
			summary.MissingMonths = append(summary.MissingMonths, month)
		}
	}

	summary.CeilingPercent = summary.TotalIncome.
		Div(AnnualCeiling).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	summary.CeilingExceeded = summary.TotalIncome.GreaterThan(AnnualCeiling)

	return summary, nil
}

// aggregate overwrites the totals of the filing from the entries.
func aggregate(obligation *models.MonthlyObligation, entries []models.LedgerEntry) {
	zero := decimal.Zero

	obligation.TotalComercio = zero
	obligation.TotalServicos = zero
	obligation.TotalIndustria = zero
	obligation.TotalOutros = zero
	obligation.TotalIncome = zero
	obligation.TotalExpense = zero

	for _, entry := range entries {
		if entry.Kind == models.KindExpense {
			obligation.TotalExpense = obligation.TotalExpense.Add(entry.Amount)
			continue
		}

		switch entry.Category {
		case "comercio":
			obligation.TotalComercio = obligation.TotalComercio.Add(entry.Amount)
		case "servicos":
			obligation.TotalServicos = obligation.TotalServicos.Add(entry.Amount)
		case "industria":
			obligation.TotalIndustria = obligation.TotalIndustria.Add(entry.Amount)
		default:
			obligation.TotalOutros = obligation.TotalOutros.Add(entry.Amount)
		}

		obligation.TotalIncome = obligation.TotalIncome.Add(entry.Amount)
	}

	obligation.NetBalance = obligation.TotalIncome.Sub(obligation.TotalExpense)
}

// getMonthly is the lookup behind RecomputeMonthly. Not found is not an
// error here, it means the filing gets created.
func getMonthly(db *gorm.DB, userID uuid.UUID, month types.Month) (models.MonthlyObligation, bool, error) {
	obligation, err := GetMonthly(db, userID, month)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return models.MonthlyObligation{}, false, nil
		}

		return models.MonthlyObligation{}, false, err
	}

	return obligation, true, nil
}
