package report

import (
	"fmt"
	"time"

	"github.com/meicontrol/backend/internal/models"
	"github.com/meicontrol/backend/internal/types"
	"gorm.io/gorm"
)

// DeadlineStatus describes how a filing stands against its due date.
type DeadlineStatus string

const (
	// DeadlineOpen means the filing is not due soon and not submitted.
	DeadlineOpen DeadlineStatus = "open"

	// DeadlineDueSoon means the due date is inside the user's reminder
	// window.
	DeadlineDueSoon DeadlineStatus = "due_soon"

	// DeadlineOverdue means the due date has passed without submission.
	DeadlineOverdue DeadlineStatus = "overdue"

	// DeadlineSubmitted means the filing has been submitted.
	DeadlineSubmitted DeadlineStatus = "submitted"
)

// Deadline is one filing obligation together with its due date and
// current standing.
type Deadline struct {
	Kind   string `json:"kind"`   // monthly or annual
	Period string `json:"period"` // "2025-03" for monthly, "2025" for annual

	Due    time.Time      `json:"due"`
	Status DeadlineStatus `json:"status"`
}

// MonthlyDue returns the due date of the monthly gross revenue filing
// for a month: the 20th of the following month.
func MonthlyDue(month types.Month) time.Time {
	next := month.AddDate(0, 1)
	return time.Date(next.Year(), next.Month(), 20, 23, 59, 59, 0, time.UTC)
}

// AnnualDue returns the due date of the annual declaration (DASN-SIMEI)
// for a calendar year: May 31 of the following year.
func AnnualDue(year int) time.Time {
	return time.Date(year+1, time.May, 31, 23, 59, 59, 0, time.UTC)
}

// Deadlines lists the filing obligations of the trailing twelve months
// plus the annual declaration of the previous year, each with its
// standing at the reference time.
//
// The reminder window for due_soon comes from the user's notification
// settings.
func Deadlines(db *gorm.DB, user models.User, now time.Time) ([]Deadline, error) {
	window := time.Duration(user.NotificationSettings.DaysBeforeDeadline) * 24 * time.Hour

	obligations, err := History(db, user.ID)
	if err != nil {
		return nil, err
	}

	submitted := make(map[string]bool, len(obligations))
	for _, o := range obligations {
		if o.Status == models.StatusSubmitted {
			submitted[fmt.Sprintf("%04d-%02d", o.Year, o.Month)] = true
		}
	}

	deadlines := make([]Deadline, 0, 13)

	// The current month is still open for business, its filing only
	// becomes relevant once the month has ended.
	month := types.MonthOf(now).AddDate(0, -12)
	for i := 0; i < 12; i++ {
		due := MonthlyDue(month)

		deadlines = append(deadlines, Deadline{
			Kind:   "monthly",
			Period: month.String(),
			Due:    due,
			Status: standing(submitted[month.String()], due, now, window),
		})

		month = month.AddDate(0, 1)
	}

	year := now.Year() - 1
	due := AnnualDue(year)

	// The annual declaration counts as submitted once every filed month
	// of the year has been submitted. Months without any activity never
	// get a filing, so only filed months are checked.
	annualDone := false
	for _, o := range obligations {
		if o.Year != year {
			continue
		}

		annualDone = o.Status == models.StatusSubmitted
		if !annualDone {
			break
		}
	}

	deadlines = append(deadlines, Deadline{
		Kind:   "annual",
		Period: fmt.Sprintf("%04d", year),
		Due:    due,
		Status: standing(annualDone, due, now, window),
	})

	return deadlines, nil
}

func standing(submitted bool, due, now time.Time, window time.Duration) DeadlineStatus {
	switch {
	case submitted:
		return DeadlineSubmitted
	case now.After(due):
		return DeadlineOverdue
	case now.Add(window).After(due):
		return DeadlineDueSoon
	}

	return DeadlineOpen
}
