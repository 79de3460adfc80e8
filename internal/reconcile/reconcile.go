// Package reconcile suggests and confirms links between fiscal
// documents and ledger entries of the same user.
package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meicontrol/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxSuggestions caps the number of candidate pairs returned.
const MaxSuggestions = 10

// maxDayDistance is the largest acceptable difference between the
// document issue date and the entry date.
const maxDayDistance = 7

var (
	ErrDirectionMismatch = errors.New("the entry kind does not match the document direction")
	ErrDocumentLinked    = errors.New("the fiscal document is already linked to an entry")
	ErrEntryLinked       = errors.New("the entry is already linked to a fiscal document")
)

// Suggestion is one candidate pairing of an unlinked fiscal document
// with an unlinked ledger entry.
type Suggestion struct {
	Document    models.FiscalDocument `json:"document"`
	Entry       models.LedgerEntry    `json:"entry"`
	Kind        models.EntryKind      `json:"kind"`
	DayDistance int                   `json:"dayDistance"`
	Confidence  int                   `json:"confidence"` // 0 to 100, derived from the day distance only
	Reason      string                `json:"reason"`
}

// Suggestions pairs the user's unlinked fiscal documents with unlinked
// ledger entries of the matching kind.
//
// A pair qualifies when the entry amount is within ±10% of the document
// total and the dates are at most seven days apart. A document with a
// zero total is never suggested. The same document or entry may appear
// in multiple pairs, exclusivity is only enforced by Link.
func Suggestions(db *gorm.DB, userID uuid.UUID) ([]Suggestion, error) {
	var documents []models.FiscalDocument
	err := db.
		Where(&models.FiscalDocument{UserID: userID}).
		Where("linked_income = false AND linked_expense = false").
		Where("total > 0").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0)
	for _, document := range documents {
		kind := document.Direction.EntryKind()

		lower := document.Total.Mul(decimal.NewFromFloat(0.9))
		upper := document.Total.Mul(decimal.NewFromFloat(1.1))

		var entries []models.LedgerEntry
		err := db.
			Where(&models.LedgerEntry{UserID: userID, Kind: kind}).
			Where("document_id IS NULL").
			Where("amount > 0").
			Where("amount BETWEEN ? AND ?", lower, upper).
			Find(&entries).Error
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			distance := dayDistance(document.IssueDate, entry.Date)
			if distance > maxDayDistance {
				continue
			}

			confidence := 100 - 10*distance
			if confidence < 0 {
				confidence = 0
			}

			suggestions = append(suggestions, Suggestion{
				Document:    document,
				Entry:       entry,
				Kind:        kind,
				DayDistance: distance,
				Confidence:  confidence,
				Reason:      fmt.Sprintf("Similar amount (R$ %s) and close date (%d days apart)", entry.Amount.StringFixed(2), distance),
			})
		}
	}

	// Sort by descending confidence. The sort is stable so that ties
	// keep the iteration order of the candidate sets.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}

	return suggestions, nil
}

// Link confirms a pairing. It sets the entry's document reference and
// the document's link flag in one transaction so that a crash cannot
// leave them disagreeing.
func Link(db *gorm.DB, userID, documentID, entryID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var document models.FiscalDocument
		err := tx.First(&document, "id = ? AND user_id = ?", documentID, userID).Error
		if err != nil {
			return err
		}

		var entry models.LedgerEntry
		err = tx.First(&entry, "id = ? AND user_id = ?", entryID, userID).Error
		if err != nil {
			return err
		}

		if document.Direction.EntryKind() != entry.Kind {
			return ErrDirectionMismatch
		}

		if document.Linked() {
			return ErrDocumentLinked
		}

		if entry.DocumentID != nil {
			return ErrEntryLinked
		}

		err = tx.Model(&entry).Update("document_id", document.ID).Error
		if err != nil {
			return err
		}

		flag := "linked_income"
		if entry.Kind == models.KindExpense {
			flag = "linked_expense"
		}

		return tx.Model(&document).Update(flag, true).Error
	})
}

// dayDistance returns the absolute difference in calendar days.
func dayDistance(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	distance := int(a.Sub(b).Hours() / 24)
	if distance < 0 {
		distance = -distance
	}

	return distance
}
