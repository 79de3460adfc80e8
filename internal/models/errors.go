package models

import "errors"

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// User errors
var (
	ErrEmailNotUnique       = errors.New("an account with this email address already exists")
	ErrCNPJNotUnique        = errors.New("an account with this CNPJ already exists")
	ErrPlanInvalid          = errors.New("the plan must be one of: basic, advanced")
	ErrPaymentStatusInvalid = errors.New("the payment status must be one of: active, overdue, cancelled")
)

// LedgerEntry errors
var (
	ErrEntryKindInvalid       = errors.New("the entry kind must be either income or expense")
	ErrEntryAmountNotPositive = errors.New("the amount must be larger than zero")
	ErrEntryCategoryInvalid   = errors.New("the category is not valid for this entry kind")
)

// FiscalDocument errors
var (
	ErrDocumentDirectionInvalid = errors.New("the document direction must be either inbound or outbound")
	ErrDocumentTotalNegative    = errors.New("the document total must not be negative")
	ErrDocumentDoubleLinked     = errors.New("a fiscal document can be linked to an income or an expense entry, not both")
)

// MonthlyObligation errors
var (
	ErrObligationMonthInvalid   = errors.New("the month must be between 1 and 12")
	ErrObligationYearInvalid    = errors.New("the year must be 2009 or later")
	ErrObligationStatusInvalid  = errors.New("the status must be one of: draft, final, submitted")
	ErrObligationStatusRegress  = errors.New("the status of a filing can only advance, not regress")
	ErrObligationMonthNotUnique = errors.New("there already is a filing for this month")
)
