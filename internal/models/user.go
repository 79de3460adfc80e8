package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Plan is the subscription plan of a user.
type Plan string

const (
	PlanBasic    Plan = "basic"
	PlanAdvanced Plan = "advanced"
)

// PaymentStatus is the state of the subscription payment.
type PaymentStatus string

const (
	PaymentActive    PaymentStatus = "active"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// NotificationSettings is the fixed set of notification options a user
// can configure. Every recognized option is a field with a default,
// there is no free-form configuration blob.
type NotificationSettings struct {
	EmailReminders     bool `json:"emailReminders" default:"true"`                           // Send deadline reminders by email
	DaysBeforeDeadline int  `json:"daysBeforeDeadline" example:"5" minimum:"1" maximum:"30"` // How many days before a deadline reminders start
}

// DefaultNotificationSettings returns the defaults applied at registration.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailReminders:     true,
		DaysBeforeDeadline: 5,
	}
}

// User is a registered MEI account. All ledger entries, fiscal
// documents and filings are exclusively owned by one user.
type User struct {
	DefaultModel
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Name string

	// The CNPJ is optional at registration, only set values must be
	// unique.
	CNPJ string `gorm:"uniqueIndex:,where:cnpj <> ''"`
	LegalName    string
	TradeName    string
	MEICategory  string // comercio, servicos or industria

	Plan          Plan
	PaymentStatus PaymentStatus
	PlanExpiry    *time.Time

	Admin  bool
	Active bool

	NotificationSettings NotificationSettings `gorm:"embedded;embeddedPrefix:notify_"`
}

// BeforeSave validates the subscription fields and trims whitespace
// from all strings.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	u.Name = strings.TrimSpace(u.Name)
	u.CNPJ = strings.TrimSpace(u.CNPJ)
	u.LegalName = strings.TrimSpace(u.LegalName)
	u.TradeName = strings.TrimSpace(u.TradeName)
	u.MEICategory = strings.TrimSpace(u.MEICategory)

	if u.Plan == "" {
		u.Plan = PlanBasic
	}

	if u.PaymentStatus == "" {
		u.PaymentStatus = PaymentActive
	}

	if !slices.Contains([]Plan{PlanBasic, PlanAdvanced}, u.Plan) {
		return ErrPlanInvalid
	}

	if !slices.Contains([]PaymentStatus{PaymentActive, PaymentOverdue, PaymentCancelled}, u.PaymentStatus) {
		return ErrPaymentStatusInvalid
	}

	return nil
}

// SetPassword hashes the password with bcrypt and stores the hash.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// PlanActive reports whether the user's subscription allows using the
// bookkeeping features. An expired plan counts as overdue regardless of
// the stored payment status.
func (u User) PlanActive(now time.Time) bool {
	if u.PaymentStatus != PaymentActive {
		return false
	}

	if u.PlanExpiry != nil && u.PlanExpiry.Before(now) {
		return false
	}

	return true
}
