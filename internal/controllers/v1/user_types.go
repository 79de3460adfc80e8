package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/models"
)

// UserEditable are the profile fields a user can change themselves.
// Email, plan and payment state are deliberately not editable here.
type UserEditable struct {
	Name        string `json:"name" example:"Maria da Silva"`                  // Display name
	CNPJ        string `json:"cnpj" example:"12.345.678/0001-95"`              // CNPJ of the MEI
	LegalName   string `json:"legalName" example:"Maria da Silva 12345678901"` // Legal name of the MEI
	TradeName   string `json:"tradeName" example:"Doces da Maria"`             // Trade name of the MEI
	MEICategory string `json:"meiCategory" example:"comercio"`                 // Main activity: comercio, servicos or industria
}

// model returns the database resource for the API representation of the editable fields
func (editable UserEditable) model() models.User {
	return models.User{
		Name:        editable.Name,
		CNPJ:        editable.CNPJ,
		LegalName:   editable.LegalName,
		TradeName:   editable.TradeName,
		MEICategory: editable.MEICategory,
	}
}

type UserLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/user"`              // The user itself
	Settings string `json:"settings" example:"https://example.com/api/v1/user/settings"` // Notification settings
}

// User is the representation of an account in API v1.
type User struct {
	models.DefaultModel
	UserEditable
	Email         string               `json:"email" example:"maria@example.com"` // Email address, also the login name
	Plan          models.Plan          `json:"plan" example:"basic"`              // Subscription plan
	PaymentStatus models.PaymentStatus `json:"paymentStatus" example:"active"`    // State of the subscription payment
	Admin         bool                 `json:"admin" example:"false"`             // Is the user an administrator?

	NotificationSettings models.NotificationSettings `json:"notificationSettings"`

	Links UserLinks `json:"links"`
}

// newUser returns the API v1 representation of the resource
func newUser(c *gin.Context, model models.User) User {
	url := c.GetString(string(models.DBContextURL))

	return User{
		DefaultModel: model.DefaultModel,
		UserEditable: UserEditable{
			Name:        model.Name,
			CNPJ:        model.CNPJ,
			LegalName:   model.LegalName,
			TradeName:   model.TradeName,
			MEICategory: model.MEICategory,
		},
		Email:                model.Email,
		Plan:                 model.Plan,
		PaymentStatus:        model.PaymentStatus,
		Admin:                model.Admin,
		NotificationSettings: model.NotificationSettings,
		Links: UserLinks{
			Self:     fmt.Sprintf("%s/v1/user", url),
			Settings: fmt.Sprintf("%s/v1/user/settings", url),
		},
	}
}

type UserResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *User   `json:"data"`                                                          // The account data
}

type SettingsResponse struct {
	Error *string                      `json:"error" example:"the request body must not be empty"` // The error, if any occurred
	Data  *models.NotificationSettings `json:"data"`                                               // The notification settings
}
