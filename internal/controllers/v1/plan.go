package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/httputil"
	"github.com/meicontrol/backend/internal/models"
	"github.com/shopspring/decimal"
)

// RegisterPlanRoutes registers the routes for subscription plans with
// the RouterGroup that is passed.
func RegisterPlanRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetPlans)

	r.OPTIONS("/subscribe", httputil.OptionsPost)
	r.POST("/subscribe", Subscribe)
}

// PlanInfo describes one subscription plan.
type PlanInfo struct {
	Name         models.Plan     `json:"name" example:"advanced"`      // Plan identifier
	MonthlyPrice decimal.Decimal `json:"monthlyPrice" example:"19.90"` // Price per month in BRL
	Features     []string        `json:"features"`                     // What the plan includes
}

type PlanListResponse struct {
	Error *string    `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
	Data  []PlanInfo `json:"data"`                                                                // The available plans
}

// SubscribeEditable is the body for changing the subscription plan.
type SubscribeEditable struct {
	Plan models.Plan `json:"plan" example:"advanced" binding:"required"` // The plan to subscribe to
}

// plans are the available subscriptions. Prices are maintained here
// until billing moves to an external provider.
var plans = []PlanInfo{
	{
		Name:         models.PlanBasic,
		MonthlyPrice: decimal.RequireFromString("9.90"),
		Features: []string{
			"Ledger for income and expenses",
			"Monthly gross revenue report",
		},
	},
	{
		Name:         models.PlanAdvanced,
		MonthlyPrice: decimal.RequireFromString("19.90"),
		Features: []string{
			"Everything in the basic plan",
			"Fiscal document upload and extraction",
			"Reconciliation suggestions",
			"PDF and spreadsheet export",
			"Annual declaration rollup",
		},
	},
}

// GetPlans returns the available subscription plans
//
//	@Summary		Get plans
//	@Description	Returns the available subscription plans with prices and features
//	@Tags			Plans
//	@Produce		json
//	@Success		200	{object}	PlanListResponse
//	@Router			/v1/plans [get]
//	@Security		BearerAuth
func GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, PlanListResponse{Data: plans})
}

// Subscribe changes the authenticated user's plan
//
//	@Summary		Subscribe
//	@Description	Changes the subscription plan of the authenticated user and extends the plan by 30 days. Payment handling is out of scope, the subscription is recorded as paid.
//	@Tags			Plans
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	UserResponse
//	@Failure		500		{object}	UserResponse
//	@Param			plan	body		SubscribeEditable	true	"Plan"
//	@Router			/v1/plans/subscribe [post]
//	@Security		BearerAuth
func Subscribe(c *gin.Context) {
	var editable SubscribeEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	if editable.Plan != models.PlanBasic && editable.Plan != models.PlanAdvanced {
		e := models.ErrPlanInvalid.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &e})
		return
	}

	user := currentUser(c)

	expiry := time.Now().In(time.UTC).AddDate(0, 0, 30)
	if user.PlanExpiry != nil && user.PlanExpiry.After(time.Now()) && user.Plan == editable.Plan {
		// Renewing early extends the current period instead of
		// shortening it
		expiry = user.PlanExpiry.AddDate(0, 0, 30)
	}

	err = models.DB.Model(&user).
		Select("plan", "payment_status", "plan_expiry").
		Updates(models.User{
			Plan:          editable.Plan,
			PaymentStatus: models.PaymentActive,
			PlanExpiry:    &expiry,
		}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(c, user)
	c.JSON(http.StatusOK, UserResponse{Data: &data})
}
