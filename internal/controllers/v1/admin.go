package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/httputil"
	"github.com/meicontrol/backend/internal/models"
)

// RegisterAdminRoutes registers the administrative routes with the
// RouterGroup that is passed. The group must be guarded by the admin
// middleware.
func RegisterAdminRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/metrics", httputil.OptionsGet)
	r.GET("/metrics", GetAdminMetrics)
}

// AdminMetrics are aggregate usage numbers over all accounts.
type AdminMetrics struct {
	Users         int64 `json:"users" example:"42"`         // Total number of accounts
	ActiveUsers   int64 `json:"activeUsers" example:"40"`   // Accounts that are not deactivated
	AdvancedPlans int64 `json:"advancedPlans" example:"12"` // Accounts on the advanced plan
	OverduePlans  int64 `json:"overduePlans" example:"3"`   // Accounts with an overdue or cancelled payment

	Entries     int64 `json:"entries" example:"1337"`   // Total number of ledger entries
	Documents   int64 `json:"documents" example:"256"`  // Total number of fiscal documents
	Obligations int64 `json:"obligations" example:"80"` // Total number of monthly filings

	SubmittedThisMonth int64 `json:"submittedThisMonth" example:"17"` // Filings submitted in the current calendar month
}

type AdminMetricsResponse struct {
	Error *string       `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
	Data  *AdminMetrics `json:"data"`                                                                // The usage numbers
}

// GetAdminMetrics returns usage numbers over all accounts
//
//	@Summary		Admin metrics
//	@Description	Returns aggregate usage numbers over all accounts. Restricted to administrators.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	AdminMetricsResponse
//	@Failure		403	{object}	httpError
//	@Failure		500	{object}	AdminMetricsResponse
//	@Router			/v1/admin/metrics [get]
//	@Security		BearerAuth
func GetAdminMetrics(c *gin.Context) {
	var metrics AdminMetrics

	counts := []func() error{
		func() error {
			return models.DB.Model(&models.User{}).Count(&metrics.Users).Error
		},
		func() error {
			return models.DB.Model(&models.User{}).Where("active = true").Count(&metrics.ActiveUsers).Error
		},
		func() error {
			return models.DB.Model(&models.User{}).Where("plan = ?", models.PlanAdvanced).Count(&metrics.AdvancedPlans).Error
		},
		func() error {
			return models.DB.Model(&models.User{}).Where("payment_status <> ?", models.PaymentActive).Count(&metrics.OverduePlans).Error
		},
		func() error {
			return models.DB.Model(&models.LedgerEntry{}).Count(&metrics.Entries).Error
		},
		func() error {
			return models.DB.Model(&models.FiscalDocument{}).Count(&metrics.Documents).Error
		},
		func() error {
			return models.DB.Model(&models.MonthlyObligation{}).Count(&metrics.Obligations).Error
		},
		func() error {
			now := time.Now().In(time.UTC)
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

			return models.DB.Model(&models.MonthlyObligation{}).
				Where("submitted_at >= ?", start).
				Count(&metrics.SubmittedThisMonth).Error
		},
	}

	for _, count := range counts {
		if err := count(); err != nil {
			e := err.Error()
			c.JSON(status(err), AdminMetricsResponse{Error: &e})
			return
		}
	}

	c.JSON(http.StatusOK, AdminMetricsResponse{Data: &metrics})
}
