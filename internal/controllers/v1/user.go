package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/httputil"
	"github.com/meicontrol/backend/internal/models"
)

// RegisterUserRoutes registers the routes for the authenticated user's
// own account with the RouterGroup that is passed.
func RegisterUserRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPatch)
	r.GET("", GetUser)
	r.PATCH("", UpdateUser)

	r.OPTIONS("/settings", httputil.OptionsGetPatch)
	r.GET("/settings", GetSettings)
	r.PATCH("/settings", UpdateSettings)
}

// GetUser returns the authenticated user's account
//
//	@Summary		Get user
//	@Description	Returns the account of the authenticated user
//	@Tags			User
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	httpError
//	@Router			/v1/user [get]
//	@Security		BearerAuth
func GetUser(c *gin.Context) {
	data := newUser(c, currentUser(c))
	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// UpdateUser updates the profile of the authenticated user
//
//	@Summary		Update user
//	@Description	Updates the profile. Only values to be updated need to be specified.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	UserResponse
//	@Failure		401		{object}	httpError
//	@Failure		500		{object}	UserResponse
//	@Param			user	body		UserEditable	true	"User"
//	@Router			/v1/user [patch]
//	@Security		BearerAuth
func UpdateUser(c *gin.Context) {
	user := currentUser(c)

	updateFields, err := httputil.GetBodyFields(c, UserEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var update UserEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	err = models.DB.Model(&user).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(c, user)
	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// GetSettings returns the notification settings
//
//	@Summary		Get settings
//	@Description	Returns the notification settings of the authenticated user
//	@Tags			User
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		401	{object}	httpError
//	@Router			/v1/user/settings [get]
//	@Security		BearerAuth
func GetSettings(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, SettingsResponse{Data: &user.NotificationSettings})
}

// UpdateSettings updates the notification settings
//
//	@Summary		Update settings
//	@Description	Updates the notification settings. Unknown settings are rejected, not stored.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	SettingsResponse
//	@Failure		400			{object}	SettingsResponse
//	@Failure		401			{object}	httpError
//	@Failure		500			{object}	SettingsResponse
//	@Param			settings	body		models.NotificationSettings	true	"Settings"
//	@Router			/v1/user/settings [patch]
//	@Security		BearerAuth
func UpdateSettings(c *gin.Context) {
	user := currentUser(c)

	settings := user.NotificationSettings
	err := httputil.BindData(c, &settings)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{Error: &e})
		return
	}

	if settings.DaysBeforeDeadline < 1 || settings.DaysBeforeDeadline > 30 {
		e := "daysBeforeDeadline must be between 1 and 30"
		c.JSON(http.StatusBadRequest, SettingsResponse{Error: &e})
		return
	}

	err = models.DB.Model(&user).
		Select("notify_email_reminders", "notify_days_before_deadline").
		Updates(models.User{NotificationSettings: settings}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{Data: &settings})
}
