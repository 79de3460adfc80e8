package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meicontrol/backend/internal/auth"
	"github.com/meicontrol/backend/internal/config"
	"github.com/meicontrol/backend/internal/httputil"
	"github.com/meicontrol/backend/internal/models"
)

// RegisterAuthRoutes registers the routes for registration and login
// with the RouterGroup that is passed.
func RegisterAuthRoutes(cfg config.Config, r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", Register(cfg))

	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", Login(cfg))
}

// Register creates the account and immediately issues a session token
//
//	@Summary		Register
//	@Description	Creates a new account and returns a session token for it
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		201		{object}	LoginResponse
//	@Failure		400		{object}	LoginResponse
//	@Failure		500		{object}	LoginResponse
//	@Param			account	body		RegisterEditable	true	"Account"
//	@Router			/v1/auth/register [post]
func Register(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var editable RegisterEditable
		err := httputil.BindData(c, &editable)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), LoginResponse{Error: &e})
			return
		}

		if editable.Email == "" {
			e := errEmailNotSet.Error()
			c.JSON(http.StatusBadRequest, LoginResponse{Error: &e})
			return
		}

		if len(editable.Password) < 8 {
			e := errPasswordTooShort.Error()
			c.JSON(http.StatusBadRequest, LoginResponse{Error: &e})
			return
		}

		user := models.User{
			Email:                editable.Email,
			Name:                 editable.Name,
			CNPJ:                 editable.CNPJ,
			LegalName:            editable.LegalName,
			TradeName:            editable.TradeName,
			MEICategory:          editable.MEICategory,
			Active:               true,
			NotificationSettings: models.DefaultNotificationSettings(),
		}

		err = user.SetPassword(editable.Password)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, LoginResponse{Error: &e})
			return
		}

		err = models.DB.Create(&user).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), LoginResponse{Error: &e})
			return
		}

		token, err := auth.NewToken(cfg.JWTSecret, user.ID, cfg.JWTExpiry)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, LoginResponse{Error: &e})
			return
		}

		data := LoginData{Token: token, User: newUser(c, user)}
		c.JSON(http.StatusCreated, LoginResponse{Data: &data})
	}
}

// Login issues a session token for existing credentials
//
//	@Summary		Login
//	@Description	Verifies the credentials and returns a session token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	LoginResponse
//	@Failure		400			{object}	LoginResponse
//	@Failure		401			{object}	LoginResponse
//	@Param			credentials	body		LoginEditable	true	"Credentials"
//	@Router			/v1/auth/login [post]
func Login(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var editable LoginEditable
		err := httputil.BindData(c, &editable)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), LoginResponse{Error: &e})
			return
		}

		var user models.User
		err = models.DB.First(&user, "email = ?", strings.TrimSpace(strings.ToLower(editable.Email))).Error

		// The password check runs even when the account does not exist
		// so that the timing does not reveal whether the email is known.
		if err != nil || !user.CheckPassword(editable.Password) || !user.Active {
			e := errCredentialsInvalid.Error()
			c.JSON(http.StatusUnauthorized, LoginResponse{Error: &e})
			return
		}

		token, err := auth.NewToken(cfg.JWTSecret, user.ID, cfg.JWTExpiry)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusInternalServerError, LoginResponse{Error: &e})
			return
		}

		data := LoginData{Token: token, User: newUser(c, user)}
		c.JSON(http.StatusOK, LoginResponse{Data: &data})
	}
}
