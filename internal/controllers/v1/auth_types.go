package v1

// RegisterEditable are the fields a user sets when creating an account.
type RegisterEditable struct {
	Email    string `json:"email" example:"maria@example.com" binding:"required"` // Email address, also the login name
	Password string `json:"password" example:"hunter2hunter2" binding:"required"` // Password with at least 8 characters

	Name        string `json:"name" example:"Maria da Silva"`                 // Display name
	CNPJ        string `json:"cnpj" example:"12.345.678/0001-95"`             // CNPJ of the MEI, optional at registration
	LegalName   string `json:"legalName" example:"Maria da Silva 12345678901"` // Legal name of the MEI
	TradeName   string `json:"tradeName" example:"Doces da Maria"`             // Trade name of the MEI
	MEICategory string `json:"meiCategory" example:"comercio"`                 // Main activity: comercio, servicos or industria
}

// LoginEditable are the login credentials.
type LoginEditable struct {
	Email    string `json:"email" example:"maria@example.com" binding:"required"`
	Password string `json:"password" example:"hunter2hunter2" binding:"required"`
}

type LoginData struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."` // Bearer token for the Authorization header
	User  User   `json:"user"`                                    // The account the token was issued for
}

type LoginResponse struct {
	Error *string    `json:"error" example:"the email address or the password is incorrect"` // The error, if any occurred
	Data  *LoginData `json:"data"`                                                           // The session data, if login was successful
}
