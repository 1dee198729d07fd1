package api

import (
	"edunova/common"
	"edunova/config"
	"edunova/db"
	"edunova/models"
	"edunova/utils"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AccountsResponse wraps the public account list.
type AccountsResponse struct {
	Accounts []models.User `json:"accounts"`
}

// --- Login ---

// LoginHandler authenticates a user and returns a session token.
// @Summary      Log In
// @Description  Exchanges an email and password for the public user record and a bearer token.
// @Description  Email and password are compared exactly. Use the token in the `Authorization: Bearer <token>` header of protected endpoints.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body models.Credentials true "Login credentials"
// @Success      200  {object}  models.Session
// @Failure      400  {object}  utils.APIError "Malformed request body"
// @Failure      401  {object}  utils.APIError "Invalid email or password"
// @Failure      429  {object}  utils.APIError "Too many attempts"
// @Router       /auth/login [post]
func LoginHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := database.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.GinFromError(c, err)
		return
	}

	issueSession(c, http.StatusOK, acc.User(), cfg)
}

// --- Register ---

// RegisterHandler creates an account and logs it in.
// @Summary      Register
// @Description  Creates a learner account. The new account gets the next numeric id, a random avatar and today's join date.
// @Description  When `confirmPassword` is sent it must equal `password`.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        registration body models.Registration true "New account data"
// @Success      201  {object}  models.Session
// @Failure      400  {object}  utils.APIError "Missing fields or passwords do not match"
// @Failure      409  {object}  utils.APIError "Email already registered"
// @Router       /auth/register [post]
func RegisterHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	var req models.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		utils.GinFromError(c, common.ErrPasswordMismatch)
		return
	}

	acc, err := database.CreateAccount(req)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			utils.GinError(c, http.StatusConflict, common.ErrDuplicateEmail.Error())
			return
		}
		utils.GinFromError(c, err)
		return
	}

	issueSession(c, http.StatusCreated, acc.User(), cfg)
}

func issueSession(c *gin.Context, status int, user models.User, cfg *config.Config) {
	token, err := utils.GenerateJWT(user, cfg)
	if err != nil {
		utils.GinInternalServerError(c, "Failed to generate token")
		return
	}
	c.JSON(status, models.Session{User: user, Token: token})
}

// --- Logout ---

// LogoutHandler revokes the token used for the request.
// @Summary      Log Out
// @Description  Revokes the bearer token. Later requests with the same token are rejected.
// @Tags         Auth
// @Security     BearerAuth
// @Success      204  "Token revoked"
// @Failure      401  {object}  utils.APIError
// @Router       /auth/logout [post]
func LogoutHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	tokenID := c.GetString(utils.ContextTokenID)
	if tokenID == "" {
		utils.GinInternalServerError(c, "Token ID not found in context")
		return
	}

	expiry := time.Now().Add(cfg.TokenLifetime)
	if v, ok := c.Get(utils.ContextTokenExpiry); ok {
		if t, ok := v.(time.Time); ok {
			expiry = t
		}
	}
	database.RevokeToken(tokenID, expiry)
	c.Status(http.StatusNoContent)
}

// --- Me ---

// MeHandler returns the user the token belongs to.
// @Summary      Current User
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  utils.APIError
// @Failure      404  {object}  utils.APIError "Account no longer exists"
// @Router       /auth/me [get]
func MeHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		utils.GinInternalServerError(c, "User ID not found in context")
		return
	}
	acc, found := database.GetAccountByID(userID)
	if !found {
		utils.GinNotFound(c, "Authenticated account not found")
		return
	}
	c.JSON(http.StatusOK, acc.User())
}

// --- Accounts ---

// AccountsHandler lists every account without password material.
// @Summary      List Accounts
// @Description  Returns the public view of every account, ordered by id. Handy for demo logins.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  AccountsResponse
// @Router       /accounts [get]
func AccountsHandler(c *gin.Context, database *db.Database, cfg *config.Config) {
	c.JSON(http.StatusOK, AccountsResponse{Accounts: database.AllAccounts()})
}
