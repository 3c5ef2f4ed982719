package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hairline/internal/models/request_models"
	"hairline/internal/models/response_models"
	"hairline/internal/services"
	"hairline/pkg/middleware"
	"hairline/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a patient account on the backend and log this session in
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Browser session id"
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	sess, err := a.accountService.Register(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewSessionResponse(sess), "Account created successfully")
}

// Login godoc
// @Summary Login
// @Description Authenticate against the backend and attach the tokens to this session
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Browser session id"
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	sess, err := a.accountService.Login(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewSessionResponse(sess), "Login successful")
}

// Logout godoc
// @Summary Logout
// @Description Drop the backend tokens; in-progress flows are kept
// @Tags Auth
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /auth/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	if err := a.accountService.Logout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Logged out")
}

// Session godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Param X-Session-ID header string false "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /auth/session [get]
func (a *AccountController) Session(c *gin.Context) {
	utils.RespondSuccess(c, response_models.NewSessionResponse(middleware.CurrentSession(c)), "")
}
