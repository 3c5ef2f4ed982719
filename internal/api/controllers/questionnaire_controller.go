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

type QuestionnaireController struct {
	questionnaireService services.QuestionnaireServiceInterface
}

func NewQuestionnaireController(questionnaireService services.QuestionnaireServiceInterface) *QuestionnaireController {
	return &QuestionnaireController{questionnaireService: questionnaireService}
}

// Current godoc
// @Summary Current questionnaire state
// @Tags Questionnaire
// @Produce json
// @Param X-Session-ID header string false "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /questionnaire [get]
func (q *QuestionnaireController) Current(c *gin.Context) {
	resp, err := q.questionnaireService.Current(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Answer godoc
// @Summary Answer the current question
// @Description Multiple-choice questions accept several values
// @Tags Questionnaire
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.AnswerRequest true "Selected option values"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /questionnaire/answer [post]
func (q *QuestionnaireController) Answer(c *gin.Context) {
	var req request_models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := q.questionnaireService.Answer(c.Request.Context(), middleware.CurrentSession(c), req.Values)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Answer recorded")
}

// Next godoc
// @Summary Advance to the next question
// @Tags Questionnaire
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /questionnaire/next [post]
func (q *QuestionnaireController) Next(c *gin.Context) {
	resp, err := q.questionnaireService.Next(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Back godoc
// @Summary Go back one question
// @Tags Questionnaire
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /questionnaire/back [post]
func (q *QuestionnaireController) Back(c *gin.Context) {
	resp, err := q.questionnaireService.Back(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Submit godoc
// @Summary Submit the completed questionnaire
// @Tags Questionnaire
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /questionnaire/submit [post]
func (q *QuestionnaireController) Submit(c *gin.Context) {
	resp, err := q.questionnaireService.Submit(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Questionnaire submitted")
}

// Reset godoc
// @Summary Discard the questionnaire
// @Tags Questionnaire
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /questionnaire [delete]
func (q *QuestionnaireController) Reset(c *gin.Context) {
	if err := q.questionnaireService.Reset(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Questionnaire reset")
}

// History godoc
// @Summary Past questionnaires of the logged-in patient
// @Tags Questionnaire
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /questionnaire/history [get]
func (q *QuestionnaireController) History(c *gin.Context) {
	records, err := q.questionnaireService.History(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.QuestionnaireHistoryResponse{Records: records}, "")
}
