package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hairline/internal/models/request_models"
	"hairline/internal/services"
	"hairline/pkg/utils"
)

type ProtocolController struct {
	protocolService services.ProtocolServiceInterface
}

func NewProtocolController(protocolService services.ProtocolServiceInterface) *ProtocolController {
	return &ProtocolController{protocolService: protocolService}
}

// Calculate godoc
// @Summary Compute a treatment protocol
// @Description Runs the local rule engine over an answer map. The result is advisory; the backend recommendation is authoritative.
// @Tags Protocol
// @Accept json
// @Produce json
// @Param request body request_models.CalculateRequest true "Answer map"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /protocol/calculate [post]
func (p *ProtocolController) Calculate(c *gin.Context) {
	var req request_models.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	utils.RespondSuccess(c, p.protocolService.Calculate(req.Answers), "Protocol calculated")
}
