package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status   string      `json:"status"`
	Code     int         `json:"code"`
	Message  string      `json:"message,omitempty"`
	TraceID  string      `json:"trace_id,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Field    string      `json:"field,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service errors onto the browser-facing taxonomy:
// validation (400), authentication (401 + redirect), business (409/422) and
// backend/unknown (502/500).
func HandleServiceError(c *gin.Context, err error) {
	resp := APIResponse{Status: "error", TraceID: traceID(c)}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Code = http.StatusBadRequest
		resp.Message = verr.Message
		resp.Field = verr.Field
	case errors.Is(err, ErrValidation):
		resp.Code = http.StatusBadRequest
		resp.Message = err.Error()
	case errors.Is(err, ErrUnauthorized):
		resp.Code = http.StatusUnauthorized
		resp.Message = "Session expired, please log in again"
		resp.Redirect = "/login"
	case errors.Is(err, RecordNotFound):
		resp.Code = http.StatusNotFound
		resp.Message = "Not found"
	case errors.Is(err, ErrConflict):
		resp.Code = http.StatusConflict
		resp.Message = err.Error()
	case errors.Is(err, ErrCouponInvalid),
		errors.Is(err, ErrRescheduleWindow),
		errors.Is(err, ErrCancelWindow),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrNoPendingAttempt),
		errors.Is(err, ErrRejected):
		resp.Code = http.StatusUnprocessableEntity
		resp.Message = err.Error()
	case errors.Is(err, ErrBackendUnavailable):
		zap.L().Warn("backend unavailable", zap.String("trace_id", resp.TraceID), zap.Error(err))
		resp.Code = http.StatusBadGateway
		resp.Message = "Service temporarily unavailable, please try again"
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.String("trace_id", resp.TraceID), zap.Error(err))
		resp.Code = http.StatusInternalServerError
		resp.Message = "Internal server error"
	default:
		zap.L().Error("unknown error", zap.String("trace_id", resp.TraceID), zap.Error(err))
		resp.Code = http.StatusInternalServerError
		resp.Message = "Internal server error"
	}

	c.JSON(resp.Code, resp)
}
