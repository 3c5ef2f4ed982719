package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"hairline/internal/models/request_models"
	"hairline/internal/services"
	"hairline/pkg/middleware"
	"hairline/pkg/utils"
)

type BookingController struct {
	bookingService services.BookingServiceInterface
}

func NewBookingController(bookingService services.BookingServiceInterface) *BookingController {
	return &BookingController{bookingService: bookingService}
}

// Slots godoc
// @Summary Free slots of a doctor on a date
// @Tags Booking
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param date query string true "YYYY-MM-DD"
// @Param doctor_id query int true "Doctor id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking/slots [get]
func (b *BookingController) Slots(c *gin.Context) {
	var q request_models.SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "date and doctor_id are required")
		return
	}

	slots, err := b.bookingService.Slots(c.Request.Context(), middleware.CurrentSession(c), q.Date, q.DoctorID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, slots, "")
}

// State godoc
// @Summary Current booking state
// @Tags Booking
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking [get]
func (b *BookingController) State(c *gin.Context) {
	resp, err := b.bookingService.State(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Select godoc
// @Summary Select a slot and check eligibility
// @Description Leads to confirm_new, or offer_reschedule when an active appointment with the same doctor exists
// @Tags Booking
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.SelectSlotRequest true "Slot"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking/select [post]
func (b *BookingController) Select(c *gin.Context) {
	var req request_models.SelectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := b.bookingService.Select(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Book godoc
// @Summary Book the selected slot
// @Tags Booking
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.BookRequest true "Payment"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking/book [post]
func (b *BookingController) Book(c *gin.Context) {
	var req request_models.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := b.bookingService.Book(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Appointment requested")
}

// Retry godoc
// @Summary Resend the last failed booking attempt
// @Description Reuses the idempotency key of the pending attempt. Card payments need the card again.
// @Tags Booking
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.RetryRequest false "Card, for card payments"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking/retry [post]
func (b *BookingController) Retry(c *gin.Context) {
	// the body is optional: only card payments resend card data
	var req request_models.RetryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := b.bookingService.Retry(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Appointment requested")
}

// Reschedule godoc
// @Summary Move the active appointment to the selected slot
// @Tags Booking
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking/reschedule [post]
func (b *BookingController) Reschedule(c *gin.Context) {
	resp, err := b.bookingService.Reschedule(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Appointment rescheduled")
}

// DeclineReschedule godoc
// @Summary Book a new appointment instead of rescheduling
// @Tags Booking
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking/decline-reschedule [post]
func (b *BookingController) DeclineReschedule(c *gin.Context) {
	resp, err := b.bookingService.DeclineReschedule(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Reset godoc
// @Summary Discard the booking flow
// @Tags Booking
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Security SessionAuth
// @Router /booking [delete]
func (b *BookingController) Reset(c *gin.Context) {
	if err := b.bookingService.Reset(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Booking reset")
}

// Appointments godoc
// @Summary Appointments of the logged-in patient
// @Tags Appointments
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Security SessionAuth
// @Router /appointments [get]
func (b *BookingController) Appointments(c *gin.Context) {
	list, err := b.bookingService.Appointments(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, list, "")
}

// Cancel godoc
// @Summary Cancel an appointment
// @Description Only appointments at least 24 hours away can be cancelled
// @Tags Appointments
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param id path int true "Appointment id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security SessionAuth
// @Router /appointments/{id}/cancel [post]
func (b *BookingController) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid appointment id")
		return
	}

	appt, err := b.bookingService.Cancel(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, appt, "Appointment cancelled")
}
