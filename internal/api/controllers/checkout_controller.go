package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hairline/internal/backend"
	"hairline/internal/models/request_models"
	"hairline/internal/services"
	"hairline/pkg/middleware"
	"hairline/pkg/utils"
)

type CheckoutController struct {
	checkoutService services.CheckoutServiceInterface
}

func NewCheckoutController(checkoutService services.CheckoutServiceInterface) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// State godoc
// @Summary Current checkout state with an advisory price preview
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string false "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /checkout [get]
func (ch *CheckoutController) State(c *gin.Context) {
	resp, err := ch.checkoutService.State(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// SelectPlan godoc
// @Summary Choose plan, billing cycle and products
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.PlanRequest true "Plan selection"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /checkout/plan [post]
func (ch *CheckoutController) SelectPlan(c *gin.Context) {
	var req request_models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := ch.checkoutService.SelectPlan(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Plan selected")
}

// SetIdentity godoc
// @Summary Patient identity step
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.IdentityRequest true "Identity"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /checkout/identity [post]
func (ch *CheckoutController) SetIdentity(c *gin.Context) {
	var req request_models.IdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := ch.checkoutService.SetIdentity(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Identity saved")
}

// SetAddress godoc
// @Summary Delivery address step
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body backend.Address true "Address"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /checkout/address [post]
func (ch *CheckoutController) SetAddress(c *gin.Context) {
	var req backend.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := ch.checkoutService.SetAddress(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Address saved")
}

// SelectPaymentMethod godoc
// @Summary Choose the payment method
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.PaymentMethodRequest true "credit_card or pix"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /checkout/payment [post]
func (ch *CheckoutController) SelectPaymentMethod(c *gin.Context) {
	var req request_models.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := ch.checkoutService.SelectPaymentMethod(c.Request.Context(), middleware.CurrentSession(c), req.PaymentMethod)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Payment method selected")
}

// ApplyCoupon godoc
// @Summary Validate and apply a coupon
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.CouponRequest true "Coupon code"
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /checkout/coupon [post]
func (ch *CheckoutController) ApplyCoupon(c *gin.Context) {
	var req request_models.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := ch.checkoutService.ApplyCoupon(c.Request.Context(), middleware.CurrentSession(c), req.Code)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Coupon applied")
}

// RemoveCoupon godoc
// @Summary Remove the applied coupon
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /checkout/coupon [delete]
func (ch *CheckoutController) RemoveCoupon(c *gin.Context) {
	resp, err := ch.checkoutService.RemoveCoupon(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Coupon removed")
}

// Back godoc
// @Summary Go back one checkout step
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /checkout/back [post]
func (ch *CheckoutController) Back(c *gin.Context) {
	resp, err := ch.checkoutService.Back(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Total godoc
// @Summary Advisory total
// @Description Base fee plus products minus coupon. The amount actually charged is returned by purchase.
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /checkout/total [get]
func (ch *CheckoutController) Total(c *gin.Context) {
	preview, err := ch.checkoutService.Total(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, preview, "")
}

// Purchase godoc
// @Summary Pay and place the order
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Browser session id"
// @Param request body request_models.PurchaseRequest true "Payment"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security SessionAuth
// @Router /checkout/purchase [post]
func (ch *CheckoutController) Purchase(c *gin.Context) {
	var req request_models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	receipt, err := ch.checkoutService.Purchase(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, receipt, "Purchase completed")
}

// Abandon godoc
// @Summary Abandon the checkout
// @Tags Checkout
// @Param X-Session-ID header string true "Browser session id"
// @Success 200 {object} utils.APIResponse
// @Router /checkout [delete]
func (ch *CheckoutController) Abandon(c *gin.Context) {
	if err := ch.checkoutService.Abandon(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Checkout abandoned")
}
