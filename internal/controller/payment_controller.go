package controller

import (
	"errors"
	"net/http"

	"pulsebeat_backend/internal/service"
	"pulsebeat_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
	AuthService    *service.AuthService
}

func NewPaymentController(paymentService *service.PaymentService, authService *service.AuthService) *PaymentController {
	return &PaymentController{
		PaymentService: paymentService,
		AuthService:    authService,
	}
}

type InitiatePaymentRequest struct {
	CartCode string `json:"cart_code" binding:"required"`
}

// InitiateFlutterwave godoc
// @Summary Start a Flutterwave checkout
// @Tags payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body InitiatePaymentRequest true "Cart code"
// @Success 200 {object} object "Flutterwave response with payment link"
// @Failure 404 {object} util.Response
// @Router /api/payments/flutterwave/initiate [post]
func (c *PaymentController) InitiateFlutterwave(ctx *gin.Context) {
	var req InitiatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.PaymentService.InitiateFlutterwave(ctx.Request.Context(), req.CartCode, user)
	if err != nil {
		if errors.Is(err, util.ErrCartNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.JSON(result.StatusCode, result.Body)
}

// FlutterwaveCallback godoc
// @Summary Flutterwave redirect callback
// @Tags payments
// @Produce json
// @Param status query string true "Provider status"
// @Param tx_ref query string true "Transaction reference"
// @Param transaction_id query string true "Provider transaction id"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Router /api/payments/flutterwave/callback [post]
func (c *PaymentController) FlutterwaveCallback(ctx *gin.Context) {
	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
	}

	message, subMessage, err := c.PaymentService.VerifyFlutterwave(
		ctx.Request.Context(),
		ctx.Query("status"),
		ctx.Query("tx_ref"),
		ctx.Query("transaction_id"),
		userID,
	)
	if err != nil {
		if errors.Is(err, util.ErrPaymentRejected) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Payment was not successful."})
			return
		}
		if errors.Is(err, util.ErrTransactionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": message, "subMessage": subMessage})
}

// InitiatePayPal godoc
// @Summary Start a PayPal checkout
// @Tags payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body InitiatePaymentRequest true "Cart code"
// @Success 200 {object} object "Approval URL"
// @Failure 404 {object} util.Response
// @Router /api/payments/paypal/initiate [post]
func (c *PaymentController) InitiatePayPal(ctx *gin.Context) {
	var req InitiatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	approvalURL, err := c.PaymentService.InitiatePayPal(ctx.Request.Context(), req.CartCode, user)
	if err != nil {
		if errors.Is(err, util.ErrCartNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"approval_url": approvalURL})
}

// PayPalCallback godoc
// @Summary PayPal return callback
// @Tags payments
// @Produce json
// @Param token query string true "PayPal order id"
// @Param ref query string true "Transaction reference"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Router /api/payments/paypal/callback [get]
func (c *PaymentController) PayPalCallback(ctx *gin.Context) {
	orderID := ctx.Query("token")
	ref := ctx.Query("ref")
	if orderID == "" || ref == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	message, subMessage, err := c.PaymentService.CapturePayPal(ctx.Request.Context(), orderID, ref)
	if err != nil {
		if errors.Is(err, util.ErrTransactionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": message, "subMessage": subMessage})
}

// History godoc
// @Summary The caller's transaction history
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Transaction}
// @Router /api/payments/history [get]
func (c *PaymentController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	txs, err := c.PaymentService.TxRepo.FindByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, txs)
}
