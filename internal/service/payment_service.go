package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/repository"
	"pulsebeat_backend/internal/util"
	"pulsebeat_backend/pkg/logger"

	"github.com/plutov/paypal/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Flat checkout tax added on top of the cart total.
const taxAmount = 4.00

// PaymentResult is the provider response relayed to the frontend:
// either the provider's raw payload (Flutterwave) or the approval link
// (PayPal).
type PaymentResult struct {
	StatusCode int
	Body       map[string]interface{}
}

type PaymentService struct {
	Cfg      *config.Config
	TxRepo   *repository.TransactionRepository
	CartRepo *repository.CartRepository
	Carts    *CartService
	client   *http.Client
	paypal   *paypal.Client
}

func NewPaymentService(cfg *config.Config, txRepo *repository.TransactionRepository, cartRepo *repository.CartRepository, carts *CartService) (*PaymentService, error) {
	s := &PaymentService{
		Cfg:      cfg,
		TxRepo:   txRepo,
		CartRepo: cartRepo,
		Carts:    carts,
		client:   &http.Client{Timeout: 30 * time.Second},
	}

	if cfg.Payment.PayPalClientID != "" {
		apiBase := paypal.APIBaseSandBox
		if cfg.Payment.PayPalMode == "live" {
			apiBase = paypal.APIBaseLive
		}
		pc, err := paypal.NewClient(cfg.Payment.PayPalClientID, cfg.Payment.PayPalSecret, apiBase)
		if err != nil {
			return nil, err
		}
		s.paypal = pc
	}

	return s, nil
}

func (s *PaymentService) newTransaction(cart *model.Cart, userID *uint) (*model.Transaction, error) {
	tx := &model.Transaction{
		Ref:      model.GenerateUUID(),
		CartID:   cart.ID,
		UserID:   userID,
		Amount:   s.Carts.Total(cart) + taxAmount,
		Currency: s.Cfg.Payment.Currency,
		Status:   model.TxPending,
	}
	if err := s.TxRepo.Create(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// InitiateFlutterwave creates a pending transaction and asks
// Flutterwave for a hosted payment link. The provider's JSON body is
// relayed unchanged so the frontend handles both outcomes the same way.
func (s *PaymentService) InitiateFlutterwave(ctx context.Context, cartCode string, user *model.User) (*PaymentResult, error) {
	cart, err := s.Carts.GetCart(cartCode)
	if err != nil {
		return nil, err
	}

	tx, err := s.newTransaction(cart, &user.ID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"tx_ref":       tx.Ref,
		"amount":       fmt.Sprintf("%.2f", tx.Amount),
		"currency":     tx.Currency,
		"redirect_url": s.Cfg.Server.FrontendURL + "/payment-status/",
		"customer": map[string]interface{}{
			"email":       user.Email,
			"username":    user.Username,
			"phonenumber": user.Phone,
		},
		"customizations": map[string]interface{}{
			"title": "PulseBeat Tech Payment",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Cfg.Payment.FlutterwaveBaseURL+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.Cfg.Payment.FlutterwaveSecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Error("Flutterwave payment initiation failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	logger.Log.Info("Flutterwave payment initiated",
		zap.String("tx_ref", tx.Ref),
		zap.Int("status", resp.StatusCode))

	return &PaymentResult{StatusCode: resp.StatusCode, Body: decoded}, nil
}

// VerifyFlutterwave confirms a redirect callback against Flutterwave's
// verify endpoint and, on a clean match of status, amount and currency,
// completes the transaction and marks the cart paid.
func (s *PaymentService) VerifyFlutterwave(ctx context.Context, status, txRef, transactionID string, userID *uint) (string, string, error) {
	if status != "successful" {
		return "", "", util.ErrPaymentRejected
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.Cfg.Payment.FlutterwaveBaseURL+"/v3/transactions/"+transactionID+"/verify", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.Cfg.Payment.FlutterwaveSecretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var verification struct {
		Status string `json:"status"`
		Data   struct {
			Status   string  `json:"status"`
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verification); err != nil {
		return "", "", err
	}

	if verification.Status != "success" {
		return "Failed to verify transaction with Flutterwave.",
			"We could not verify transaction with Flutterwave.", nil
	}

	tx, err := s.TxRepo.FindByRef(txRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", util.ErrTransactionNotFound
		}
		return "", "", err
	}

	if verification.Data.Status != "successful" ||
		verification.Data.Amount != tx.Amount ||
		verification.Data.Currency != tx.Currency {
		return "Payment verification failed.", "Your payment verification failed.", nil
	}

	if err := s.completeTransaction(tx, userID); err != nil {
		return "", "", err
	}

	return "Payment successful!", "You have successfully made payment for items you purchased!", nil
}

// InitiatePayPal creates a pending transaction and a PayPal order,
// returning the approval link the customer is redirected to.
func (s *PaymentService) InitiatePayPal(ctx context.Context, cartCode string, user *model.User) (string, error) {
	if s.paypal == nil {
		return "", errors.New("paypal is not configured")
	}

	cart, err := s.Carts.GetCart(cartCode)
	if err != nil {
		return "", err
	}

	tx, err := s.newTransaction(cart, &user.ID)
	if err != nil {
		return "", err
	}

	if _, err := s.paypal.GetAccessToken(ctx); err != nil {
		return "", err
	}

	order, err := s.paypal.CreateOrder(ctx, paypal.OrderIntentCapture,
		[]paypal.PurchaseUnitRequest{
			{
				ReferenceID: tx.Ref,
				Description: "Payment for cart items.",
				Amount: &paypal.PurchaseUnitAmount{
					Currency: "USD",
					Value:    fmt.Sprintf("%.2f", tx.Amount),
				},
			},
		},
		nil,
		&paypal.ApplicationContext{
			ReturnURL: s.Cfg.Server.FrontendURL + "/payment-status?paymentStatus=success&ref=" + tx.Ref,
			CancelURL: s.Cfg.Server.FrontendURL + "/payment-status?paymentStatus=cancel",
		})
	if err != nil {
		logger.Log.Error("PayPal order creation failed", zap.Error(err))
		return "", err
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}
	return "", errors.New("paypal order has no approval link")
}

// CapturePayPal captures an approved PayPal order and completes the
// matching transaction.
func (s *PaymentService) CapturePayPal(ctx context.Context, orderID, ref string) (string, string, error) {
	if s.paypal == nil {
		return "", "", errors.New("paypal is not configured")
	}

	tx, err := s.TxRepo.FindByRef(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", util.ErrTransactionNotFound
		}
		return "", "", err
	}

	if _, err := s.paypal.GetAccessToken(ctx); err != nil {
		return "", "", err
	}

	capture, err := s.paypal.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		logger.Log.Error("PayPal capture failed", zap.String("order_id", orderID), zap.Error(err))
		return "", "", err
	}

	if capture.Status != "COMPLETED" {
		return "Payment verification failed.", "Your payment could not be captured.", nil
	}

	if err := s.completeTransaction(tx, tx.UserID); err != nil {
		return "", "", err
	}

	return "Payment successful!", "You have successfully made payment for items you purchased!", nil
}

func (s *PaymentService) completeTransaction(tx *model.Transaction, userID *uint) error {
	tx.Status = model.TxCompleted
	if err := s.TxRepo.Update(tx); err != nil {
		return err
	}

	if err := s.CartRepo.MarkPaid(tx.CartID); err != nil {
		return err
	}
	if userID != nil {
		if err := s.CartRepo.DB.Model(&model.Cart{}).
			Where("id = ?", tx.CartID).
			Update("user_id", userID).Error; err != nil {
			return err
		}
	}

	logger.Log.Info("Transaction completed",
		zap.String("ref", tx.Ref),
		zap.Uint("cart_id", tx.CartID))
	return nil
}

// ExpireStale marks pending transactions older than maxAge as expired.
// The app shell calls this from a background ticker.
func (s *PaymentService) ExpireStale(maxAge time.Duration) {
	n, err := s.TxRepo.ExpirePending(time.Now().Add(-maxAge))
	if err != nil {
		logger.Log.Error("Failed to expire stale transactions", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("Expired stale pending transactions", zap.Int64("count", n))
	}
}
