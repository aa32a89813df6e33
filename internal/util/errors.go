package util

import "errors"

var (
	ErrUsernameTaken       = errors.New("username already exists")
	ErrEmailRegistered     = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCartNotFound        = errors.New("cart not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrPaymentRejected     = errors.New("payment was not successful")
)
