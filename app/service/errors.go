package service

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrUserExists      = errors.New("user already exists")
	ErrGatewayFailed   = errors.New("payment initiation failed at gateway")
)
