// Package payments wraps the external payment gateway behind a small
// interface so the checkout settlement logic can be tested without network
// calls. The real implementation speaks Midtrans Snap: the server exchanges a
// transaction for a session token, the client popup reports
// success/pending/error/close, and the gateway confirms asynchronously via a
// signed webhook notification.
package payments

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
)

// Outcome is the settlement result carried by a gateway notification.
type Outcome string

// Notification outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomePending Outcome = "pending"
	OutcomeFailed  Outcome = "failed"
	OutcomeUnknown Outcome = "unknown"
)

// ErrGateway wraps failures talking to the payment gateway.
var ErrGateway = errors.New("payment gateway operation failed")

// Order is a checkout attempt handed to the gateway.
type Order struct {
	OrderID  string
	Amount   int64
	ItemName string
	UserID   string
	Email    string
	Name     string
}

// Session is the gateway checkout session the client popup consumes.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// Notification is the webhook payload the gateway posts after a payment
// attempt. Field names follow the gateway's JSON contract.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
}

// Outcome maps the gateway's transaction status to a settlement outcome.
func (n Notification) Outcome() Outcome {
	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus == "accept" || n.FraudStatus == "" {
			return OutcomeSuccess
		}
		return OutcomePending
	case "settlement":
		return OutcomeSuccess
	case "pending":
		return OutcomePending
	case "deny", "cancel", "expire", "failure":
		return OutcomeFailed
	default:
		return OutcomeUnknown
	}
}

// Gateway defines the interface to the payment provider.
type Gateway interface {
	// CreateTransaction creates a checkout session for an order.
	CreateTransaction(order Order) (*Session, error)
	// VerifySignature verifies the webhook notification's signature.
	VerifySignature(n Notification) bool
}

// signature computes the gateway's notification signature:
// sha512(order_id + status_code + gross_amount + server key), hex encoded.
func signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// MockGateway is a recording implementation for tests. Every created order is
// appended to Orders; signatures always verify.
type MockGateway struct {
	Orders []Order
	Err    error
}

// NewMockGateway creates a MockGateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// CreateTransaction records the order and returns a fake session.
func (g *MockGateway) CreateTransaction(order Order) (*Session, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	g.Orders = append(g.Orders, order)
	return &Session{
		Token:       "mock-token-" + order.OrderID,
		RedirectURL: fmt.Sprintf("https://example.com/pay?order_id=%s", order.OrderID),
	}, nil
}

// VerifySignature always accepts in the mock.
func (g *MockGateway) VerifySignature(n Notification) bool {
	return true
}
