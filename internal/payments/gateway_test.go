package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationOutcome(t *testing.T) {
	tests := []struct {
		name         string
		notification Notification
		want         Outcome
	}{
		{"settlement", Notification{TransactionStatus: "settlement"}, OutcomeSuccess},
		{"capture accepted", Notification{TransactionStatus: "capture", FraudStatus: "accept"}, OutcomeSuccess},
		{"capture without fraud status", Notification{TransactionStatus: "capture"}, OutcomeSuccess},
		{"capture under review", Notification{TransactionStatus: "capture", FraudStatus: "challenge"}, OutcomePending},
		{"pending", Notification{TransactionStatus: "pending"}, OutcomePending},
		{"deny", Notification{TransactionStatus: "deny"}, OutcomeFailed},
		{"cancel", Notification{TransactionStatus: "cancel"}, OutcomeFailed},
		{"expire", Notification{TransactionStatus: "expire"}, OutcomeFailed},
		{"failure", Notification{TransactionStatus: "failure"}, OutcomeFailed},
		{"unrecognized status", Notification{TransactionStatus: "refund"}, OutcomeUnknown},
		{"empty status", Notification{}, OutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.notification.Outcome())
		})
	}
}

func TestMidtransVerifySignature(t *testing.T) {
	const serverKey = "test-server-key"
	gw := NewMidtransGateway(serverKey, "sandbox")

	n := Notification{
		OrderID:     "order-123",
		StatusCode:  "200",
		GrossAmount: "90000.00",
	}
	n.SignatureKey = signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	assert.True(t, gw.VerifySignature(n))

	tampered := n
	tampered.GrossAmount = "1.00"
	assert.False(t, gw.VerifySignature(tampered), "signature covers the gross amount")

	unsigned := Notification{OrderID: "order-123", StatusCode: "200", GrossAmount: "90000.00"}
	assert.False(t, gw.VerifySignature(unsigned), "missing signature key is rejected")
}

func TestMockGatewayRecordsOrders(t *testing.T) {
	gw := NewMockGateway()

	session, err := gw.CreateTransaction(Order{OrderID: "order-1", Amount: 50000})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.RedirectURL)

	require.Len(t, gw.Orders, 1)
	assert.Equal(t, "order-1", gw.Orders[0].OrderID)

	gw.Err = ErrGateway
	_, err = gw.CreateTransaction(Order{OrderID: "order-2"})
	assert.ErrorIs(t, err, ErrGateway)
	assert.Len(t, gw.Orders, 1, "failed orders are not recorded")
}
