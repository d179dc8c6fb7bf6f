package payments

import (
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// midtransGateway implements Gateway on top of the Midtrans Snap API.
type midtransGateway struct {
	client    snap.Client
	serverKey string
}

// NewMidtransGateway creates a Snap-backed Gateway. env selects the sandbox or
// production API host ("production" means live).
func NewMidtransGateway(serverKey, env string) Gateway {
	environment := midtrans.Sandbox
	if env == "production" {
		environment = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, environment)

	return &midtransGateway{client: client, serverKey: serverKey}
}

// CreateTransaction exchanges an order for a Snap session token. The client
// popup consumes the token; the redirect URL serves clients without the popup
// widget.
func (g *midtransGateway) CreateTransaction(order Order) (*Session, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderID,
			GrossAmt: order.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.Name,
			Email: order.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    order.OrderID,
				Name:  order.ItemName,
				Price: order.Amount,
				Qty:   1,
			},
		},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("%w: snap transaction for order '%s': %v", ErrGateway, order.OrderID, err)
	}

	return &Session{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// VerifySignature checks the notification's signature key against the one
// derived from the order id, status code, gross amount and server key.
func (g *midtransGateway) VerifySignature(n Notification) bool {
	if n.SignatureKey == "" {
		return false
	}
	expected := signature(n.OrderID, n.StatusCode, n.GrossAmount, g.serverKey)
	return n.SignatureKey == expected
}
