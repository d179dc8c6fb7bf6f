package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
	"commonroom-backend-go/internal/payments"
	"commonroom-backend-go/pkg/messagequeue"
)

// Custom errors for the CheckoutService.
var (
	ErrCheckoutTargetInvalid = errors.New("checkout must target exactly one of a community or a membership type")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrInvalidSignature      = errors.New("gateway notification signature is invalid")
)

const (
	defaultCurrency      = "IDR"
	paymentsSettledQueue = "payments.settled"
)

// checkoutService implements the CheckoutService interface.
type checkoutService struct {
	platformRepo  db.PlatformRepository
	communityRepo db.CommunityRepository
	mtRepo        db.MembershipTypeRepository
	memberRepo    db.MemberRepository
	paymentRepo   db.PaymentRepository
	userRepo      db.UserRepository
	gateway       payments.Gateway
	auditService  AuditService
	queue         messagequeue.MessageQueue
	mailer        Mailer
}

// NewCheckoutService creates a new CheckoutService instance. queue and mailer
// are optional; pass the no-op implementations when unconfigured.
func NewCheckoutService(
	pr db.PlatformRepository,
	cr db.CommunityRepository,
	mtr db.MembershipTypeRepository,
	mr db.MemberRepository,
	payRepo db.PaymentRepository,
	ur db.UserRepository,
	gw payments.Gateway,
	as AuditService,
	queue messagequeue.MessageQueue,
	mail Mailer,
) CheckoutService {
	if queue == nil {
		queue = messagequeue.Noop{}
	}
	return &checkoutService{
		platformRepo:  pr,
		communityRepo: cr,
		mtRepo:        mtr,
		memberRepo:    mr,
		paymentRepo:   payRepo,
		userRepo:      ur,
		gateway:       gw,
		auditService:  as,
		queue:         queue,
		mailer:        mail,
	}
}

// checkoutTarget is the resolved purchasable behind a quote or checkout.
type checkoutTarget struct {
	baseAmount  int64
	paymentType string
	promoCodes  []models.PromoCode
	itemName    string
}

// resolveTarget validates the target rules (exactly one of community /
// membership type) and loads the purchasable's price and promo codes.
func (s *checkoutService) resolveTarget(ctx context.Context, platformID, communityID, membershipTypeID, paymentType string) (*checkoutTarget, error) {
	if (communityID == "") == (membershipTypeID == "") {
		return nil, ErrCheckoutTargetInvalid
	}

	if communityID != "" {
		community, err := s.communityRepo.GetByID(ctx, platformID, communityID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, fmt.Errorf("%w: community with ID '%s'", ErrCommunityNotFound, communityID)
			}
			return nil, fmt.Errorf("failed to get community '%s' for checkout: %w", communityID, err)
		}
		return &checkoutTarget{
			baseAmount:  community.MonthlyPrice,
			paymentType: models.PaymentTypeMonthly,
			promoCodes:  community.PromoCodes,
			itemName:    community.Name,
		}, nil
	}

	mt, err := s.mtRepo.GetByID(ctx, platformID, membershipTypeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: membership type with ID '%s'", ErrMembershipTypeNotFound, membershipTypeID)
		}
		return nil, fmt.Errorf("failed to get membership type '%s' for checkout: %w", membershipTypeID, err)
	}

	base, resolvedType, err := BaseAmountFor(mt, paymentType)
	if err != nil {
		return nil, err
	}
	return &checkoutTarget{
		baseAmount:  base,
		paymentType: resolvedType,
		promoCodes:  mt.PromoCodes,
		itemName:    mt.Name,
	}, nil
}

// Quote resolves the payable amount for a purchasable with an optional promo
// code, without side effects.
func (s *checkoutService) Quote(ctx context.Context, req models.QuoteRequest) (*Quote, error) {
	if _, err := s.platformRepo.GetByID(ctx, req.PlatformID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: platform with ID '%s'", ErrPlatformNotFound, req.PlatformID)
		}
		return nil, fmt.Errorf("failed to get platform '%s' for quote: %w", req.PlatformID, err)
	}

	target, err := s.resolveTarget(ctx, req.PlatformID, req.CommunityID, req.MembershipTypeID, req.PaymentType)
	if err != nil {
		return nil, err
	}

	quote, err := ResolvePrice(target.baseAmount, target.promoCodes, req.PromoCode)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// StartCheckout begins a purchase. A zero final amount settles immediately in
// one transaction (direct grant) and never touches the gateway; anything else
// writes a pending payment and exchanges it for a gateway session.
func (s *checkoutService) StartCheckout(ctx context.Context, userID string, req models.CheckoutRequest) (*CheckoutResult, error) {
	if _, err := s.platformRepo.GetByID(ctx, req.PlatformID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: platform with ID '%s'", ErrPlatformNotFound, req.PlatformID)
		}
		return nil, fmt.Errorf("failed to get platform '%s' for checkout: %w", req.PlatformID, err)
	}

	target, err := s.resolveTarget(ctx, req.PlatformID, req.CommunityID, req.MembershipTypeID, req.PaymentType)
	if err != nil {
		return nil, err
	}

	quote, err := ResolvePrice(target.baseAmount, target.promoCodes, req.PromoCode)
	if err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	payment := &models.Payment{
		ID:               orderID,
		UserID:           userID,
		PlatformID:       req.PlatformID,
		CommunityID:      req.CommunityID,
		MembershipTypeID: req.MembershipTypeID,
		PaymentType:      target.paymentType,
		Status:           models.PaymentStatusPending,
		Amount:           quote.FinalAmount,
		Currency:         defaultCurrency,
		PromoCode:        quote.PromoCode,
		CreatedAt:        time.Now().UTC(),
	}

	if quote.FinalAmount == 0 {
		grant := db.AccessGrant{
			PlatformID:       req.PlatformID,
			UserID:           userID,
			CommunityID:      req.CommunityID,
			MembershipTypeID: req.MembershipTypeID,
			Payment:          payment,
		}
		if err := s.memberRepo.GrantAccess(ctx, grant); err != nil {
			return nil, fmt.Errorf("failed to grant access for order '%s': %w", orderID, err)
		}
		s.settled(ctx, payment, "CHECKOUT_DIRECT_GRANT")

		return &CheckoutResult{OrderID: orderID, Quote: quote, Granted: true}, nil
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create pending payment '%s': %w", orderID, err)
	}

	var email, name string
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user != nil {
		email = user.Email
		name = user.DisplayName
	}

	session, err := s.gateway.CreateTransaction(payments.Order{
		OrderID:  orderID,
		Amount:   quote.FinalAmount,
		ItemName: target.itemName,
		UserID:   userID,
		Email:    email,
		Name:     name,
	})
	if err != nil {
		if markErr := s.paymentRepo.MarkFailed(ctx, orderID); markErr != nil {
			fmt.Printf("Warning: failed to mark payment '%s' failed after gateway error: %v\n", orderID, markErr)
		}
		return nil, fmt.Errorf("failed to create gateway session for order '%s': %w", orderID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "CHECKOUT_START",
		TargetType: "PAYMENT",
		TargetID:   orderID,
		Timestamp:  time.Now().UTC(),
		Details: map[string]interface{}{
			"amount":    quote.FinalAmount,
			"promoCode": quote.PromoCode,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for CHECKOUT_START (orderID: %s): %v\n", orderID, auditErr)
	}

	return &CheckoutResult{OrderID: orderID, Quote: quote, Session: session}, nil
}

// HandleNotification processes a gateway webhook. The signature is verified
// before anything is read from the payload. Settlement grants access through
// the same idempotent transaction as the direct-grant path, so duplicate
// notifications converge.
func (s *checkoutService) HandleNotification(ctx context.Context, n payments.Notification) error {
	if !s.gateway.VerifySignature(n) {
		return fmt.Errorf("%w: order '%s'", ErrInvalidSignature, n.OrderID)
	}

	payment, err := s.paymentRepo.GetByID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: order '%s'", ErrPaymentNotFound, n.OrderID)
		}
		return fmt.Errorf("failed to get payment '%s' for notification: %w", n.OrderID, err)
	}

	switch n.Outcome() {
	case payments.OutcomeSuccess:
		grant := db.AccessGrant{
			PlatformID:       payment.PlatformID,
			UserID:           payment.UserID,
			CommunityID:      payment.CommunityID,
			MembershipTypeID: payment.MembershipTypeID,
			Payment:          payment,
		}
		if err := s.memberRepo.GrantAccess(ctx, grant); err != nil {
			return fmt.Errorf("failed to grant access for settled order '%s': %w", n.OrderID, err)
		}
		s.settled(ctx, payment, "PAYMENT_SETTLED")

	case payments.OutcomeFailed:
		if payment.Status != models.PaymentStatusCompleted {
			if err := s.paymentRepo.MarkFailed(ctx, n.OrderID); err != nil {
				return fmt.Errorf("failed to mark payment '%s' failed: %w", n.OrderID, err)
			}
			auditLogEntry := models.AuditLog{
				UserID:     payment.UserID,
				Action:     "PAYMENT_FAILED",
				TargetType: "PAYMENT",
				TargetID:   n.OrderID,
				Timestamp:  time.Now().UTC(),
				Details: map[string]interface{}{
					"transactionStatus": n.TransactionStatus,
				},
			}
			if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
				fmt.Printf("Warning: failed to create audit log for PAYMENT_FAILED (orderID: %s): %v\n", n.OrderID, auditErr)
			}
		}

	case payments.OutcomePending, payments.OutcomeUnknown:
		// Nothing to settle yet; the gateway will notify again.
	}

	return nil
}

// settled performs the side effects of a completed payment: audit log,
// settlement event on the queue and a receipt email. All are best-effort; the
// grant transaction has already committed.
func (s *checkoutService) settled(ctx context.Context, payment *models.Payment, action string) {
	auditLogEntry := models.AuditLog{
		UserID:     payment.UserID,
		Action:     action,
		TargetType: "PAYMENT",
		TargetID:   payment.ID,
		Timestamp:  time.Now().UTC(),
		Details: map[string]interface{}{
			"amount":      payment.Amount,
			"platformId":  payment.PlatformID,
			"communityId": payment.CommunityID,
			"promoCode":   payment.PromoCode,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for %s (orderID: %s): %v\n", action, payment.ID, auditErr)
	}

	if body, err := json.Marshal(payment); err == nil {
		if err := s.queue.Publish(paymentsSettledQueue, body); err != nil {
			fmt.Printf("Warning: failed to publish settlement event for order '%s': %v\n", payment.ID, err)
		}
	}

	if s.mailer != nil && s.mailer.Configured() {
		if user, err := s.userRepo.GetByID(ctx, payment.UserID); err == nil && user != nil && user.Email != "" {
			subject := "Payment received"
			mailBody := fmt.Sprintf(
				"Thanks for your purchase.\n\nOrder: %s\nAmount: %d %s\nStatus: completed\n",
				payment.ID, payment.Amount, payment.Currency,
			)
			if err := s.mailer.Send(user.Email, subject, mailBody); err != nil {
				fmt.Printf("Warning: failed to send receipt for order '%s': %v\n", payment.ID, err)
			}
		}
	}
}

// ListMyPayments lists the caller's payment records, newest first.
func (s *checkoutService) ListMyPayments(ctx context.Context, userID string, limit int) ([]*models.Payment, error) {
	paymentsList, err := s.paymentRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of user '%s': %w", userID, err)
	}
	return paymentsList, nil
}

// ListPlatformPayments lists a platform's payment records; owner only.
func (s *checkoutService) ListPlatformPayments(ctx context.Context, userID, platformID string, limit int) ([]*models.Payment, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	paymentsList, err := s.paymentRepo.ListByPlatform(ctx, platformID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of platform '%s': %w", platformID, err)
	}
	return paymentsList, nil
}
