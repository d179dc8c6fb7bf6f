package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
	"commonroom-backend-go/internal/payments"
)

// --- In-memory fakes -------------------------------------------------------

type fakePlatformRepo struct {
	platforms map[string]*models.Platform
}

func (f *fakePlatformRepo) Create(_ context.Context, p *models.Platform) (string, error) {
	f.platforms[p.ID] = p
	return p.ID, nil
}

func (f *fakePlatformRepo) GetByID(_ context.Context, platformID string) (*models.Platform, error) {
	p, ok := f.platforms[platformID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (f *fakePlatformRepo) GetBySlug(_ context.Context, slug string) (*models.Platform, error) {
	for _, p := range f.platforms {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakePlatformRepo) Update(_ context.Context, p *models.Platform) error {
	f.platforms[p.ID] = p
	return nil
}

func (f *fakePlatformRepo) Delete(_ context.Context, platformID string) error {
	delete(f.platforms, platformID)
	return nil
}

type fakeCommunityRepo struct {
	communities map[string]*models.Community
}

func (f *fakeCommunityRepo) Create(_ context.Context, _ string, c *models.Community) (string, error) {
	f.communities[c.ID] = c
	return c.ID, nil
}

func (f *fakeCommunityRepo) GetByID(_ context.Context, _, communityID string) (*models.Community, error) {
	c, ok := f.communities[communityID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

func (f *fakeCommunityRepo) List(_ context.Context, _ string) ([]*models.Community, error) {
	out := make([]*models.Community, 0, len(f.communities))
	for _, c := range f.communities {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCommunityRepo) Update(_ context.Context, _ string, c *models.Community) error {
	f.communities[c.ID] = c
	return nil
}

func (f *fakeCommunityRepo) Delete(_ context.Context, _, communityID string) error {
	delete(f.communities, communityID)
	return nil
}

type fakeMembershipTypeRepo struct {
	types map[string]*models.MembershipType
}

func (f *fakeMembershipTypeRepo) Create(_ context.Context, _ string, mt *models.MembershipType) (string, error) {
	if mt.ID == "" {
		mt.ID = fmt.Sprintf("mt-%d", len(f.types)+1)
	}
	f.types[mt.ID] = mt
	return mt.ID, nil
}

func (f *fakeMembershipTypeRepo) GetByID(_ context.Context, _, membershipTypeID string) (*models.MembershipType, error) {
	mt, ok := f.types[membershipTypeID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return mt, nil
}

func (f *fakeMembershipTypeRepo) List(_ context.Context, _ string) ([]*models.MembershipType, error) {
	out := make([]*models.MembershipType, 0, len(f.types))
	for _, mt := range f.types {
		out = append(out, mt)
	}
	return out, nil
}

func (f *fakeMembershipTypeRepo) Update(_ context.Context, _ string, mt *models.MembershipType) error {
	f.types[mt.ID] = mt
	return nil
}

func (f *fakeMembershipTypeRepo) Delete(_ context.Context, _, membershipTypeID string) error {
	delete(f.types, membershipTypeID)
	return nil
}

// fakeMemberRepo mirrors the transactional grant semantics: an already
// completed payment short-circuits and community membership is only counted
// once.
type fakeMemberRepo struct {
	members     map[string]*models.Member // key platformID+"/"+userID
	payments    map[string]*models.Payment
	grantCount  int
	memberCount int64
}

func memberKey(platformID, userID string) string { return platformID + "/" + userID }

func (f *fakeMemberRepo) Upsert(_ context.Context, platformID string, m *models.Member) error {
	f.members[memberKey(platformID, m.UserID)] = m
	return nil
}

func (f *fakeMemberRepo) Get(_ context.Context, platformID, userID string) (*models.Member, error) {
	m, ok := f.members[memberKey(platformID, userID)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return m, nil
}

func (f *fakeMemberRepo) List(_ context.Context, _ string, _ int) ([]*models.Member, error) {
	out := make([]*models.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMemberRepo) GrantAccess(_ context.Context, grant db.AccessGrant) error {
	if existing, ok := f.payments[grant.Payment.ID]; ok && existing.Status == models.PaymentStatusCompleted {
		return nil
	}

	key := memberKey(grant.PlatformID, grant.UserID)
	member, ok := f.members[key]
	if !ok {
		member = &models.Member{UserID: grant.UserID, Role: models.MemberRoleMember}
		f.members[key] = member
	}

	if grant.CommunityID != "" {
		has := false
		for _, id := range member.Communities {
			if id == grant.CommunityID {
				has = true
				break
			}
		}
		if !has {
			member.Communities = append(member.Communities, grant.CommunityID)
			f.memberCount++
		}
	}
	member.HasPaid = true

	settled := *grant.Payment
	settled.Status = models.PaymentStatusCompleted
	f.payments[settled.ID] = &settled
	f.grantCount++
	return nil
}

type fakePaymentRepo struct {
	payments map[string]*models.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	stored := *p
	f.payments[p.ID] = &stored
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, orderID string) (*models.Payment, error) {
	p, ok := f.payments[orderID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) MarkFailed(_ context.Context, orderID string) error {
	p, ok := f.payments[orderID]
	if !ok {
		return db.ErrNotFound
	}
	p.Status = models.PaymentStatusFailed
	return nil
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, userID string, _ int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListByPlatform(_ context.Context, platformID string, _ int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.PlatformID == platformID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

type fakeAuditRepo struct {
	entries []models.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry models.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

type recordingQueue struct {
	published map[string][][]byte
}

func (q *recordingQueue) Publish(queueName string, body []byte) error {
	if q.published == nil {
		q.published = make(map[string][][]byte)
	}
	q.published[queueName] = append(q.published[queueName], body)
	return nil
}

func (q *recordingQueue) Consume(string, func([]byte)) error { return nil }
func (q *recordingQueue) Close() error                       { return nil }

type silentMailer struct{}

func (silentMailer) Send(_, _, _ string) error { return nil }
func (silentMailer) Configured() bool          { return false }

// rejectingGateway wraps the mock and refuses every webhook signature.
type rejectingGateway struct {
	*payments.MockGateway
}

func (rejectingGateway) VerifySignature(payments.Notification) bool { return false }

// --- Fixture ---------------------------------------------------------------

type checkoutFixture struct {
	svc      CheckoutService
	gateway  *payments.MockGateway
	members  *fakeMemberRepo
	payments *fakePaymentRepo
	audits   *fakeAuditRepo
	queue    *recordingQueue
}

func newCheckoutFixture(t *testing.T, gw payments.Gateway) *checkoutFixture {
	t.Helper()

	paymentStore := make(map[string]*models.Payment)
	platformRepo := &fakePlatformRepo{platforms: map[string]*models.Platform{
		"plat-1": {ID: "plat-1", OwnerID: "owner-1", Slug: "acme", Name: "Acme", Public: true},
	}}
	communityRepo := &fakeCommunityRepo{communities: map[string]*models.Community{
		"comm-1": {
			ID:           "comm-1",
			Name:         "Builders",
			MonthlyPrice: 100000,
			PromoCodes: []models.PromoCode{
				{Code: "SAVE10", Kind: models.PromoKindPercentage, Value: 10},
				{Code: "FREE100", Kind: models.PromoKindAmount, Value: 100000},
			},
		},
	}}
	oneTime := int64(1200000)
	mtRepo := &fakeMembershipTypeRepo{types: map[string]*models.MembershipType{
		"mt-1": {ID: "mt-1", Name: "Pro", PriceOneTime: &oneTime},
	}}
	memberRepo := &fakeMemberRepo{members: make(map[string]*models.Member), payments: paymentStore}
	paymentRepo := &fakePaymentRepo{payments: paymentStore}
	userRepo := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Email: "user@example.com", DisplayName: "User One"},
	}}
	auditRepo := &fakeAuditRepo{}
	queue := &recordingQueue{}

	mockGW, _ := gw.(*payments.MockGateway)
	svc := NewCheckoutService(
		platformRepo, communityRepo, mtRepo, memberRepo, paymentRepo, userRepo,
		gw, NewAuditService(auditRepo), queue, silentMailer{},
	)

	return &checkoutFixture{
		svc:      svc,
		gateway:  mockGW,
		members:  memberRepo,
		payments: paymentRepo,
		audits:   auditRepo,
		queue:    queue,
	}
}

// --- Tests -----------------------------------------------------------------

func TestQuoteCommunityWithPromo(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	quote, err := fx.svc.Quote(context.Background(), models.QuoteRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
		PromoCode:   "save10",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), quote.BaseAmount)
	assert.Equal(t, int64(90000), quote.FinalAmount)
	assert.Equal(t, "SAVE10", quote.PromoCode)
}

func TestQuoteRejectsAmbiguousTarget(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	_, err := fx.svc.Quote(context.Background(), models.QuoteRequest{
		PlatformID:       "plat-1",
		CommunityID:      "comm-1",
		MembershipTypeID: "mt-1",
	})
	assert.ErrorIs(t, err, ErrCheckoutTargetInvalid, "both targets set")

	_, err = fx.svc.Quote(context.Background(), models.QuoteRequest{PlatformID: "plat-1"})
	assert.ErrorIs(t, err, ErrCheckoutTargetInvalid, "no target set")
}

func TestQuoteInvalidPromoCode(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	_, err := fx.svc.Quote(context.Background(), models.QuoteRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
		PromoCode:   "NOPE",
	})
	assert.ErrorIs(t, err, ErrPromoCodeInvalid)
}

func TestStartCheckoutDirectGrantSkipsGateway(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	result, err := fx.svc.StartCheckout(context.Background(), "user-1", models.CheckoutRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
		PromoCode:   "FREE100",
	})
	require.NoError(t, err)

	assert.True(t, result.Granted)
	assert.Nil(t, result.Session, "zero-amount checkout returns no gateway session")
	assert.Empty(t, fx.gateway.Orders, "the gateway is never contacted")

	member, err := fx.members.Get(context.Background(), "plat-1", "user-1")
	require.NoError(t, err)
	assert.Contains(t, member.Communities, "comm-1")
	assert.True(t, member.HasPaid)

	payment, err := fx.payments.GetByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, int64(0), payment.Amount)
	assert.Equal(t, "IDR", payment.Currency)

	assert.Len(t, fx.queue.published["payments.settled"], 1, "settlement event is published")
}

func TestStartCheckoutCreatesGatewaySession(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	result, err := fx.svc.StartCheckout(context.Background(), "user-1", models.CheckoutRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
		PromoCode:   "SAVE10",
	})
	require.NoError(t, err)

	assert.False(t, result.Granted)
	require.NotNil(t, result.Session)
	assert.NotEmpty(t, result.Session.Token)

	require.Len(t, fx.gateway.Orders, 1)
	order := fx.gateway.Orders[0]
	assert.Equal(t, result.OrderID, order.OrderID)
	assert.Equal(t, int64(90000), order.Amount)
	assert.Equal(t, "user@example.com", order.Email)

	payment, err := fx.payments.GetByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, int64(90000), payment.Amount)

	// Nothing is granted until the gateway confirms.
	_, err = fx.members.Get(context.Background(), "plat-1", "user-1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestStartCheckoutMarksFailedOnGatewayError(t *testing.T) {
	gw := payments.NewMockGateway()
	gw.Err = payments.ErrGateway
	fx := newCheckoutFixture(t, gw)

	_, err := fx.svc.StartCheckout(context.Background(), "user-1", models.CheckoutRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, payments.ErrGateway)

	// The pending record is flipped to failed rather than left dangling.
	require.Len(t, fx.payments.payments, 1)
	for _, p := range fx.payments.payments {
		assert.Equal(t, models.PaymentStatusFailed, p.Status)
	}
}

func TestHandleNotificationSettlementGrantsAccess(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	result, err := fx.svc.StartCheckout(context.Background(), "user-1", models.CheckoutRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
	})
	require.NoError(t, err)

	notification := payments.Notification{
		OrderID:           result.OrderID,
		TransactionStatus: "settlement",
	}
	require.NoError(t, fx.svc.HandleNotification(context.Background(), notification))

	member, err := fx.members.Get(context.Background(), "plat-1", "user-1")
	require.NoError(t, err)
	assert.Contains(t, member.Communities, "comm-1")

	payment, err := fx.payments.GetByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)

	// A duplicate notification converges instead of double-counting.
	require.NoError(t, fx.svc.HandleNotification(context.Background(), notification))
	assert.Equal(t, int64(1), fx.members.memberCount)
	assert.Equal(t, 1, fx.members.grantCount)
}

func TestHandleNotificationFailureMarksFailed(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	result, err := fx.svc.StartCheckout(context.Background(), "user-1", models.CheckoutRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.HandleNotification(context.Background(), payments.Notification{
		OrderID:           result.OrderID,
		TransactionStatus: "expire",
	}))

	payment, err := fx.payments.GetByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)

	_, err = fx.members.Get(context.Background(), "plat-1", "user-1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestHandleNotificationPendingIsANoOp(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	result, err := fx.svc.StartCheckout(context.Background(), "user-1", models.CheckoutRequest{
		PlatformID:  "plat-1",
		CommunityID: "comm-1",
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.HandleNotification(context.Background(), payments.Notification{
		OrderID:           result.OrderID,
		TransactionStatus: "pending",
	}))

	payment, err := fx.payments.GetByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	fx := newCheckoutFixture(t, rejectingGateway{payments.NewMockGateway()})

	err := fx.svc.HandleNotification(context.Background(), payments.Notification{
		OrderID:           "order-x",
		TransactionStatus: "settlement",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestListPlatformPaymentsOwnerOnly(t *testing.T) {
	fx := newCheckoutFixture(t, payments.NewMockGateway())

	_, err := fx.svc.ListPlatformPayments(context.Background(), "user-1", "plat-1", 50)
	assert.ErrorIs(t, err, ErrForbidden)

	records, err := fx.svc.ListPlatformPayments(context.Background(), "owner-1", "plat-1", 50)
	require.NoError(t, err)
	assert.Empty(t, records)
}
