package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonroom-backend-go/internal/models"
)

func newMembershipTypeService(t *testing.T) (MembershipTypeService, *fakeMembershipTypeRepo) {
	t.Helper()

	platformRepo := &fakePlatformRepo{platforms: map[string]*models.Platform{
		"plat-1": {ID: "plat-1", OwnerID: "owner-1", Slug: "acme", Name: "Acme", Public: true},
	}}
	memberRepo := &fakeMemberRepo{members: make(map[string]*models.Member), payments: make(map[string]*models.Payment)}
	mtRepo := &fakeMembershipTypeRepo{types: make(map[string]*models.MembershipType)}
	svc := NewMembershipTypeService(platformRepo, memberRepo, mtRepo, NewAuditService(&fakeAuditRepo{}))
	return svc, mtRepo
}

func TestCreateMembershipTypeNormalizesPromoCodes(t *testing.T) {
	svc, _ := newMembershipTypeService(t)

	price := int64(500000)
	mt, err := svc.CreateMembershipType(context.Background(), "owner-1", "plat-1", models.CreateMembershipTypeRequest{
		Name:         "Pro",
		PriceOneTime: &price,
		PromoCodes: []models.PromoCode{
			{Code: " launch25 ", Kind: models.PromoKindPercentage, Value: 25},
		},
	})
	require.NoError(t, err)
	require.Len(t, mt.PromoCodes, 1)
	assert.Equal(t, "LAUNCH25", mt.PromoCodes[0].Code, "stored codes are trimmed and uppercased")
}

func TestCreateMembershipTypeRequiresAPrice(t *testing.T) {
	svc, _ := newMembershipTypeService(t)

	_, err := svc.CreateMembershipType(context.Background(), "owner-1", "plat-1", models.CreateMembershipTypeRequest{
		Name: "Free tier",
	})
	assert.ErrorIs(t, err, ErrPriceRequired)
}

func TestCreateMembershipTypeOwnerOnly(t *testing.T) {
	svc, _ := newMembershipTypeService(t)

	price := int64(500000)
	_, err := svc.CreateMembershipType(context.Background(), "someone-else", "plat-1", models.CreateMembershipTypeRequest{
		Name:         "Pro",
		PriceOneTime: &price,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateMembershipTypeCannotDropLastPrice(t *testing.T) {
	svc, mtRepo := newMembershipTypeService(t)

	price := int64(500000)
	mt, err := svc.CreateMembershipType(context.Background(), "owner-1", "plat-1", models.CreateMembershipTypeRequest{
		Name:         "Pro",
		PriceOneTime: &price,
	})
	require.NoError(t, err)

	newName := "Pro Plus"
	updated, err := svc.UpdateMembershipType(context.Background(), "owner-1", "plat-1", mt.ID, models.UpdateMembershipTypeRequest{
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pro Plus", updated.Name)
	require.NotNil(t, updated.PriceOneTime)
	assert.Equal(t, price, *updated.PriceOneTime, "untouched fields survive a partial update")

	_, err = svc.UpdateMembershipType(context.Background(), "owner-1", "plat-1", "missing", models.UpdateMembershipTypeRequest{})
	assert.ErrorIs(t, err, ErrMembershipTypeNotFound)

	assert.Len(t, mtRepo.types, 1)
}
