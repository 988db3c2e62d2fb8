package service

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/grocerlink/payment-service/internal/domain"
	"github.com/grocerlink/payment-service/internal/dto"
	paymentgateway "github.com/grocerlink/payment-service/internal/infrastructure/payment-gateway"
	"github.com/grocerlink/payment-service/internal/repository"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInstrumentRepo struct {
	instruments map[int64]domain.PaymentInstrument
	nextID      int64
}

func newFakeInstrumentRepo() *fakeInstrumentRepo {
	return &fakeInstrumentRepo{instruments: map[int64]domain.PaymentInstrument{}}
}

func (r *fakeInstrumentRepo) AddInstrument(_ context.Context, data domain.PaymentInstrument) (int64, error) {
	r.nextID++
	data.ID = r.nextID
	r.instruments[data.ID] = data
	return data.ID, nil
}

func (r *fakeInstrumentRepo) GetInstrumentByID(_ context.Context, id int64) (domain.PaymentInstrument, error) {
	return r.instruments[id], nil
}

func (r *fakeInstrumentRepo) GetActiveInstrumentsByOwner(_ context.Context, ownerID string) ([]domain.PaymentInstrument, error) {
	var active []domain.PaymentInstrument
	for _, instrument := range r.instruments {
		if instrument.OwnerID == ownerID && instrument.IsActive {
			active = append(active, instrument)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}

func (r *fakeInstrumentRepo) GetCustomerRefByOwner(_ context.Context, ownerID string) (string, error) {
	ref := ""
	var refID int64
	for _, instrument := range r.instruments {
		if instrument.OwnerID != ownerID {
			continue
		}
		if ref == "" || instrument.ID < refID {
			ref = instrument.GatewayCustomerRef
			refID = instrument.ID
		}
	}
	return ref, nil
}

func (r *fakeInstrumentRepo) CountActiveByOwner(_ context.Context, ownerID string) (int64, error) {
	var count int64
	for _, instrument := range r.instruments {
		if instrument.OwnerID == ownerID && instrument.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeInstrumentRepo) ClearDefaultByOwner(_ context.Context, ownerID string) error {
	for id, instrument := range r.instruments {
		if instrument.OwnerID == ownerID && instrument.IsDefault {
			instrument.IsDefault = false
			r.instruments[id] = instrument
		}
	}
	return nil
}

func (r *fakeInstrumentRepo) MarkDefault(_ context.Context, id int64) error {
	instrument := r.instruments[id]
	instrument.IsDefault = true
	r.instruments[id] = instrument
	return nil
}

func (r *fakeInstrumentRepo) Deactivate(_ context.Context, id int64) error {
	instrument := r.instruments[id]
	instrument.IsActive = false
	instrument.IsDefault = false
	r.instruments[id] = instrument
	return nil
}

func (r *fakeInstrumentRepo) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo repository.InstrumentRepository) error) error {
	return fn(ctx, r)
}

func (r *fakeInstrumentRepo) defaultID(ownerID string) int64 {
	for _, instrument := range r.instruments {
		if instrument.OwnerID == ownerID && instrument.IsActive && instrument.IsDefault {
			return instrument.ID
		}
	}
	return 0
}

type stubVaultGateway struct {
	fakeGateway
	customersCreated int
	detached         []string
	detachErr        error
}

func (g *stubVaultGateway) CreateCustomer(_ context.Context, _, _ string) (string, error) {
	g.customersCreated++
	return fmt.Sprintf("cus_%d", g.customersCreated), nil
}

func (g *stubVaultGateway) CreateSetupIntent(_ context.Context, customerRef string) (paymentgateway.SetupIntent, error) {
	return paymentgateway.SetupIntent{Reference: "seti_" + customerRef, ClientSecret: "secret_" + customerRef}, nil
}

func (g *stubVaultGateway) ConfirmSetupIntent(_ context.Context, setupRef, methodToken string) (paymentgateway.Instrument, error) {
	return paymentgateway.Instrument{
		Token:       methodToken,
		CustomerRef: "cus_1",
		Brand:       "visa",
		Last4:       "4242",
		ExpiryMonth: 12,
		ExpiryYear:  2039,
	}, nil
}

func (g *stubVaultGateway) DetachToken(_ context.Context, token string) error {
	if g.detachErr != nil {
		return g.detachErr
	}
	g.detached = append(g.detached, token)
	return nil
}

func confirmRequest(token string, makeDefault bool) dto.ConfirmInstrumentRequest {
	return dto.ConfirmInstrumentRequest{
		OwnerID:     "owner-1",
		SetupRef:    "seti_cus_1",
		MethodToken: token,
		MakeDefault: makeDefault,
	}
}

func TestCreateSetupIntent(t *testing.T) {
	t.Run("creates the gateway customer lazily for a new owner", func(t *testing.T) {
		gateway := &stubVaultGateway{}
		svc := CreateVaultService(newFakeInstrumentRepo(), gateway)

		resp, err := svc.CreateSetupIntent(context.Background(), dto.SetupIntentRequest{OwnerID: "owner-1", Email: "a@b.c", Name: "Ada"})
		require.NoError(t, err)
		assert.Equal(t, 1, gateway.customersCreated)
		assert.Equal(t, "cus_1", resp.CustomerRef)
		assert.Equal(t, "seti_cus_1", resp.SetupRef)
		assert.NotEmpty(t, resp.ClientSecret)
	})

	t.Run("reuses the stored customer ref on later adds", func(t *testing.T) {
		repo := newFakeInstrumentRepo()
		_, err := repo.AddInstrument(context.Background(), domain.PaymentInstrument{
			OwnerID:            "owner-1",
			GatewayCustomerRef: "cus_existing",
			IsActive:           true,
		})
		require.NoError(t, err)

		gateway := &stubVaultGateway{}
		svc := CreateVaultService(repo, gateway)

		resp, err := svc.CreateSetupIntent(context.Background(), dto.SetupIntentRequest{OwnerID: "owner-1"})
		require.NoError(t, err)
		assert.Zero(t, gateway.customersCreated)
		assert.Equal(t, "cus_existing", resp.CustomerRef)
	})

	t.Run("rejects a blank owner", func(t *testing.T) {
		svc := CreateVaultService(newFakeInstrumentRepo(), &stubVaultGateway{})

		_, err := svc.CreateSetupIntent(context.Background(), dto.SetupIntentRequest{})
		assert.ErrorIs(t, err, errs.ErrClient)
	})
}

func TestConfirmInstrument_DefaultInvariant(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := CreateVaultService(repo, &stubVaultGateway{})
	ctx := context.Background()

	// first instrument becomes the default without being asked
	first, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_1", false))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "visa", first.Brand)
	assert.Equal(t, "4242", first.Last4)

	// second without make_default leaves the first in place
	second, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_2", false))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, first.ID, repo.defaultID("owner-1"))

	// third with make_default takes over
	third, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_3", true))
	require.NoError(t, err)
	assert.True(t, third.IsDefault)
	assert.Equal(t, third.ID, repo.defaultID("owner-1"))

	instruments, err := svc.ListInstruments(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, instruments, 3)

	defaults := 0
	for _, instrument := range instruments {
		if instrument.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestConfirmInstrument_RejectsIncompleteRequests(t *testing.T) {
	svc := CreateVaultService(newFakeInstrumentRepo(), &stubVaultGateway{})

	for _, req := range []dto.ConfirmInstrumentRequest{
		{SetupRef: "seti_1", MethodToken: "pm_1"},
		{OwnerID: "owner-1", MethodToken: "pm_1"},
		{OwnerID: "owner-1", SetupRef: "seti_1"},
	} {
		_, err := svc.ConfirmInstrument(context.Background(), req)
		assert.ErrorIs(t, err, errs.ErrClient)
	}
}

func TestSetDefaultInstrument(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := CreateVaultService(repo, &stubVaultGateway{})
	ctx := context.Background()

	first, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_1", false))
	require.NoError(t, err)
	second, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_2", false))
	require.NoError(t, err)

	require.NoError(t, svc.SetDefaultInstrument(ctx, "owner-1", second.ID))
	assert.Equal(t, second.ID, repo.defaultID("owner-1"))

	t.Run("unknown id", func(t *testing.T) {
		err := svc.SetDefaultInstrument(ctx, "owner-1", 99)
		assert.ErrorIs(t, err, errs.ErrInstrumentNotFound)
	})

	t.Run("someone else's instrument", func(t *testing.T) {
		err := svc.SetDefaultInstrument(ctx, "owner-2", first.ID)
		assert.ErrorIs(t, err, errs.ErrInstrumentNotOwned)
	})

	t.Run("deactivated instrument", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(ctx, first.ID))
		err := svc.SetDefaultInstrument(ctx, "owner-1", first.ID)
		assert.ErrorIs(t, err, errs.ErrInstrumentInactive)
	})
}

func TestRemoveInstrument(t *testing.T) {
	t.Run("soft deletes and detaches the gateway token", func(t *testing.T) {
		repo := newFakeInstrumentRepo()
		gateway := &stubVaultGateway{}
		svc := CreateVaultService(repo, gateway)
		ctx := context.Background()

		instrument, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_1", false))
		require.NoError(t, err)

		require.NoError(t, svc.RemoveInstrument(ctx, "owner-1", instrument.ID))
		assert.Equal(t, []string{"pm_1"}, gateway.detached)

		// row stays for order history, just inactive
		stored := repo.instruments[instrument.ID]
		assert.False(t, stored.IsActive)

		listed, err := svc.ListInstruments(ctx, "owner-1")
		require.NoError(t, err)
		assert.Empty(t, listed)

		err = svc.RemoveInstrument(ctx, "owner-1", instrument.ID)
		assert.ErrorIs(t, err, errs.ErrInstrumentInactive)
	})

	t.Run("removing the default promotes nothing", func(t *testing.T) {
		repo := newFakeInstrumentRepo()
		svc := CreateVaultService(repo, &stubVaultGateway{})
		ctx := context.Background()

		first, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_1", false))
		require.NoError(t, err)
		_, err = svc.ConfirmInstrument(ctx, confirmRequest("pm_2", false))
		require.NoError(t, err)

		require.NoError(t, svc.RemoveInstrument(ctx, "owner-1", first.ID))
		assert.Zero(t, repo.defaultID("owner-1"))
	})

	t.Run("a failed detach leaves the instrument active", func(t *testing.T) {
		repo := newFakeInstrumentRepo()
		gateway := &stubVaultGateway{detachErr: errs.ErrGatewayUnavailable}
		svc := CreateVaultService(repo, gateway)
		ctx := context.Background()

		instrument, err := svc.ConfirmInstrument(ctx, confirmRequest("pm_1", false))
		require.NoError(t, err)

		err = svc.RemoveInstrument(ctx, "owner-1", instrument.ID)
		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
		assert.True(t, repo.instruments[instrument.ID].IsActive)
	})
}
