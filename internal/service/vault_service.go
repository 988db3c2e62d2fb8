package service

import (
	"context"
	"time"

	"github.com/grocerlink/payment-service/internal/domain"
	"github.com/grocerlink/payment-service/internal/dto"
	paymentgateway "github.com/grocerlink/payment-service/internal/infrastructure/payment-gateway"
	"github.com/grocerlink/payment-service/internal/repository"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

type VaultServiceImpl struct {
	repository repository.InstrumentRepository
	gateway    paymentgateway.Gateway
}

func CreateVaultService(repository repository.InstrumentRepository, gateway paymentgateway.Gateway) VaultService {
	return &VaultServiceImpl{
		repository: repository,
		gateway:    gateway,
	}
}

// CreateSetupIntent reuses the owner's gateway customer when one exists and
// creates it lazily on the first add. The read-check-then-create is not
// locked; a rare race can create a second gateway customer, and reads always
// prefer the earliest stored ref.
func (s *VaultServiceImpl) CreateSetupIntent(ctx context.Context, req dto.SetupIntentRequest) (resp dto.SetupIntentResponse, err error) {
	if req.OwnerID == "" {
		return resp, errs.ErrClient
	}

	customerRef, err := s.repository.GetCustomerRefByOwner(ctx, req.OwnerID)
	if err != nil {
		return
	}

	if customerRef == "" {
		customerRef, err = s.gateway.CreateCustomer(ctx, req.Email, req.Name)
		if err != nil {
			return
		}
	}

	setup, err := s.gateway.CreateSetupIntent(ctx, customerRef)
	if err != nil {
		return
	}

	return dto.SetupIntentResponse{
		SetupRef:     setup.Reference,
		ClientSecret: setup.ClientSecret,
		CustomerRef:  customerRef,
	}, nil
}

func (s *VaultServiceImpl) ConfirmInstrument(ctx context.Context, req dto.ConfirmInstrumentRequest) (resp dto.InstrumentResponse, err error) {
	if req.OwnerID == "" || req.SetupRef == "" || req.MethodToken == "" {
		return resp, errs.ErrClient
	}

	instrument, err := s.gateway.ConfirmSetupIntent(ctx, req.SetupRef, req.MethodToken)
	if err != nil {
		return
	}

	activeCount, err := s.repository.CountActiveByOwner(ctx, req.OwnerID)
	if err != nil {
		return
	}

	// The first instrument becomes the default automatically; later adds
	// keep the existing default unless the caller asks otherwise.
	isDefault := activeCount == 0 || req.MakeDefault

	now := time.Now().Unix()
	record := domain.PaymentInstrument{
		OwnerID:            req.OwnerID,
		GatewayCustomerRef: instrument.CustomerRef,
		GatewayToken:       instrument.Token,
		Brand:              instrument.Brand,
		Last4:              instrument.Last4,
		ExpiryMonth:        instrument.ExpiryMonth,
		ExpiryYear:         instrument.ExpiryYear,
		IsDefault:          isDefault,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.repository.HandleTrx(ctx, func(ctx context.Context, repo repository.InstrumentRepository) error {
		if req.MakeDefault && activeCount > 0 {
			if err := repo.ClearDefaultByOwner(ctx, req.OwnerID); err != nil {
				return err
			}
		}

		id, err := repo.AddInstrument(ctx, record)
		if err != nil {
			return err
		}
		record.ID = id

		return nil
	})
	if err != nil {
		return
	}

	return instrumentResponse(record), nil
}

func (s *VaultServiceImpl) ListInstruments(ctx context.Context, ownerID string) (resp []dto.InstrumentResponse, err error) {
	instruments, err := s.repository.GetActiveInstrumentsByOwner(ctx, ownerID)
	if err != nil {
		return
	}

	resp = make([]dto.InstrumentResponse, 0, len(instruments))
	for _, instrument := range instruments {
		resp = append(resp, instrumentResponse(instrument))
	}

	return resp, nil
}

func (s *VaultServiceImpl) SetDefaultInstrument(ctx context.Context, ownerID string, id int64) (err error) {
	instrument, err := s.ownedInstrument(ctx, ownerID, id)
	if err != nil {
		return
	}

	if !instrument.IsActive {
		return errs.ErrInstrumentInactive
	}

	return s.repository.HandleTrx(ctx, func(ctx context.Context, repo repository.InstrumentRepository) error {
		if err := repo.ClearDefaultByOwner(ctx, ownerID); err != nil {
			return err
		}
		return repo.MarkDefault(ctx, id)
	})
}

// RemoveInstrument soft-deletes so historical orders keep their reference.
// When the default is removed no replacement is promoted; the owner picks
// the next default explicitly.
func (s *VaultServiceImpl) RemoveInstrument(ctx context.Context, ownerID string, id int64) (err error) {
	instrument, err := s.ownedInstrument(ctx, ownerID, id)
	if err != nil {
		return
	}

	if !instrument.IsActive {
		return errs.ErrInstrumentInactive
	}

	if err = s.gateway.DetachToken(ctx, instrument.GatewayToken); err != nil {
		log.Error().Err(err).Str("component", "RemoveInstrument").Msg("")
		return
	}

	return s.repository.Deactivate(ctx, id)
}

func (s *VaultServiceImpl) ownedInstrument(ctx context.Context, ownerID string, id int64) (instrument domain.PaymentInstrument, err error) {
	instrument, err = s.repository.GetInstrumentByID(ctx, id)
	if err != nil {
		return
	}

	if instrument.ID == 0 {
		return instrument, errs.ErrInstrumentNotFound
	}

	if instrument.OwnerID != ownerID {
		return instrument, errs.ErrInstrumentNotOwned
	}

	return instrument, nil
}

func instrumentResponse(instrument domain.PaymentInstrument) dto.InstrumentResponse {
	return dto.InstrumentResponse{
		ID:          instrument.ID,
		Brand:       instrument.Brand,
		Last4:       instrument.Last4,
		ExpiryMonth: instrument.ExpiryMonth,
		ExpiryYear:  instrument.ExpiryYear,
		IsDefault:   instrument.IsDefault,
	}
}
