package service

import (
	"context"
	"time"

	"github.com/grocerlink/payment-service/internal/domain"
	"github.com/grocerlink/payment-service/internal/dto"
	"github.com/grocerlink/payment-service/internal/repository"
)

// LedgerServiceImpl aggregates commission and order rows into finance views.
// It is read-side only and downstream of finalization; a party with no
// history gets zeroed summaries, not errors.
type LedgerServiceImpl struct {
	repository repository.LedgerRepository
}

func CreateLedgerService(repository repository.LedgerRepository) LedgerService {
	return &LedgerServiceImpl{
		repository: repository,
	}
}

type ledgerWindows struct {
	today int64
	week  int64
	month int64
}

func windowStarts(now time.Time) ledgerWindows {
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return ledgerWindows{
		today: startOfDay.Unix(),
		week:  now.AddDate(0, 0, -7).Unix(),
		month: now.AddDate(0, -1, 0).Unix(),
	}
}

func (s *LedgerServiceImpl) DriverSummary(ctx context.Context, driverID string) (resp dto.DriverLedgerResponse, err error) {
	windows := windowStarts(time.Now())

	pending, err := s.sumDriverWindows(ctx, driverID, domain.CommissionStatusPending, windows)
	if err != nil {
		return
	}

	completed, err := s.sumDriverWindows(ctx, driverID, domain.CommissionStatusCompleted, windows)
	if err != nil {
		return
	}

	return dto.DriverLedgerResponse{
		DriverID:  driverID,
		Pending:   pending,
		Completed: completed,
	}, nil
}

func (s *LedgerServiceImpl) sumDriverWindows(ctx context.Context, driverID string, status string, windows ledgerWindows) (window dto.LedgerWindow, err error) {
	if window.Today, err = s.repository.SumDriverCommissions(ctx, driverID, status, windows.today); err != nil {
		return
	}
	if window.Week, err = s.repository.SumDriverCommissions(ctx, driverID, status, windows.week); err != nil {
		return
	}
	if window.Month, err = s.repository.SumDriverCommissions(ctx, driverID, status, windows.month); err != nil {
		return
	}

	return window, nil
}

func (s *LedgerServiceImpl) MerchantSummary(ctx context.Context, merchantID string) (resp dto.MerchantLedgerResponse, err error) {
	windows := windowStarts(time.Now())

	var earnings dto.LedgerWindow
	if earnings.Today, err = s.repository.SumMerchantEarnings(ctx, merchantID, windows.today); err != nil {
		return
	}
	if earnings.Week, err = s.repository.SumMerchantEarnings(ctx, merchantID, windows.week); err != nil {
		return
	}
	if earnings.Month, err = s.repository.SumMerchantEarnings(ctx, merchantID, windows.month); err != nil {
		return
	}

	orderCount, err := s.repository.CountMerchantOrders(ctx, merchantID)
	if err != nil {
		return
	}

	return dto.MerchantLedgerResponse{
		MerchantID: merchantID,
		Earnings:   earnings,
		OrderCount: orderCount,
	}, nil
}
