package service

import (
	"context"
	"testing"
	"time"

	"github.com/grocerlink/payment-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commissionRow struct {
	driverID  string
	status    string
	amount    int64
	createdAt int64
}

type earningRow struct {
	merchantID string
	amount     int64
	createdAt  int64
}

type fakeLedgerRepo struct {
	commissions []commissionRow
	earnings    []earningRow
}

func (r *fakeLedgerRepo) SumDriverCommissions(_ context.Context, driverID string, status string, from int64) (int64, error) {
	var total int64
	for _, row := range r.commissions {
		if row.driverID == driverID && row.status == status && row.createdAt >= from {
			total += row.amount
		}
	}
	return total, nil
}

func (r *fakeLedgerRepo) SumMerchantEarnings(_ context.Context, merchantID string, from int64) (int64, error) {
	var total int64
	for _, row := range r.earnings {
		if row.merchantID == merchantID && row.createdAt >= from {
			total += row.amount
		}
	}
	return total, nil
}

func (r *fakeLedgerRepo) CountMerchantOrders(_ context.Context, merchantID string) (int64, error) {
	var count int64
	for _, row := range r.earnings {
		if row.merchantID == merchantID {
			count++
		}
	}
	return count, nil
}

func TestWindowStarts(t *testing.T) {
	now := time.Date(2026, time.March, 15, 13, 45, 0, 0, time.UTC)
	windows := windowStarts(now)

	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC).Unix(), windows.today)
	assert.Equal(t, time.Date(2026, time.March, 8, 13, 45, 0, 0, time.UTC).Unix(), windows.week)
	assert.Equal(t, time.Date(2026, time.February, 15, 13, 45, 0, 0, time.UTC).Unix(), windows.month)
}

func TestDriverSummary(t *testing.T) {
	now := time.Now().UTC()
	repo := &fakeLedgerRepo{
		commissions: []commissionRow{
			{driverID: "drv-1", status: domain.CommissionStatusPending, amount: 800, createdAt: now.Unix()},
			{driverID: "drv-1", status: domain.CommissionStatusCompleted, amount: 600, createdAt: now.AddDate(0, 0, -3).Unix()},
			{driverID: "drv-1", status: domain.CommissionStatusCompleted, amount: 400, createdAt: now.AddDate(0, 0, -20).Unix()},
			// out of every window
			{driverID: "drv-1", status: domain.CommissionStatusCompleted, amount: 9999, createdAt: now.AddDate(0, -2, 0).Unix()},
			// someone else's rows never leak in
			{driverID: "drv-2", status: domain.CommissionStatusPending, amount: 5000, createdAt: now.Unix()},
		},
	}
	svc := CreateLedgerService(repo)

	resp, err := svc.DriverSummary(context.Background(), "drv-1")
	require.NoError(t, err)

	assert.Equal(t, "drv-1", resp.DriverID)
	assert.Equal(t, int64(800), resp.Pending.Today)
	assert.Equal(t, int64(800), resp.Pending.Week)
	assert.Equal(t, int64(800), resp.Pending.Month)
	assert.Equal(t, int64(0), resp.Completed.Today)
	assert.Equal(t, int64(600), resp.Completed.Week)
	assert.Equal(t, int64(1000), resp.Completed.Month)
}

func TestMerchantSummary(t *testing.T) {
	now := time.Now().UTC()
	repo := &fakeLedgerRepo{
		earnings: []earningRow{
			{merchantID: "merch-1", amount: 4000, createdAt: now.Unix()},
			{merchantID: "merch-1", amount: 3500, createdAt: now.AddDate(0, 0, -5).Unix()},
			{merchantID: "merch-1", amount: 2000, createdAt: now.AddDate(0, -2, 0).Unix()},
			{merchantID: "merch-2", amount: 7000, createdAt: now.Unix()},
		},
	}
	svc := CreateLedgerService(repo)

	resp, err := svc.MerchantSummary(context.Background(), "merch-1")
	require.NoError(t, err)

	assert.Equal(t, "merch-1", resp.MerchantID)
	assert.Equal(t, int64(4000), resp.Earnings.Today)
	assert.Equal(t, int64(7500), resp.Earnings.Week)
	assert.Equal(t, int64(7500), resp.Earnings.Month)
	// order count spans all time, not just the windows
	assert.Equal(t, int64(3), resp.OrderCount)
}

func TestLedgerSummaries_EmptyHistory(t *testing.T) {
	svc := CreateLedgerService(&fakeLedgerRepo{})

	driver, err := svc.DriverSummary(context.Background(), "drv-none")
	require.NoError(t, err)
	assert.Zero(t, driver.Pending.Month)
	assert.Zero(t, driver.Completed.Month)

	merchant, err := svc.MerchantSummary(context.Background(), "merch-none")
	require.NoError(t, err)
	assert.Zero(t, merchant.Earnings.Month)
	assert.Zero(t, merchant.OrderCount)
}
