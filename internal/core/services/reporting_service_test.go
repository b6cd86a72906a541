package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// postFebruaryActivity posts one 100.00 invoice and one 80.00 bill so income,
// expense, AR, and AP all carry balances.
func postFebruaryActivity(t *testing.T, f *fixture) {
	t.Helper()
	inv := draftInvoice(t, f)
	_, err := f.svcs.Sales.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)

	bill := draftBill(t, f)
	_, err = f.svcs.Purchases.PostBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	require.NoError(t, err)
}

func TestReportingService_ProfitLoss(t *testing.T) {
	f := newFixture(t)
	postFebruaryActivity(t, f)

	report, err := f.svcs.Reporting.ProfitLoss(f.ctx, f.admin.ID, f.company.ID, "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.True(t, report.IncomeTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, report.ExpenseTotal.Equal(decimal.NewFromInt(80)))
	assert.True(t, report.NetProfit.Equal(decimal.NewFromInt(20)))
	require.Len(t, report.Rows, 2)

	// A period before any activity is empty.
	empty, err := f.svcs.Reporting.ProfitLoss(f.ctx, f.admin.ID, f.company.ID, "2025-01-01", "2025-12-31")
	require.NoError(t, err)
	assert.True(t, empty.NetProfit.IsZero())
	assert.Empty(t, empty.Rows)

	// Inverted periods are rejected.
	_, err = f.svcs.Reporting.ProfitLoss(f.ctx, f.admin.ID, f.company.ID, "2026-02-28", "2026-02-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReportingService_BalanceSheetBalances(t *testing.T) {
	f := newFixture(t)
	postFebruaryActivity(t, f)

	report, err := f.svcs.Reporting.BalanceSheet(f.ctx, f.admin.ID, f.company.ID, "2026-02-28")
	require.NoError(t, err)
	assert.True(t, report.AssetTotal.Equal(decimal.NewFromInt(100)), "AR carries the invoice")
	assert.True(t, report.LiabilityTotal.Equal(decimal.NewFromInt(80)), "AP carries the bill")
	assert.True(t, report.EquityTotal.Equal(decimal.NewFromInt(20)), "retained earnings fold into equity")
	assert.True(t, report.AssetTotal.Equal(report.LiabilityPlusEquityTotal),
		"assets must equal liabilities plus equity")
}

func TestReportingService_CashFlow(t *testing.T) {
	f := newFixture(t)

	// Cash movement flows through the bank account's ledger account.
	_, err := f.svcs.Banking.CreateBankAccount(f.ctx, f.admin.ID, f.company.ID, dto.CreateBankAccountRequest{
		Name: "Operating", LedgerAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)

	inv := draftInvoice(t, f)
	_, err = f.svcs.Sales.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)
	receipt, err := f.svcs.Sales.CreateReceipt(f.ctx, f.admin.ID, f.company.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-10",
		Amount:           decimal.NewFromInt(40),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)
	_, err = f.svcs.Sales.ReplaceReceiptAllocations(f.ctx, f.admin.ID, f.company.ID, receipt.ID, dto.ReplaceReceiptAllocationsRequest{
		Allocations: []dto.ReceiptAllocationInput{{InvoiceID: inv.ID, Amount: decimal.NewFromInt(40)}},
	})
	require.NoError(t, err)
	_, err = f.svcs.Sales.PostReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID)
	require.NoError(t, err)

	report, err := f.svcs.Reporting.CashFlow(f.ctx, f.admin.ID, f.company.ID, "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.True(t, report.CashInflow.Equal(decimal.NewFromInt(40)))
	assert.True(t, report.CashOutflow.IsZero())
	assert.True(t, report.NetCashMovement.Equal(decimal.NewFromInt(40)))
}

func TestReportingService_GeneralLedgerFilters(t *testing.T) {
	f := newFixture(t)
	postFebruaryActivity(t, f)

	report, err := f.svcs.Reporting.GeneralLedger(f.ctx, f.admin.ID, f.company.ID, services.GeneralLedgerQuery{
		StartDate: "2026-02-01", EndDate: "2026-02-28",
	})
	require.NoError(t, err)
	assert.Len(t, report.Rows, 5, "AR plus two revenue lines from the invoice, expense plus AP from the bill")

	// Account filter narrows to that account's lines.
	filtered, err := f.svcs.Reporting.GeneralLedger(f.ctx, f.admin.ID, f.company.ID, services.GeneralLedgerQuery{
		StartDate: "2026-02-01", EndDate: "2026-02-28", AccountID: f.accounts["1100"].ID,
	})
	require.NoError(t, err)
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, "1100", filtered.Rows[0].AccountCode)

	// Limit caps the row count.
	capped, err := f.svcs.Reporting.GeneralLedger(f.ctx, f.admin.ID, f.company.ID, services.GeneralLedgerQuery{
		StartDate: "2026-02-01", EndDate: "2026-02-28", Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, capped.Rows, 2)
}

func TestReportingService_TrialBalanceReport(t *testing.T) {
	f := newFixture(t)
	postFebruaryActivity(t, f)

	report, err := f.svcs.Reporting.TrialBalance(f.ctx, f.admin.ID, f.company.ID, "2026-02-01", "2026-02-28")
	require.NoError(t, err)

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, row := range report.Rows {
		totalDebit = totalDebit.Add(row.TotalDebit)
		totalCredit = totalCredit.Add(row.TotalCredit)
	}
	assert.True(t, totalDebit.Equal(totalCredit), "trial balance must balance")
	assert.True(t, totalDebit.Equal(decimal.NewFromInt(180)))
}
