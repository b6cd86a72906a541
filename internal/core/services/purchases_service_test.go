package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// draftBill creates a draft bill with one 80.00 expense line.
func draftBill(t *testing.T, f *fixture) *domain.Bill {
	t.Helper()
	bill, err := f.svcs.Purchases.CreateBill(f.ctx, f.admin.ID, f.company.ID, dto.CreateBillRequest{
		VendorID:    f.vendor.ID,
		BillDate:    "2026-02-01",
		APAccountID: f.accounts["2000"].ID,
	})
	require.NoError(t, err)
	bill, err = f.svcs.Purchases.ReplaceBillLines(f.ctx, f.admin.ID, f.company.ID, bill.ID, dto.ReplaceBillLinesRequest{
		Lines: []dto.BillLineInput{
			{Description: "Office chairs", Quantity: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(40), ExpenseAccountID: f.accounts["5000"].ID},
		},
	})
	require.NoError(t, err)
	return bill
}

func TestPurchasesService_BillPostingJournal(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Purchases

	bill := draftBill(t, f)
	assert.True(t, bill.Total.Equal(decimal.NewFromInt(80)))

	posted, err := svc.PostBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, posted.Status)
	require.NotNil(t, posted.BillNo)
	assert.Equal(t, int64(1), *posted.BillNo)
	require.NotNil(t, posted.JournalEntryID)

	entry, err := f.svcs.Journal.GetJournal(f.ctx, f.admin.ID, f.company.ID, *posted.JournalEntryID)
	require.NoError(t, err)
	assert.Equal(t, "bill", entry.ReferenceType)
	require.Len(t, entry.Lines, 2)
	// Expenses are debited per line, AP credited for the total.
	assert.Equal(t, f.accounts["5000"].ID, entry.Lines[0].AccountID)
	assert.True(t, entry.Lines[0].Debit.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, f.accounts["2000"].ID, entry.Lines[1].AccountID)
	assert.True(t, entry.Lines[1].Credit.Equal(decimal.NewFromInt(80)))
}

func TestPurchasesService_VendorPaymentRollforward(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Purchases

	bill := draftBill(t, f)
	_, err := svc.PostBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	require.NoError(t, err)

	payment, err := svc.CreateVendorPayment(f.ctx, f.admin.ID, f.company.ID, dto.CreateVendorPaymentRequest{
		VendorID:         f.vendor.ID,
		PaidDate:         "2026-02-15",
		Amount:           decimal.NewFromInt(30),
		PaymentAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)

	payment, err = svc.ReplaceVendorPaymentAllocations(f.ctx, f.admin.ID, f.company.ID, payment.ID, dto.ReplaceVendorPaymentAllocationsRequest{
		Allocations: []dto.VendorPaymentAllocationInput{{BillID: bill.ID, Amount: decimal.NewFromInt(30)}},
	})
	require.NoError(t, err)

	payment, err = svc.PostVendorPayment(f.ctx, f.admin.ID, f.company.ID, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, payment.Status)
	require.NotNil(t, payment.PaymentNo)

	// 30.00 against an 80.00 bill leaves it partially paid.
	partial, err := svc.GetBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyPaid, partial.Status)
	assert.True(t, partial.AmountPaid.Equal(decimal.NewFromInt(30)))

	// A bill with payments cannot be voided directly.
	_, err = svc.VoidBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Voiding the payment rolls the bill back to posted.
	_, err = svc.VoidVendorPayment(f.ctx, f.admin.ID, f.company.ID, payment.ID)
	require.NoError(t, err)
	rolled, err := svc.GetBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, rolled.Status)
	assert.True(t, rolled.AmountPaid.IsZero())
}

func TestPurchasesService_VendorPaymentRemainderBalances(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Purchases

	bill := draftBill(t, f)
	_, err := svc.PostBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	require.NoError(t, err)

	// 50.00 paid, only 20.00 allocated: the rest is a vendor prepayment.
	payment, err := svc.CreateVendorPayment(f.ctx, f.admin.ID, f.company.ID, dto.CreateVendorPaymentRequest{
		VendorID:         f.vendor.ID,
		PaidDate:         "2026-02-15",
		Amount:           decimal.NewFromInt(50),
		PaymentAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)
	_, err = svc.ReplaceVendorPaymentAllocations(f.ctx, f.admin.ID, f.company.ID, payment.ID, dto.ReplaceVendorPaymentAllocationsRequest{
		Allocations: []dto.VendorPaymentAllocationInput{{BillID: bill.ID, Amount: decimal.NewFromInt(20)}},
	})
	require.NoError(t, err)

	payment, err = svc.PostVendorPayment(f.ctx, f.admin.ID, f.company.ID, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, payment.JournalEntryID)

	entry, err := f.svcs.Journal.GetJournal(f.ctx, f.admin.ID, f.company.ID, *payment.JournalEntryID)
	require.NoError(t, err)
	assert.True(t, entry.Balanced())
	var totalDebit decimal.Decimal
	for _, line := range entry.Lines {
		totalDebit = totalDebit.Add(line.Debit)
	}
	assert.True(t, totalDebit.Equal(decimal.NewFromInt(50)), "full payment amount posts, not just the allocated part")
}

func TestPurchasesService_AllocationAgainstDraftBillRejected(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Purchases

	bill := draftBill(t, f)

	payment, err := svc.CreateVendorPayment(f.ctx, f.admin.ID, f.company.ID, dto.CreateVendorPaymentRequest{
		VendorID:         f.vendor.ID,
		PaidDate:         "2026-02-15",
		Amount:           decimal.NewFromInt(10),
		PaymentAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)
	_, err = svc.ReplaceVendorPaymentAllocations(f.ctx, f.admin.ID, f.company.ID, payment.ID, dto.ReplaceVendorPaymentAllocationsRequest{
		Allocations: []dto.VendorPaymentAllocationInput{{BillID: bill.ID, Amount: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPurchasesService_APAging(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Purchases

	bill := draftBill(t, f)
	_, err := svc.PostBill(f.ctx, f.admin.ID, f.company.ID, bill.ID)
	require.NoError(t, err)

	rows, err := svc.APAging(f.ctx, f.admin.ID, f.company.ID, "2026-02-20")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.vendor.Name, rows[0].VendorName)
	assert.True(t, rows[0].OpenAmount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, domain.Bucket0To30, rows[0].Bucket)
}
