package services_test

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// draftInvoice creates a draft with two lines totaling 100.00.
func draftInvoice(t *testing.T, f *fixture) *domain.Invoice {
	t.Helper()
	inv, err := f.svcs.Sales.CreateInvoice(f.ctx, f.admin.ID, f.company.ID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		IssueDate:   "2026-02-01",
		ARAccountID: f.accounts["1100"].ID,
	})
	require.NoError(t, err)
	inv, err = f.svcs.Sales.ReplaceInvoiceLines(f.ctx, f.admin.ID, f.company.ID, inv.ID, dto.ReplaceInvoiceLinesRequest{
		Lines: []dto.InvoiceLineInput{
			{Description: "Design work", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(20), RevenueAccountID: f.accounts["4000"].ID},
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20), RevenueAccountID: f.accounts["4000"].ID},
		},
	})
	require.NoError(t, err)
	return inv
}

func TestSalesService_InvoiceLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales

	inv := draftInvoice(t, f)
	assert.Equal(t, domain.StatusDraft, inv.Status)
	assert.Nil(t, inv.InvoiceNo)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "USD", inv.CurrencyCode, "currency defaults to the company base currency")

	posted, err := svc.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, posted.Status)
	require.NotNil(t, posted.InvoiceNo)
	assert.Equal(t, int64(1), *posted.InvoiceNo)
	require.NotNil(t, posted.JournalEntryID)

	// Posting wrote a balanced AR/revenue entry.
	entry, err := f.svcs.Journal.GetJournal(f.ctx, f.admin.ID, f.company.ID, *posted.JournalEntryID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, entry.Status)
	assert.Equal(t, "invoice", entry.ReferenceType)
	assert.True(t, entry.Balanced())

	// Terminal transitions stay rejected.
	_, err = svc.ReplaceInvoiceLines(f.ctx, f.admin.ID, f.company.ID, inv.ID, dto.ReplaceInvoiceLinesRequest{
		Lines: []dto.InvoiceLineInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1), RevenueAccountID: f.accounts["4000"].ID}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	voided, err := svc.VoidInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoid, voided.Status)

	_, err = svc.VoidInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "a second void must fail")
}

// Two concurrent posts of one invoice must serialize: exactly one wins, the
// loser sees the posted status as a conflict, and only one journal entry is
// written.
func TestSalesService_ConcurrentPostsSerializePerInvoice(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales
	inv := draftInvoice(t, f)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1, "exactly one of the two posts must fail")
	assert.ErrorIs(t, failures[0], apperrors.ErrConflict)

	posted, err := svc.GetInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, posted.InvoiceNo)
	assert.Equal(t, int64(1), *posted.InvoiceNo)

	entries, err := f.repos.JournalRepo.ListJournals(f.ctx, f.company.ID, "")
	require.NoError(t, err)
	var backing int
	for _, entry := range entries {
		if entry.ReferenceID != nil && *entry.ReferenceID == inv.ID {
			backing++
		}
	}
	assert.Equal(t, 1, backing, "only one journal entry may back the invoice")
}

func TestSalesService_PostInvoiceRequiresLines(t *testing.T) {
	f := newFixture(t)
	inv, err := f.svcs.Sales.CreateInvoice(f.ctx, f.admin.ID, f.company.ID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		IssueDate:   "2026-02-01",
		ARAccountID: f.accounts["1100"].ID,
	})
	require.NoError(t, err)

	_, err = f.svcs.Sales.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSalesService_ReceiptAllocationRollforward(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales

	inv := draftInvoice(t, f)
	_, err := svc.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)

	receipt, err := svc.CreateReceipt(f.ctx, f.admin.ID, f.company.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-10",
		Amount:           decimal.NewFromInt(50),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)

	receipt, err = svc.ReplaceReceiptAllocations(f.ctx, f.admin.ID, f.company.ID, receipt.ID, dto.ReplaceReceiptAllocationsRequest{
		Allocations: []dto.ReceiptAllocationInput{{InvoiceID: inv.ID, Amount: decimal.NewFromInt(50)}},
	})
	require.NoError(t, err)

	receipt, err = svc.PostReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, receipt.Status)
	require.NotNil(t, receipt.ReceiptNo)

	// A 50.00 receipt against a 100.00 invoice leaves it partially paid.
	paid, err := svc.GetInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyPaid, paid.Status)
	assert.True(t, paid.AmountPaid.Equal(decimal.NewFromInt(50)))
	assert.True(t, paid.Outstanding().Equal(decimal.NewFromInt(50)))

	// Voiding the receipt rolls the allocation back out.
	_, err = svc.VoidReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID)
	require.NoError(t, err)
	rolled, err := svc.GetInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, rolled.Status)
	assert.True(t, rolled.AmountPaid.IsZero())
}

func TestSalesService_ReceiptFullPaymentMarksPaid(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales

	inv := draftInvoice(t, f)
	_, err := svc.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)

	receipt, err := svc.CreateReceipt(f.ctx, f.admin.ID, f.company.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-10",
		Amount:           decimal.NewFromInt(100),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)
	_, err = svc.ReplaceReceiptAllocations(f.ctx, f.admin.ID, f.company.ID, receipt.ID, dto.ReplaceReceiptAllocationsRequest{
		Allocations: []dto.ReceiptAllocationInput{{InvoiceID: inv.ID, Amount: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	_, err = svc.PostReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID)
	require.NoError(t, err)

	paid, err := svc.GetInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)
	assert.True(t, paid.Outstanding().IsZero())

	// Paid is terminal for allocation purposes: a further allocation against
	// this invoice must be rejected.
	other, err := svc.CreateReceipt(f.ctx, f.admin.ID, f.company.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-11",
		Amount:           decimal.NewFromInt(10),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)
	_, err = svc.ReplaceReceiptAllocations(f.ctx, f.admin.ID, f.company.ID, other.ID, dto.ReplaceReceiptAllocationsRequest{
		Allocations: []dto.ReceiptAllocationInput{{InvoiceID: inv.ID, Amount: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSalesService_AllocationLimits(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales

	inv := draftInvoice(t, f)
	_, err := svc.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)

	receipt, err := svc.CreateReceipt(f.ctx, f.admin.ID, f.company.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-10",
		Amount:           decimal.NewFromInt(60),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)

	// Allocations exceeding the receipt amount are invalid.
	_, err = svc.ReplaceReceiptAllocations(f.ctx, f.admin.ID, f.company.ID, receipt.ID, dto.ReplaceReceiptAllocationsRequest{
		Allocations: []dto.ReceiptAllocationInput{{InvoiceID: inv.ID, Amount: decimal.NewFromInt(70)}},
	})
	require.Error(t, err)

	// Allocating against a draft invoice is a conflict.
	draft := draftInvoice(t, f)
	_, err = svc.ReplaceReceiptAllocations(f.ctx, f.admin.ID, f.company.ID, receipt.ID, dto.ReplaceReceiptAllocationsRequest{
		Allocations: []dto.ReceiptAllocationInput{{InvoiceID: draft.ID, Amount: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSalesService_UnallocatedReceiptStillBalances(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales

	receipt, err := svc.CreateReceipt(f.ctx, f.admin.ID, f.company.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-10",
		Amount:           decimal.NewFromInt(40),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)

	receipt, err = svc.PostReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, receipt.JournalEntryID)

	entry, err := f.svcs.Journal.GetJournal(f.ctx, f.admin.ID, f.company.ID, *receipt.JournalEntryID)
	require.NoError(t, err)
	assert.True(t, entry.Balanced(), "a receipt with no allocations still posts a balanced entry")
}

func TestSalesService_UpdateReceiptDraftOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales

	receipt, err := svc.CreateReceipt(f.ctx, f.admin.ID, f.company.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-10",
		Amount:           decimal.NewFromInt(40),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-12",
		Amount:           decimal.NewFromInt(45),
		DepositAccountID: f.accounts["1000"].ID,
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(45)))
	assert.Equal(t, "2026-02-12", updated.ReceivedDate)

	_, err = svc.PostReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID)
	require.NoError(t, err)
	_, err = svc.UpdateReceipt(f.ctx, f.admin.ID, f.company.ID, receipt.ID, dto.CreateReceiptRequest{
		CustomerID:       f.customer.ID,
		ReceivedDate:     "2026-02-13",
		Amount:           decimal.NewFromInt(99),
		DepositAccountID: f.accounts["1000"].ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSalesService_ARAging(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Sales

	inv := draftInvoice(t, f)
	_, err := svc.PostInvoice(f.ctx, f.admin.ID, f.company.ID, inv.ID)
	require.NoError(t, err)

	rows, err := svc.ARAging(f.ctx, f.admin.ID, f.company.ID, "2026-03-15")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.customer.Name, rows[0].CustomerName)
	assert.True(t, rows[0].OpenAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 42, rows[0].AgeDays, "issue date stands in for a missing due date")
}
