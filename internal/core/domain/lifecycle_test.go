package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
)

func TestApply_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.DocumentKind
		status domain.Status
		action domain.Action
		want   domain.Status
	}{
		{"draft invoice accepts line replacement", domain.KindInvoice, domain.StatusDraft, domain.ActionReplaceLines, domain.StatusDraft},
		{"draft invoice posts", domain.KindInvoice, domain.StatusDraft, domain.ActionPost, domain.StatusPosted},
		{"posted invoice voids", domain.KindInvoice, domain.StatusPosted, domain.ActionVoid, domain.StatusVoid},
		{"partially paid invoice voids", domain.KindInvoice, domain.StatusPartiallyPaid, domain.ActionVoid, domain.StatusVoid},
		{"draft bill posts", domain.KindBill, domain.StatusDraft, domain.ActionPost, domain.StatusPosted},
		{"draft receipt posts", domain.KindReceipt, domain.StatusDraft, domain.ActionPost, domain.StatusPosted},
		{"posted receipt voids", domain.KindReceipt, domain.StatusPosted, domain.ActionVoid, domain.StatusVoid},
		{"draft journal posts", domain.KindJournal, domain.StatusDraft, domain.ActionPost, domain.StatusPosted},
		{"draft reconciliation finalizes", domain.KindReconciliation, domain.StatusDraft, domain.ActionFinalize, domain.StatusFinalized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.Apply(tt.kind, tt.status, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.DocumentKind
		status domain.Status
		action domain.Action
	}{
		{"posted invoice rejects line replacement", domain.KindInvoice, domain.StatusPosted, domain.ActionReplaceLines},
		{"posted invoice rejects re-post", domain.KindInvoice, domain.StatusPosted, domain.ActionPost},
		{"void invoice rejects void", domain.KindInvoice, domain.StatusVoid, domain.ActionVoid},
		{"draft invoice rejects void", domain.KindInvoice, domain.StatusDraft, domain.ActionVoid},
		{"partially paid receipt is not a legal source", domain.KindReceipt, domain.StatusPartiallyPaid, domain.ActionVoid},
		{"reconciliation rejects post", domain.KindReconciliation, domain.StatusDraft, domain.ActionPost},
		{"finalized reconciliation rejects line replacement", domain.KindReconciliation, domain.StatusFinalized, domain.ActionReplaceLines},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.Apply(tt.kind, tt.status, tt.action)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConflict)
		})
	}
}

func TestApply_UnknownKind(t *testing.T) {
	_, err := domain.Apply(domain.DocumentKind("purchase_order"), domain.StatusDraft, domain.ActionPost)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, domain.IsTerminal(domain.KindInvoice, domain.StatusDraft))
	assert.False(t, domain.IsTerminal(domain.KindInvoice, domain.StatusPosted))
	assert.True(t, domain.IsTerminal(domain.KindInvoice, domain.StatusVoid))
	assert.True(t, domain.IsTerminal(domain.KindInvoice, domain.StatusPaid))
	assert.True(t, domain.IsTerminal(domain.KindReconciliation, domain.StatusFinalized))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, domain.ValidStatus(domain.KindInvoice, domain.StatusPartiallyPaid))
	assert.False(t, domain.ValidStatus(domain.KindReceipt, domain.StatusPartiallyPaid))
	assert.False(t, domain.ValidStatus(domain.KindJournal, domain.StatusFinalized))
	assert.True(t, domain.ValidStatus(domain.KindReconciliation, domain.StatusFinalized))
}

// The per-document guard methods are what UI-facing callers check before
// issuing a lifecycle call. Posting additionally requires lines where the
// document carries them.
func TestDocumentGuards(t *testing.T) {
	line := domain.InvoiceLine{Description: "Consulting"}

	t.Run("invoice", func(t *testing.T) {
		empty := domain.Invoice{Status: domain.StatusDraft}
		assert.False(t, empty.CanPost(), "a draft with no lines must not post")
		assert.True(t, empty.CanReplaceLines())

		draft := domain.Invoice{Status: domain.StatusDraft, Lines: []domain.InvoiceLine{line}}
		assert.True(t, draft.CanPost())
		assert.False(t, draft.CanVoid())

		posted := domain.Invoice{Status: domain.StatusPosted, Lines: []domain.InvoiceLine{line}}
		assert.False(t, posted.CanPost())
		assert.False(t, posted.CanReplaceLines())
		assert.True(t, posted.CanVoid())

		partiallyPaid := domain.Invoice{Status: domain.StatusPartiallyPaid, Lines: []domain.InvoiceLine{line}}
		assert.True(t, partiallyPaid.CanVoid())

		void := domain.Invoice{Status: domain.StatusVoid, Lines: []domain.InvoiceLine{line}}
		assert.False(t, void.CanVoid())
	})

	t.Run("bill", func(t *testing.T) {
		empty := domain.Bill{Status: domain.StatusDraft}
		assert.False(t, empty.CanPost())
		bill := domain.Bill{Status: domain.StatusDraft, Lines: []domain.BillLine{{Description: "Paper"}}}
		assert.True(t, bill.CanPost())
		assert.True(t, domain.Bill{Status: domain.StatusPartiallyPaid}.CanVoid())
	})

	t.Run("receipt", func(t *testing.T) {
		assert.True(t, domain.Receipt{Status: domain.StatusDraft}.CanPost())
		assert.True(t, domain.Receipt{Status: domain.StatusDraft}.CanReplaceAllocations())
		assert.False(t, domain.Receipt{Status: domain.StatusPosted}.CanPost())
		assert.True(t, domain.Receipt{Status: domain.StatusPosted}.CanVoid())
		assert.False(t, domain.Receipt{Status: domain.StatusVoid}.CanVoid())
	})

	t.Run("vendor payment", func(t *testing.T) {
		assert.True(t, domain.VendorPayment{Status: domain.StatusDraft}.CanPost())
		assert.True(t, domain.VendorPayment{Status: domain.StatusDraft}.CanReplaceAllocations())
		assert.False(t, domain.VendorPayment{Status: domain.StatusPosted}.CanReplaceAllocations())
		assert.True(t, domain.VendorPayment{Status: domain.StatusPosted}.CanVoid())
	})

	t.Run("journal", func(t *testing.T) {
		assert.False(t, domain.JournalEntry{Status: domain.StatusDraft}.CanPost(), "a journal with no lines must not post")
		entry := domain.JournalEntry{Status: domain.StatusDraft, Lines: []domain.JournalLine{{}}}
		assert.True(t, entry.CanPost())
		assert.True(t, domain.JournalEntry{Status: domain.StatusPosted}.CanVoid())
	})

	t.Run("reconciliation", func(t *testing.T) {
		assert.True(t, domain.BankReconciliation{Status: domain.StatusDraft}.CanFinalize())
		assert.True(t, domain.BankReconciliation{Status: domain.StatusDraft}.CanReplaceLines())
		assert.False(t, domain.BankReconciliation{Status: domain.StatusFinalized}.CanFinalize())
		assert.False(t, domain.BankReconciliation{Status: domain.StatusFinalized}.CanReplaceLines())
	})
}
