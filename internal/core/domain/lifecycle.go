package domain

import (
	"fmt"

	"github.com/ledgerline/ledgerline/internal/apperrors"
)

// Status is the lifecycle state of a financial document. Not every status is
// legal for every document kind; see KindStatuses.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPosted        Status = "posted"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusVoid          Status = "void"
	StatusFinalized     Status = "finalized"
)

// DocumentKind identifies which transition table applies to a document.
type DocumentKind string

const (
	KindInvoice        DocumentKind = "invoice"
	KindBill           DocumentKind = "bill"
	KindReceipt        DocumentKind = "receipt"
	KindVendorPayment  DocumentKind = "vendor_payment"
	KindJournal        DocumentKind = "journal"
	KindReconciliation DocumentKind = "reconciliation"
)

// Action is a lifecycle operation on a document.
type Action string

const (
	ActionReplaceLines Action = "replace_lines"
	ActionPost         Action = "post"
	ActionVoid         Action = "void"
	ActionFinalize     Action = "finalize"
)

// transitions maps, per kind and action, the set of statuses the action is
// legal from and the status it lands in. Lines and allocations share one
// "replace" action: both are wholesale replacements, legal only in draft, and
// leave the document in draft.
var transitions = map[DocumentKind]map[Action]map[Status]Status{
	KindInvoice: {
		ActionReplaceLines: {StatusDraft: StatusDraft},
		ActionPost:         {StatusDraft: StatusPosted},
		ActionVoid:         {StatusPosted: StatusVoid, StatusPartiallyPaid: StatusVoid},
	},
	KindBill: {
		ActionReplaceLines: {StatusDraft: StatusDraft},
		ActionPost:         {StatusDraft: StatusPosted},
		ActionVoid:         {StatusPosted: StatusVoid, StatusPartiallyPaid: StatusVoid},
	},
	KindReceipt: {
		ActionReplaceLines: {StatusDraft: StatusDraft},
		ActionPost:         {StatusDraft: StatusPosted},
		ActionVoid:         {StatusPosted: StatusVoid},
	},
	KindVendorPayment: {
		ActionReplaceLines: {StatusDraft: StatusDraft},
		ActionPost:         {StatusDraft: StatusPosted},
		ActionVoid:         {StatusPosted: StatusVoid},
	},
	KindJournal: {
		ActionReplaceLines: {StatusDraft: StatusDraft},
		ActionPost:         {StatusDraft: StatusPosted},
		ActionVoid:         {StatusPosted: StatusVoid},
	},
	KindReconciliation: {
		ActionReplaceLines: {StatusDraft: StatusDraft},
		ActionFinalize:     {StatusDraft: StatusFinalized},
	},
}

// kindStatuses lists the statuses each kind can legally carry.
var kindStatuses = map[DocumentKind][]Status{
	KindInvoice:        {StatusDraft, StatusPosted, StatusPartiallyPaid, StatusPaid, StatusVoid},
	KindBill:           {StatusDraft, StatusPosted, StatusPartiallyPaid, StatusPaid, StatusVoid},
	KindReceipt:        {StatusDraft, StatusPosted, StatusVoid},
	KindVendorPayment:  {StatusDraft, StatusPosted, StatusVoid},
	KindJournal:        {StatusDraft, StatusPosted, StatusVoid},
	KindReconciliation: {StatusDraft, StatusFinalized},
}

// KindStatuses returns the legal statuses for a document kind.
func KindStatuses(kind DocumentKind) []Status {
	return kindStatuses[kind]
}

// ValidStatus reports whether status is legal for the given kind.
func ValidStatus(kind DocumentKind, status Status) bool {
	for _, s := range kindStatuses[kind] {
		if s == status {
			return true
		}
	}
	return false
}

// Can reports whether action is legal from the given status for the kind.
func Can(kind DocumentKind, status Status, action Action) bool {
	byAction, ok := transitions[kind]
	if !ok {
		return false
	}
	from, ok := byAction[action]
	if !ok {
		return false
	}
	_, ok = from[status]
	return ok
}

// Apply returns the status a document lands in after the action, or a
// conflict error when the action is illegal from the current status.
func Apply(kind DocumentKind, status Status, action Action) (Status, error) {
	byAction, ok := transitions[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	from, ok := byAction[action]
	if !ok {
		return "", fmt.Errorf("%w: %s does not support %s", apperrors.ErrConflict, kind, action)
	}
	next, ok := from[status]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a %s %s", apperrors.ErrConflict, action, status, kind)
	}
	return next, nil
}

// IsTerminal reports whether no action leads out of the given status.
func IsTerminal(kind DocumentKind, status Status) bool {
	byAction, ok := transitions[kind]
	if !ok {
		return true
	}
	for _, from := range byAction {
		if _, ok := from[status]; ok {
			return false
		}
	}
	return true
}
