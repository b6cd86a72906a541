package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// FetchInvoices lists invoices, optionally filtered by status.
func (c *Client) FetchInvoices(ctx context.Context, companyID string, status domain.Status) ([]domain.Invoice, error) {
	return callList[domain.Invoice](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/sales/companies/%s/invoices/", companyID),
		query: withQuery(map[string]string{"status": string(status)}), requiresAuth: true,
	})
}

// FetchInvoice fetches one invoice with its lines.
func (c *Client) FetchInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/sales/companies/%s/invoices/%s/", companyID, invoiceID),
		requiresAuth: true,
	}, &invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice creates a draft invoice header.
func (c *Client) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/sales/companies/%s/invoices/", companyID),
		body: req, requiresAuth: true,
	}, &invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateInvoice replaces a draft invoice's header fields.
func (c *Client) UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/sales/companies/%s/invoices/%s/", companyID, invoiceID),
		body: req, requiresAuth: true,
	}, &invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ReplaceInvoiceLines replaces all lines of a draft invoice wholesale.
func (c *Client) ReplaceInvoiceLines(ctx context.Context, companyID, invoiceID string, lines []dto.InvoiceLineInput) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/sales/companies/%s/invoices/%s/lines/", companyID, invoiceID),
		body: dto.ReplaceInvoiceLinesRequest{Lines: lines}, requiresAuth: true,
	}, &invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// PostInvoice posts a draft invoice; the server assigns invoice_no.
func (c *Client) PostInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/sales/companies/%s/invoices/%s/post/", companyID, invoiceID),
		body: struct{}{}, requiresAuth: true,
	}, &invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// VoidInvoice voids a posted or partially paid invoice. Void is terminal.
func (c *Client) VoidInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/sales/companies/%s/invoices/%s/void/", companyID, invoiceID),
		body: struct{}{}, requiresAuth: true,
	}, &invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FetchReceipts lists receipts.
func (c *Client) FetchReceipts(ctx context.Context, companyID string) ([]domain.Receipt, error) {
	return callList[domain.Receipt](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/sales/companies/%s/receipts/", companyID), requiresAuth: true,
	})
}

// FetchReceipt fetches one receipt with its allocations.
func (c *Client) FetchReceipt(ctx context.Context, companyID, receiptID string) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/sales/companies/%s/receipts/%s/", companyID, receiptID),
		requiresAuth: true,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// CreateReceipt creates a draft receipt. This is a money-moving mutation: the
// idempotency key accompanies it so a client-side retry of the same logical
// attempt cannot create two receipts.
func (c *Client) CreateReceipt(ctx context.Context, companyID string, req dto.CreateReceiptRequest, key IdempotencyKey) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/sales/companies/%s/receipts/", companyID),
		body: req, headers: map[string]string{IdempotencyKeyHeader: key.String()}, requiresAuth: true,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// UpdateReceipt replaces a draft receipt's header fields.
func (c *Client) UpdateReceipt(ctx context.Context, companyID, receiptID string, req dto.CreateReceiptRequest) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/sales/companies/%s/receipts/%s/", companyID, receiptID),
		body: req, requiresAuth: true,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ReplaceReceiptAllocations replaces all allocations of a draft receipt
// wholesale.
func (c *Client) ReplaceReceiptAllocations(ctx context.Context, companyID, receiptID string, allocations []dto.ReceiptAllocationInput) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/sales/companies/%s/receipts/%s/allocations/", companyID, receiptID),
		body: dto.ReplaceReceiptAllocationsRequest{Allocations: allocations}, requiresAuth: true,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// PostReceipt posts a draft receipt, applying its allocations to the open
// invoices. Posting is keyed separately from creation: it is a different
// logical operation and never reuses the create key.
func (c *Client) PostReceipt(ctx context.Context, companyID, receiptID string, key IdempotencyKey) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/sales/companies/%s/receipts/%s/post/", companyID, receiptID),
		body: struct{}{}, headers: map[string]string{IdempotencyKeyHeader: key.String()}, requiresAuth: true,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// VoidReceipt voids a posted receipt.
func (c *Client) VoidReceipt(ctx context.Context, companyID, receiptID string) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/sales/companies/%s/receipts/%s/void/", companyID, receiptID),
		body: struct{}{}, requiresAuth: true,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// FetchARAging fetches the accounts-receivable aging report, optionally as of
// a given date.
func (c *Client) FetchARAging(ctx context.Context, companyID, asOf string) ([]domain.ARAgingRow, error) {
	return callList[domain.ARAgingRow](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/sales/companies/%s/reports/ar-aging/", companyID),
		query: withQuery(map[string]string{"as_of": asOf}), requiresAuth: true,
	})
}
