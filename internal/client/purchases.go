package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// FetchBills lists bills, optionally filtered by status.
func (c *Client) FetchBills(ctx context.Context, companyID string, status domain.Status) ([]domain.Bill, error) {
	return callList[domain.Bill](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/purchases/companies/%s/bills/", companyID),
		query: withQuery(map[string]string{"status": string(status)}), requiresAuth: true,
	})
}

// FetchBill fetches one bill with its lines.
func (c *Client) FetchBill(ctx context.Context, companyID, billID string) (*domain.Bill, error) {
	var bill domain.Bill
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/purchases/companies/%s/bills/%s/", companyID, billID),
		requiresAuth: true,
	}, &bill)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// CreateBill creates a draft bill header.
func (c *Client) CreateBill(ctx context.Context, companyID string, req dto.CreateBillRequest) (*domain.Bill, error) {
	var bill domain.Bill
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/purchases/companies/%s/bills/", companyID),
		body: req, requiresAuth: true,
	}, &bill)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// UpdateBill replaces a draft bill's header fields.
func (c *Client) UpdateBill(ctx context.Context, companyID, billID string, req dto.CreateBillRequest) (*domain.Bill, error) {
	var bill domain.Bill
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/purchases/companies/%s/bills/%s/", companyID, billID),
		body: req, requiresAuth: true,
	}, &bill)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// ReplaceBillLines replaces all lines of a draft bill wholesale.
func (c *Client) ReplaceBillLines(ctx context.Context, companyID, billID string, lines []dto.BillLineInput) (*domain.Bill, error) {
	var bill domain.Bill
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/purchases/companies/%s/bills/%s/lines/", companyID, billID),
		body: dto.ReplaceBillLinesRequest{Lines: lines}, requiresAuth: true,
	}, &bill)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// PostBill posts a draft bill; the server assigns bill_no.
func (c *Client) PostBill(ctx context.Context, companyID, billID string) (*domain.Bill, error) {
	var bill domain.Bill
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/purchases/companies/%s/bills/%s/post/", companyID, billID),
		body: struct{}{}, requiresAuth: true,
	}, &bill)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// VoidBill voids a posted or partially paid bill. Void is terminal.
func (c *Client) VoidBill(ctx context.Context, companyID, billID string) (*domain.Bill, error) {
	var bill domain.Bill
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/purchases/companies/%s/bills/%s/void/", companyID, billID),
		body: struct{}{}, requiresAuth: true,
	}, &bill)
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// FetchVendorPayments lists vendor payments.
func (c *Client) FetchVendorPayments(ctx context.Context, companyID string) ([]domain.VendorPayment, error) {
	return callList[domain.VendorPayment](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/purchases/companies/%s/vendor-payments/", companyID), requiresAuth: true,
	})
}

// FetchVendorPayment fetches one vendor payment with its allocations.
func (c *Client) FetchVendorPayment(ctx context.Context, companyID, paymentID string) (*domain.VendorPayment, error) {
	var payment domain.VendorPayment
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/purchases/companies/%s/vendor-payments/%s/", companyID, paymentID),
		requiresAuth: true,
	}, &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreateVendorPayment creates a draft vendor payment. Keyed mutation, same
// contract as CreateReceipt.
func (c *Client) CreateVendorPayment(ctx context.Context, companyID string, req dto.CreateVendorPaymentRequest, key IdempotencyKey) (*domain.VendorPayment, error) {
	var payment domain.VendorPayment
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/purchases/companies/%s/vendor-payments/", companyID),
		body: req, headers: map[string]string{IdempotencyKeyHeader: key.String()}, requiresAuth: true,
	}, &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateVendorPayment replaces a draft payment's header fields.
func (c *Client) UpdateVendorPayment(ctx context.Context, companyID, paymentID string, req dto.CreateVendorPaymentRequest) (*domain.VendorPayment, error) {
	var payment domain.VendorPayment
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/purchases/companies/%s/vendor-payments/%s/", companyID, paymentID),
		body: req, requiresAuth: true,
	}, &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ReplaceVendorPaymentAllocations replaces all allocations of a draft payment
// wholesale.
func (c *Client) ReplaceVendorPaymentAllocations(ctx context.Context, companyID, paymentID string, allocations []dto.VendorPaymentAllocationInput) (*domain.VendorPayment, error) {
	var payment domain.VendorPayment
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/purchases/companies/%s/vendor-payments/%s/allocations/", companyID, paymentID),
		body: dto.ReplaceVendorPaymentAllocationsRequest{Allocations: allocations}, requiresAuth: true,
	}, &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// PostVendorPayment posts a draft payment, applying its allocations to the
// open bills. Keyed separately from creation.
func (c *Client) PostVendorPayment(ctx context.Context, companyID, paymentID string, key IdempotencyKey) (*domain.VendorPayment, error) {
	var payment domain.VendorPayment
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/purchases/companies/%s/vendor-payments/%s/post/", companyID, paymentID),
		body: struct{}{}, headers: map[string]string{IdempotencyKeyHeader: key.String()}, requiresAuth: true,
	}, &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// VoidVendorPayment voids a posted payment.
func (c *Client) VoidVendorPayment(ctx context.Context, companyID, paymentID string) (*domain.VendorPayment, error) {
	var payment domain.VendorPayment
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/purchases/companies/%s/vendor-payments/%s/void/", companyID, paymentID),
		body: struct{}{}, requiresAuth: true,
	}, &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FetchAPAging fetches the accounts-payable aging report.
func (c *Client) FetchAPAging(ctx context.Context, companyID, asOf string) ([]domain.APAgingRow, error) {
	return callList[domain.APAgingRow](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/purchases/companies/%s/reports/ap-aging/", companyID),
		query: withQuery(map[string]string{"as_of": asOf}), requiresAuth: true,
	})
}
