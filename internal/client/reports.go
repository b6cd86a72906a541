package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ledgerline/ledgerline/internal/core/domain"
)

// ReportPeriod bounds a date-ranged report. Empty fields are omitted and the
// server substitutes its defaults.
type ReportPeriod struct {
	StartDate string
	EndDate   string
}

func (p ReportPeriod) query() map[string]string {
	return map[string]string{"start_date": p.StartDate, "end_date": p.EndDate}
}

// FetchProfitLoss fetches the income statement for the period.
func (c *Client) FetchProfitLoss(ctx context.Context, companyID string, period ReportPeriod) (*domain.ProfitLossReport, error) {
	var report domain.ProfitLossReport
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/reports/companies/%s/profit-loss/", companyID),
		query: withQuery(period.query()), requiresAuth: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FetchBalanceSheet fetches account balances as of a date.
func (c *Client) FetchBalanceSheet(ctx context.Context, companyID, asOf string) (*domain.BalanceSheetReport, error) {
	var report domain.BalanceSheetReport
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/reports/companies/%s/balance-sheet/", companyID),
		query: withQuery(map[string]string{"as_of": asOf}), requiresAuth: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FetchCashFlow fetches cash movement over the period.
func (c *Client) FetchCashFlow(ctx context.Context, companyID string, period ReportPeriod) (*domain.CashFlowReport, error) {
	var report domain.CashFlowReport
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/reports/companies/%s/cash-flow/", companyID),
		query: withQuery(period.query()), requiresAuth: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FetchReportTrialBalance fetches the period trial balance from the reports
// module. FetchTrialBalance on the journals surface serves the ledger view.
func (c *Client) FetchReportTrialBalance(ctx context.Context, companyID string, period ReportPeriod) (*domain.ReportTrialBalance, error) {
	var report domain.ReportTrialBalance
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/reports/companies/%s/trial-balance/", companyID),
		query: withQuery(period.query()), requiresAuth: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GeneralLedgerFilter narrows the general ledger report.
type GeneralLedgerFilter struct {
	StartDate string
	EndDate   string
	AccountID string
	Limit     int
}

// FetchGeneralLedger fetches posted journal lines, newest first.
func (c *Client) FetchGeneralLedger(ctx context.Context, companyID string, filter GeneralLedgerFilter) (*domain.GeneralLedgerReport, error) {
	limit := ""
	if filter.Limit > 0 {
		limit = strconv.Itoa(filter.Limit)
	}
	var report domain.GeneralLedgerReport
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/reports/companies/%s/general-ledger/", companyID),
		query: withQuery(map[string]string{
			"start_date": filter.StartDate,
			"end_date":   filter.EndDate,
			"account_id": filter.AccountID,
			"limit":      limit,
		}),
		requiresAuth: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
