package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/client"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/handlers"
	"github.com/ledgerline/ledgerline/internal/middleware"
	"github.com/ledgerline/ledgerline/internal/platform/config"
	"github.com/ledgerline/ledgerline/internal/repositories/memory"
	"github.com/ledgerline/ledgerline/internal/utils"
)

// e2eEnv runs the full HTTP stack, from the SDK client through the gin router
// down to the in-memory store, with one seeded company.
type e2eEnv struct {
	ctx      context.Context
	api      *client.Client
	company  domain.Company
	admin    domain.User
	accounts map[string]domain.Account
	customer domain.Contact
}

func newE2EEnv(t *testing.T) *e2eEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	repos := memory.Provider(memory.NewStore())
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpiryDuration:  15 * time.Minute,
		JWTIssuer:          "ledgerline-test",
		RefreshTokenExpiry: 24 * time.Hour,
	}

	env := &e2eEnv{ctx: ctx, accounts: make(map[string]domain.Account)}

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	env.admin = domain.User{ID: uuid.NewString(), Email: "admin@test.dev", FullName: "Test Admin", IsActive: true}
	require.NoError(t, repos.UserRepo.CreateUser(ctx, env.admin, hash))

	env.company = domain.Company{
		ID:                   uuid.NewString(),
		Name:                 "Test Co",
		Slug:                 "test-co",
		BaseCurrency:         "USD",
		Timezone:             "UTC",
		FiscalYearStartMonth: 1,
		IsActive:             true,
	}
	require.NoError(t, repos.CompanyRepo.CreateCompany(ctx, env.company))
	require.NoError(t, repos.CompanyRepo.UpsertMember(ctx, domain.CompanyMember{
		CompanyID: env.company.ID, UserID: env.admin.ID, Email: env.admin.Email,
		Status: domain.MemberActive, Roles: []string{domain.RoleAdmin},
	}))

	chart := []struct {
		code string
		name string
		typ  domain.AccountType
		bal  domain.NormalBalance
	}{
		{"1000", "Cash at Bank", domain.Asset, domain.NormalDebit},
		{"1100", "Accounts Receivable", domain.Asset, domain.NormalDebit},
		{"4000", "Service Revenue", domain.Income, domain.NormalCredit},
	}
	for _, a := range chart {
		account := domain.Account{
			ID: uuid.NewString(), CompanyID: env.company.ID,
			Code: a.code, Name: a.name, Type: a.typ, NormalBalance: a.bal, IsActive: true,
		}
		require.NoError(t, repos.CompanyRepo.CreateAccount(ctx, account))
		env.accounts[a.code] = account
	}

	env.customer = domain.Contact{
		ID: uuid.NewString(), CompanyID: env.company.ID,
		Type: domain.ContactCustomer, Name: "Northwind Traders", IsActive: true,
	}
	require.NoError(t, repos.CompanyRepo.CreateContact(ctx, env.customer))

	engine := gin.New()
	engine.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(engine, cfg, services.NewContainer(repos, cfg))

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	env.api = client.New(srv.URL + "/api/v1")
	return env
}

func (e *e2eEnv) login(t *testing.T) {
	t.Helper()
	require.NoError(t, e.api.Login(e.ctx, e.admin.Email, "password123"))
	require.True(t, e.api.Session().Authenticated())
}

// postedInvoice drives a 100.00 invoice from draft through posting over HTTP.
func (e *e2eEnv) postedInvoice(t *testing.T) *domain.Invoice {
	t.Helper()
	inv, err := e.api.CreateInvoice(e.ctx, e.company.ID, dto.CreateInvoiceRequest{
		CustomerID:  e.customer.ID,
		IssueDate:   "2026-03-01",
		ARAccountID: e.accounts["1100"].ID,
	})
	require.NoError(t, err)

	inv, err = e.api.ReplaceInvoiceLines(e.ctx, e.company.ID, inv.ID, []dto.InvoiceLineInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.RequireFromString("25.00"), RevenueAccountID: e.accounts["4000"].ID},
	})
	require.NoError(t, err)

	inv, err = e.api.PostInvoice(e.ctx, e.company.ID, inv.ID)
	require.NoError(t, err)
	return inv
}

func TestE2E_LoginAndProfile(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)

	me, err := env.api.Me(env.ctx)
	require.NoError(t, err)
	require.Equal(t, env.admin.ID, me.ID)
	require.Equal(t, env.admin.Email, me.Email)

	companies, err := env.api.FetchCompanies(env.ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, env.company.ID, companies[0].ID)
}

func TestE2E_LoginRejectsBadPassword(t *testing.T) {
	env := newE2EEnv(t)

	err := env.api.Login(env.ctx, env.admin.Email, "wrong")
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusUnauthorized))
	require.False(t, env.api.Session().Authenticated())
}

func TestE2E_UnauthenticatedRequestFails(t *testing.T) {
	env := newE2EEnv(t)

	_, err := env.api.FetchCompanies(env.ctx)
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func TestE2E_InvoiceLifecycle(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)

	inv, err := env.api.CreateInvoice(env.ctx, env.company.ID, dto.CreateInvoiceRequest{
		CustomerID:  env.customer.ID,
		IssueDate:   "2026-03-01",
		ARAccountID: env.accounts["1100"].ID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, inv.Status)
	require.Nil(t, inv.InvoiceNo)

	inv, err = env.api.ReplaceInvoiceLines(env.ctx, env.company.ID, inv.ID, []dto.InvoiceLineInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.RequireFromString("25.00"), RevenueAccountID: env.accounts["4000"].ID},
	})
	require.NoError(t, err)
	require.True(t, inv.Total.Equal(decimal.RequireFromString("100.00")))

	inv, err = env.api.PostInvoice(env.ctx, env.company.ID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPosted, inv.Status)
	require.NotNil(t, inv.InvoiceNo)
	require.Equal(t, int64(1), *inv.InvoiceNo)
	require.NotNil(t, inv.JournalEntryID)

	// Posted documents are frozen; line edits come back as a conflict.
	_, err = env.api.ReplaceInvoiceLines(env.ctx, env.company.ID, inv.ID, nil)
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusConflict))

	inv, err = env.api.VoidInvoice(env.ctx, env.company.ID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusVoid, inv.Status)

	_, err = env.api.VoidInvoice(env.ctx, env.company.ID, inv.ID)
	require.True(t, client.IsStatus(err, http.StatusConflict))
}

func TestE2E_ReceiptPartiallyPaysInvoice(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)
	inv := env.postedInvoice(t)

	rcpt, err := env.api.CreateReceipt(env.ctx, env.company.ID, dto.CreateReceiptRequest{
		CustomerID:       env.customer.ID,
		ReceivedDate:     "2026-03-10",
		Amount:           decimal.RequireFromString("50.00"),
		DepositAccountID: env.accounts["1000"].ID,
	}, client.NewIdempotencyKey("receipt-create"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, rcpt.Status)

	rcpt, err = env.api.ReplaceReceiptAllocations(env.ctx, env.company.ID, rcpt.ID, []dto.ReceiptAllocationInput{
		{InvoiceID: inv.ID, Amount: decimal.RequireFromString("50.00")},
	})
	require.NoError(t, err)

	rcpt, err = env.api.PostReceipt(env.ctx, env.company.ID, rcpt.ID, client.NewIdempotencyKey("receipt-post"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusPosted, rcpt.Status)

	inv, err = env.api.FetchInvoice(env.ctx, env.company.ID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPartiallyPaid, inv.Status)
	require.True(t, inv.Outstanding().Equal(decimal.RequireFromString("50.00")))
}

func TestE2E_ReceiptCreateReplaySameKeyReturnsSameReceipt(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)

	key := client.NewIdempotencyKey("receipt-create")
	req := dto.CreateReceiptRequest{
		CustomerID:       env.customer.ID,
		ReceivedDate:     "2026-03-10",
		Amount:           decimal.RequireFromString("50.00"),
		DepositAccountID: env.accounts["1000"].ID,
	}

	first, err := env.api.CreateReceipt(env.ctx, env.company.ID, req, key)
	require.NoError(t, err)
	replay, err := env.api.CreateReceipt(env.ctx, env.company.ID, req, key)
	require.NoError(t, err)
	require.Equal(t, first.ID, replay.ID)

	receipts, err := env.api.FetchReceipts(env.ctx, env.company.ID)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
}

func TestE2E_ReceiptCreateKeyReuseWithDifferentBodyConflicts(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)

	key := client.NewIdempotencyKey("receipt-create")
	req := dto.CreateReceiptRequest{
		CustomerID:       env.customer.ID,
		ReceivedDate:     "2026-03-10",
		Amount:           decimal.RequireFromString("50.00"),
		DepositAccountID: env.accounts["1000"].ID,
	}
	_, err := env.api.CreateReceipt(env.ctx, env.company.ID, req, key)
	require.NoError(t, err)

	req.Amount = decimal.RequireFromString("75.00")
	_, err = env.api.CreateReceipt(env.ctx, env.company.ID, req, key)
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusConflict))

	receipts, err := env.api.FetchReceipts(env.ctx, env.company.ID)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
}

func TestE2E_ReceiptPostKeyReuseOnAnotherReceiptConflicts(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)

	newDraft := func() *domain.Receipt {
		r, err := env.api.CreateReceipt(env.ctx, env.company.ID, dto.CreateReceiptRequest{
			CustomerID:       env.customer.ID,
			ReceivedDate:     "2026-03-10",
			Amount:           decimal.RequireFromString("25.00"),
			DepositAccountID: env.accounts["1000"].ID,
		}, client.NewIdempotencyKey("receipt-create"))
		require.NoError(t, err)
		return r
	}
	first := newDraft()
	second := newDraft()

	postKey := client.NewIdempotencyKey("receipt-post")
	posted, err := env.api.PostReceipt(env.ctx, env.company.ID, first.ID, postKey)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPosted, posted.Status)

	// Post bodies are identical, so only the target path distinguishes the
	// two requests. The reused key must conflict, not hand back the first
	// receipt's response.
	_, err = env.api.PostReceipt(env.ctx, env.company.ID, second.ID, postKey)
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusConflict))

	second, err = env.api.FetchReceipt(env.ctx, env.company.ID, second.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, second.Status)
}

func TestE2E_StaleAccessTokenRefreshedTransparently(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)

	refresh := env.api.Session().RefreshToken()
	env.api.Session().SetTokens("not-a-valid-jwt", refresh)

	me, err := env.api.Me(env.ctx)
	require.NoError(t, err)
	require.Equal(t, env.admin.ID, me.ID)

	// The transparent refresh minted a real access token and rotated the
	// refresh token.
	require.NotEqual(t, "not-a-valid-jwt", env.api.Session().AccessToken())
	require.NotEqual(t, refresh, env.api.Session().RefreshToken())
}

func TestE2E_LogoutEndsSession(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)

	env.api.Logout()
	require.False(t, env.api.Session().Authenticated())

	// With no tokens at all there is nothing to refresh with; the request
	// fails outright instead of looping through the refresh path.
	_, err := env.api.Me(env.ctx)
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func TestE2E_TrialBalanceAfterPosting(t *testing.T) {
	env := newE2EEnv(t)
	env.login(t)
	env.postedInvoice(t)

	rows, err := env.api.FetchTrialBalance(env.ctx, env.company.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var debits, credits decimal.Decimal
	for _, row := range rows {
		debits = debits.Add(row.TotalDebit)
		credits = credits.Add(row.TotalCredit)
	}
	require.True(t, debits.Equal(credits))
	require.True(t, debits.Equal(decimal.RequireFromString("100.00")))
}
