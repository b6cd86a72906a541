package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ledgerline/ledgerline/internal/client"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				fmt.Print("Email: ")
				if _, err := fmt.Scanln(&email); err != nil {
					return err
				}
			}
			if password == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println()
				if err != nil {
					return err
				}
				password = string(raw)
			}
			if err := api.Login(context.Background(), email, password); err != nil {
				return err
			}
			me, err := api.Me(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", me.FullName, me.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			api.Logout()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := api.Me(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", me.FullName, me.Email)
			if me.IsSuperuser {
				fmt.Println("Platform role: super admin")
			}
			return nil
		},
	}
}

func newCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List companies you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := api.FetchCompanies(context.Background())
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "ID\tNAME\tCURRENCY\tTIMEZONE")
			for _, co := range companies {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", co.ID, co.Name, co.BaseCurrency, co.Timezone)
			}
			return w.Flush()
		},
	}
}

func newAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the company chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			accounts, err := api.FetchAccounts(context.Background(), companyID)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "CODE\tNAME\tTYPE\tID")
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Code, a.Name, a.Type, a.ID)
			}
			return w.Flush()
		},
	}
}

func newContactsCmd() *cobra.Command {
	var contactType string
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List company contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			contacts, err := api.FetchContacts(context.Background(), companyID, domain.ContactType(contactType), "")
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "NAME\tTYPE\tEMAIL\tID")
			for _, ct := range contacts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ct.Name, ct.Type, ct.Email, ct.ID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&contactType, "type", "", "filter by contact type (customer, vendor, both)")
	return cmd
}

func newInvoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Work with sales invoices",
	}
	cmd.AddCommand(
		newInvoiceListCmd(),
		newInvoiceCreateCmd(),
		newInvoiceAddLineCmd(),
		newInvoicePostCmd(),
		newInvoiceVoidCmd(),
	)
	return cmd
}

func newInvoiceListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			invoices, err := api.FetchInvoices(context.Background(), companyID, domain.Status(status))
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "NO\tSTATUS\tISSUED\tTOTAL\tPAID\tID")
			for _, inv := range invoices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					docNo(inv.InvoiceNo), inv.Status, inv.IssueDate, inv.Total, inv.AmountPaid, inv.ID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (draft, posted, void, ...)")
	return cmd
}

func newInvoiceCreateCmd() *cobra.Command {
	var req dto.CreateInvoiceRequest
	var dueDate string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft invoice",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			if dueDate != "" {
				req.DueDate = &dueDate
			}
			inv, err := api.CreateInvoice(context.Background(), companyID, req)
			if err != nil {
				return err
			}
			fmt.Printf("Created draft invoice %s\n", inv.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CustomerID, "customer", "", "customer contact ID")
	cmd.Flags().StringVar(&req.IssueDate, "issue-date", "", "issue date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.ARAccountID, "ar-account", "", "accounts receivable account ID")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("issue-date")
	_ = cmd.MarkFlagRequired("ar-account")
	return cmd
}

func newInvoiceAddLineCmd() *cobra.Command {
	var line dto.InvoiceLineInput
	var qty, price string
	cmd := &cobra.Command{
		Use:   "add-line <invoice-id>",
		Short: "Append a line to a draft invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			ctx := context.Background()
			inv, err := api.FetchInvoice(ctx, companyID, args[0])
			if err != nil {
				return err
			}
			if line.Quantity, err = decimal.NewFromString(qty); err != nil {
				return fmt.Errorf("invalid --qty: %w", err)
			}
			if line.UnitPrice, err = decimal.NewFromString(price); err != nil {
				return fmt.Errorf("invalid --price: %w", err)
			}
			lines := make([]dto.InvoiceLineInput, 0, len(inv.Lines)+1)
			for _, l := range inv.Lines {
				lines = append(lines, dto.InvoiceLineInput{
					Description:      l.Description,
					Quantity:         l.Quantity,
					UnitPrice:        l.UnitPrice,
					RevenueAccountID: l.RevenueAccountID,
				})
			}
			lines = append(lines, line)
			inv, err = api.ReplaceInvoiceLines(ctx, companyID, args[0], lines)
			if err != nil {
				return err
			}
			fmt.Printf("Invoice now has %d lines, total %s\n", len(inv.Lines), inv.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&line.Description, "desc", "", "line description")
	cmd.Flags().StringVar(&qty, "qty", "1", "quantity")
	cmd.Flags().StringVar(&price, "price", "", "unit price")
	cmd.Flags().StringVar(&line.RevenueAccountID, "revenue-account", "", "revenue account ID")
	_ = cmd.MarkFlagRequired("desc")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("revenue-account")
	return cmd
}

func newInvoicePostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <invoice-id>",
		Short: "Post a draft invoice to the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			ctx := context.Background()
			inv, err := api.FetchInvoice(ctx, companyID, args[0])
			if err != nil {
				return err
			}
			if !inv.CanPost() {
				return fmt.Errorf("invoice %s cannot be posted from status %q (drafts need at least one line)", args[0], inv.Status)
			}
			inv, err = api.PostInvoice(ctx, companyID, inv.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Posted invoice %s (total %s)\n", docNo(inv.InvoiceNo), inv.Total)
			return nil
		},
	}
}

func newInvoiceVoidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "void <invoice-id>",
		Short: "Void a posted invoice with a reversing entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			ctx := context.Background()
			inv, err := api.FetchInvoice(ctx, companyID, args[0])
			if err != nil {
				return err
			}
			if !inv.CanVoid() {
				return fmt.Errorf("invoice %s cannot be voided from status %q", args[0], inv.Status)
			}
			inv, err = api.VoidInvoice(ctx, companyID, inv.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Voided invoice %s\n", docNo(inv.InvoiceNo))
			return nil
		},
	}
}

func newReceiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Work with customer receipts",
	}
	cmd.AddCommand(
		newReceiptListCmd(),
		newReceiptCreateCmd(),
		newReceiptAllocateCmd(),
		newReceiptPostCmd(),
	)
	return cmd
}

func newReceiptListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List receipts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			receipts, err := api.FetchReceipts(context.Background(), companyID)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "NO\tSTATUS\tRECEIVED\tAMOUNT\tID")
			for _, r := range receipts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					docNo(r.ReceiptNo), r.Status, r.ReceivedDate, r.Amount, r.ID)
			}
			return w.Flush()
		},
	}
}

func newReceiptCreateCmd() *cobra.Command {
	var req dto.CreateReceiptRequest
	var amount string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft receipt",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			var err error
			if req.Amount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			r, err := api.CreateReceipt(context.Background(), companyID, req,
				client.NewIdempotencyKey("receipt-create"))
			if err != nil {
				return err
			}
			fmt.Printf("Created draft receipt %s\n", r.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CustomerID, "customer", "", "customer contact ID")
	cmd.Flags().StringVar(&req.ReceivedDate, "received-date", "", "received date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amount, "amount", "", "received amount")
	cmd.Flags().StringVar(&req.DepositAccountID, "deposit-account", "", "deposit account ID")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("received-date")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("deposit-account")
	return cmd
}

func newReceiptAllocateCmd() *cobra.Command {
	var invoiceID, amount string
	cmd := &cobra.Command{
		Use:   "allocate <receipt-id>",
		Short: "Allocate part of a draft receipt to an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			ctx := context.Background()
			r, err := api.FetchReceipt(ctx, companyID, args[0])
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			allocs := make([]dto.ReceiptAllocationInput, 0, len(r.Allocations)+1)
			for _, a := range r.Allocations {
				allocs = append(allocs, dto.ReceiptAllocationInput{InvoiceID: a.InvoiceID, Amount: a.Amount})
			}
			allocs = append(allocs, dto.ReceiptAllocationInput{InvoiceID: invoiceID, Amount: amt})
			r, err = api.ReplaceReceiptAllocations(ctx, companyID, args[0], allocs)
			if err != nil {
				return err
			}
			fmt.Printf("Receipt has %d allocations\n", len(r.Allocations))
			return nil
		},
	}
	cmd.Flags().StringVar(&invoiceID, "invoice", "", "invoice ID to allocate against")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to allocate")
	_ = cmd.MarkFlagRequired("invoice")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newReceiptPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <receipt-id>",
		Short: "Post a draft receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			ctx := context.Background()
			r, err := api.FetchReceipt(ctx, companyID, args[0])
			if err != nil {
				return err
			}
			if !r.CanPost() {
				return fmt.Errorf("receipt %s cannot be posted from status %q", args[0], r.Status)
			}
			r, err = api.PostReceipt(ctx, companyID, r.ID,
				client.NewIdempotencyKey("receipt-post"))
			if err != nil {
				return err
			}
			fmt.Printf("Posted receipt %s (amount %s)\n", docNo(r.ReceiptNo), r.Amount)
			return nil
		},
	}
}

func newTrialBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance from posted journals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCompany(); err != nil {
				return err
			}
			rows, err := api.FetchTrialBalance(context.Background(), companyID)
			if err != nil {
				return err
			}
			w := newTable()
			fmt.Fprintln(w, "CODE\tACCOUNT\tDEBIT\tCREDIT")
			totalDebit, totalCredit := decimal.Zero, decimal.Zero
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.AccountCode, row.AccountName, row.TotalDebit, row.TotalCredit)
				totalDebit = totalDebit.Add(row.TotalDebit)
				totalCredit = totalCredit.Add(row.TotalCredit)
			}
			fmt.Fprintf(w, "\tTOTAL\t%s\t%s\n", totalDebit, totalCredit)
			return w.Flush()
		},
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func docNo(n *int64) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}
