package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avoronova/bankledger/internal/models"
)

// Authorizer defines the authorization operations the menu consumes.
type Authorizer interface {
	Register(ctx context.Context, login, password string) (*models.Client, error)
	Login(ctx context.Context, login, password string) (*models.Client, error)
	IssueToken(ctx context.Context, clientID uuid.UUID) (string, error)
}

// Accountant defines the account operations the menu consumes.
type Accountant interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*models.Transaction, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*models.Transaction, error)
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	GetTransactionHistory(ctx context.Context, accountID int64) ([]models.Transaction, error)
	GetClientAccounts(ctx context.Context, clientID uuid.UUID) ([]models.Account, error)
}

// CLI is the interactive text menu front end.
type CLI struct {
	auth     Authorizer
	accounts Accountant
	in       *bufio.Scanner
	out      io.Writer
}

// New creates a CLI reading prompts from in and writing to out.
func New(auth Authorizer, accounts Accountant, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		auth:     auth,
		accounts: accounts,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run shows the main menu until the user exits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, strings.Repeat("=", 50))
		fmt.Fprintln(c.out, "Welcome to the bank")
		fmt.Fprintln(c.out, strings.Repeat("=", 50))
		fmt.Fprintln(c.out, "1. Log in")
		fmt.Fprintln(c.out, "2. Register")
		fmt.Fprintln(c.out, "0. Exit")

		choice, ok := c.prompt("Choose an action: ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			c.loginMenu(ctx)
		case "2":
			c.registerMenu(ctx)
		case "0":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(c.out, "Unknown choice, try again.")
		}
	}
}

func (c *CLI) registerMenu(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Registration ---")
	login, password, ok := c.promptCredentials()
	if !ok {
		return
	}

	if _, err := c.auth.Register(ctx, login, password); err != nil {
		fmt.Fprintf(c.out, "Registration failed: %s\n", errorMessage(err))
		return
	}
	fmt.Fprintf(c.out, "\nClient %s registered successfully!\n", login)
}

func (c *CLI) loginMenu(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Log in ---")
	login, password, ok := c.promptCredentials()
	if !ok {
		return
	}

	client, err := c.auth.Login(ctx, login, password)
	if err != nil {
		fmt.Fprintf(c.out, "Login failed: %s\n", errorMessage(err))
		return
	}
	if _, err := c.auth.IssueToken(ctx, client.ID); err != nil {
		fmt.Fprintf(c.out, "Login failed: %s\n", errorMessage(err))
		return
	}
	fmt.Fprintln(c.out, "\nLogged in successfully!")

	accounts, err := c.accounts.GetClientAccounts(ctx, client.ID)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", errorMessage(err))
		return
	}
	if len(accounts) == 0 {
		fmt.Fprintln(c.out, "You have no accounts!")
		return
	}

	c.accountMenu(ctx, client, accounts[0])
}

func (c *CLI) accountMenu(ctx context.Context, client *models.Client, account models.Account) {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, strings.Repeat("=", 50))
		fmt.Fprintf(c.out, "Client: %s\n", client.Login)
		fmt.Fprintf(c.out, "Account number: %d\n", account.ID)
		fmt.Fprintln(c.out, strings.Repeat("=", 50))
		fmt.Fprintln(c.out, "1. Deposit")
		fmt.Fprintln(c.out, "2. Withdraw")
		fmt.Fprintln(c.out, "3. Show balance")
		fmt.Fprintln(c.out, "4. Show transaction history")
		fmt.Fprintln(c.out, "0. Log out")

		choice, ok := c.prompt("Choose an action: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			amount, ok := c.promptAmount()
			if !ok {
				return
			}
			if _, err := c.accounts.Deposit(ctx, account.ID, amount); err != nil {
				fmt.Fprintf(c.out, "Error: %s\n", errorMessage(err))
				continue
			}
			fmt.Fprintf(c.out, "\nDeposited %s!\n", amount.StringFixed(2))

		case "2":
			amount, ok := c.promptAmount()
			if !ok {
				return
			}
			if _, err := c.accounts.Withdraw(ctx, account.ID, amount); err != nil {
				fmt.Fprintf(c.out, "Error: %s\n", errorMessage(err))
				continue
			}
			fmt.Fprintf(c.out, "\nWithdrew %s!\n", amount.StringFixed(2))

		case "3":
			balance, err := c.accounts.GetBalance(ctx, account.ID)
			if err != nil {
				fmt.Fprintf(c.out, "Error: %s\n", errorMessage(err))
				continue
			}
			fmt.Fprintf(c.out, "\nCurrent balance: %s\n", balance.StringFixed(2))

		case "4":
			history, err := c.accounts.GetTransactionHistory(ctx, account.ID)
			if err != nil {
				fmt.Fprintf(c.out, "Error: %s\n", errorMessage(err))
				continue
			}
			fmt.Fprintln(c.out, "\nTransaction history:")
			if len(history) == 0 {
				fmt.Fprintln(c.out, "  No transactions")
				continue
			}
			for i, txn := range history {
				op := "Deposit "
				if txn.Type == models.TransactionWithdraw {
					op = "Withdraw"
				}
				fmt.Fprintf(c.out, "%d. %s | %s | %s\n",
					i+1, txn.Timestamp.Format("02.01.2006 15:04"), op, txn.Amount.StringFixed(2))
			}

		case "0":
			return
		default:
			fmt.Fprintln(c.out, "Unknown choice, try again.")
		}
	}
}

// prompt prints the prompt and returns one trimmed line.
// ok is false when input is exhausted.
func (c *CLI) prompt(text string) (string, bool) {
	fmt.Fprint(c.out, text)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *CLI) promptCredentials() (login, password string, ok bool) {
	if login, ok = c.prompt("Enter login: "); !ok {
		return "", "", false
	}
	if password, ok = c.prompt("Enter password: "); !ok {
		return "", "", false
	}
	return login, password, true
}

// promptAmount asks until it gets a positive decimal amount.
func (c *CLI) promptAmount() (decimal.Decimal, bool) {
	for {
		raw, ok := c.prompt("Enter amount: ")
		if !ok {
			return decimal.Zero, false
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			fmt.Fprintln(c.out, "Error! Enter a numeric value.")
			continue
		}
		if !amount.IsPositive() {
			fmt.Fprintln(c.out, "Amount must be positive!")
			continue
		}
		return amount, true
	}
}

// errorMessage maps error kinds to human-readable messages.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidLogin),
		errors.Is(err, models.ErrInvalidPassword),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrLoginTaken),
		errors.Is(err, models.ErrClientNotFound),
		errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInvalidCredentials):
		return err.Error()
	default:
		return "internal error, try again later"
	}
}
