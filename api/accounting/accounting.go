// Package accounting covers the Holded Accounting API: the daily ledger and
// the chart of accounts.
package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/transport"
)

const basePath = "accounting/v1"

// ErrUnbalancedEntry is returned for entries rejected before sending.
var ErrUnbalancedEntry = errors.New("accounting entry must have at least two lines and balance")

// API groups the Accounting services.
type API struct {
	Ledger   *Ledger
	Accounts *Accounts
}

// New binds the Accounting API to r.
func New(r transport.Requester) *API {
	return &API{
		Ledger:   &Ledger{r: r},
		Accounts: &Accounts{r: r},
	}
}

// Line is one side of a ledger entry.
type Line struct {
	Account string   `json:"account"`
	Debit   float64  `json:"debit,omitempty"`
	Credit  float64  `json:"credit,omitempty"`
	Desc    string   `json:"desc,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Entry is a ledger entry.
type Entry struct {
	ID       string `json:"id,omitempty"`
	Date     int64  `json:"date,omitempty"`
	Desc     string `json:"desc,omitempty"`
	Lines    []Line `json:"lines"`
	Created  int64  `json:"created,omitempty"`
	Modified int64  `json:"modified,omitempty"`
}

// Validate checks that the entry has two or more lines and balances.
func (e Entry) Validate() error {
	if len(e.Lines) < 2 {
		return fmt.Errorf("%w: got %d lines", ErrUnbalancedEntry, len(e.Lines))
	}
	var debit, credit float64
	for _, l := range e.Lines {
		debit += l.Debit
		credit += l.Credit
	}
	// Compare in cents.
	if int64(debit*100+0.5) != int64(credit*100+0.5) {
		return fmt.Errorf("%w: debit %.2f, credit %.2f", ErrUnbalancedEntry, debit, credit)
	}
	return nil
}

// LedgerParams filters the daily ledger.
type LedgerParams struct {
	resource.Paging
	resource.Period
}

// Account is an entry of the chart of accounts.
type Account struct {
	ID      string  `json:"id,omitempty"`
	Num     int64   `json:"num"`
	Name    string  `json:"name"`
	Group   string  `json:"group,omitempty"`
	Debit   float64 `json:"debit,omitempty"`
	Credit  float64 `json:"credit,omitempty"`
	Balance float64 `json:"balance,omitempty"`
}

// AccountParams filters the chart of accounts.
type AccountParams struct {
	resource.Period
	IncludeEmpty int `json:"includeEmpty,omitempty"`
}

// Ledger reads and writes the daily ledger.
type Ledger struct {
	r transport.Requester
}

// List returns ledger entries.
func (l *Ledger) List(ctx context.Context, params LedgerParams) ([]Entry, error) {
	return resource.List[Entry](ctx, l.r, basePath+"/dailyledger", params)
}

// Pages walks the ledger page by page.
func (l *Ledger) Pages(params LedgerParams) *resource.Pager[Entry] {
	return resource.NewPager[Entry](l.r, basePath+"/dailyledger", params.Period)
}

// Create books an entry. Unbalanced entries are rejected without a request.
func (l *Ledger) Create(ctx context.Context, entry Entry) (*resource.Ack, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return resource.Create(ctx, l.r, basePath+"/entry", entry)
}

// Accounts reads and extends the chart of accounts.
type Accounts struct {
	r transport.Requester
}

// List returns the chart of accounts.
func (a *Accounts) List(ctx context.Context, params *AccountParams) ([]Account, error) {
	var p any
	if params != nil {
		p = *params
	}
	return resource.List[Account](ctx, a.r, basePath+"/chartofaccounts", p)
}

// Create adds an account. prefix is the 4 digit parent account number.
func (a *Accounts) Create(ctx context.Context, prefix int, name string) (*resource.Ack, error) {
	return resource.Create(ctx, a.r, basePath+"/account", map[string]any{"prefix": prefix, "name": name})
}
