package invoicing

import (
	"context"

	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/transport"
)

// Service is a billable service, as opposed to a stocked Product.
type Service struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Desc     string   `json:"desc,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Tax      float64  `json:"tax,omitempty"`
	SubTotal float64  `json:"subtotal,omitempty"`
	Cost     float64  `json:"cost,omitempty"`
}

// Payment is a standalone payment.
type Payment struct {
	ID        string  `json:"id,omitempty"`
	BankID    string  `json:"bankId"`
	ContactID string  `json:"contactId"`
	Amount    float64 `json:"amount"`
	Desc      string  `json:"desc"`
	Date      int64   `json:"date"`
}

// PaymentListParams filters the payments list.
type PaymentListParams struct {
	resource.Paging
	resource.Period
}

// TreasuryAccount is a bank or cash account.
type TreasuryAccount struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Balance       float64 `json:"balance,omitempty"`
	AccountNumber int64   `json:"accountNumber,omitempty"`
	IBAN          string  `json:"iban,omitempty"`
	SWIFT         string  `json:"swift,omitempty"`
	Bank          string  `json:"bank,omitempty"`
	BankName      string  `json:"bankname,omitempty"`
}

// Tax is a tax rate configured in the account.
type Tax struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Scope  string  `json:"scope,omitempty"`
	Type   string  `json:"type,omitempty"`
}

// NumberingSerie is a document numbering sequence.
type NumberingSerie struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
	Last   int    `json:"last,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Remittance is a bank remittance.
type Remittance struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Date   int64   `json:"date,omitempty"`
	Amount float64 `json:"amount,omitempty"`
}

// ExpenseAccount is an accounting account used for expenses.
type ExpenseAccount struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Desc      string `json:"desc,omitempty"`
	AccountID string `json:"accountNum,omitempty"`
}

// SalesChannel is an income channel.
type SalesChannel struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Desc      string `json:"desc,omitempty"`
	AccountID string `json:"accountNum,omitempty"`
}

// Warehouse stores product stock.
type Warehouse struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Mobile  string   `json:"mobile,omitempty"`
	Address *Address `json:"address,omitempty"`
	Default bool     `json:"default,omitempty"`
}

// StockLine is the stock of one product in a warehouse.
type StockLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Stock     int    `json:"stock"`
}

// Treasury manages treasury accounts. Holded offers no update or delete.
type Treasury struct {
	r    transport.Requester
	path string
}

// List returns every treasury account.
func (t *Treasury) List(ctx context.Context) ([]TreasuryAccount, error) {
	return resource.List[TreasuryAccount](ctx, t.r, t.path, nil)
}

// Get fetches one account.
func (t *Treasury) Get(ctx context.Context, id string) (*TreasuryAccount, error) {
	return resource.Get[TreasuryAccount](ctx, t.r, resource.Join(t.path, id), nil)
}

// Create adds an account.
func (t *Treasury) Create(ctx context.Context, account TreasuryAccount) (*resource.Ack, error) {
	return resource.Create(ctx, t.r, t.path, account)
}

// Taxes lists the account's tax rates.
type Taxes struct {
	r    transport.Requester
	path string
}

// List returns every tax rate.
func (t *Taxes) List(ctx context.Context) ([]Tax, error) {
	return resource.List[Tax](ctx, t.r, t.path, nil)
}

// Remittances reads bank remittances.
type Remittances struct {
	r    transport.Requester
	path string
}

// List returns every remittance.
func (rm *Remittances) List(ctx context.Context) ([]Remittance, error) {
	return resource.List[Remittance](ctx, rm.r, rm.path, nil)
}

// Get fetches one remittance.
func (rm *Remittances) Get(ctx context.Context, id string) (*Remittance, error) {
	return resource.Get[Remittance](ctx, rm.r, resource.Join(rm.path, id), nil)
}

// NumberingSeries manages numbering series, which are scoped by document type.
type NumberingSeries struct {
	r    transport.Requester
	path string
}

// List returns the series of docType.
func (n *NumberingSeries) List(ctx context.Context, docType DocType) ([]NumberingSerie, error) {
	return resource.List[NumberingSerie](ctx, n.r, resource.Join(n.path, string(docType)), nil)
}

// Create adds a series for docType.
func (n *NumberingSeries) Create(ctx context.Context, docType DocType, serie NumberingSerie) (*resource.Ack, error) {
	return resource.Create(ctx, n.r, resource.Join(n.path, string(docType)), serie)
}

// Update changes a series.
func (n *NumberingSeries) Update(ctx context.Context, docType DocType, id string, serie NumberingSerie) (*resource.Ack, error) {
	return resource.Update(ctx, n.r, resource.Join(n.path, string(docType), id), serie)
}

// Delete removes a series.
func (n *NumberingSeries) Delete(ctx context.Context, docType DocType, id string) (*resource.Ack, error) {
	return resource.Remove(ctx, n.r, resource.Join(n.path, string(docType), id))
}

// Warehouses is the warehouses collection plus stock listing.
type Warehouses struct {
	*resource.Service[Warehouse]
}

// Stock lists the stock held in a warehouse.
func (w *Warehouses) Stock(ctx context.Context, warehouseID string, params *resource.Paging) ([]StockLine, error) {
	var p any
	if params != nil {
		p = *params
	}
	return resource.List[StockLine](ctx, w.Requester(), w.Path(warehouseID, "stock"), p)
}
