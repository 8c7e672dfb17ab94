package invoicing

import (
	"context"
	"fmt"

	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/transport"
)

// DocType selects a family of documents.
type DocType string

const (
	Invoice        DocType = "invoice"
	SalesReceipt   DocType = "salesreceipt"
	CreditNote     DocType = "creditnote"
	SalesOrder     DocType = "salesorder"
	Proform        DocType = "proform"
	Waybill        DocType = "waybill"
	Estimate       DocType = "estimate"
	Purchase       DocType = "purchase"
	PurchaseOrder  DocType = "purchaseorder"
	PurchaseRefund DocType = "purchaserefund"
)

var docTypes = map[DocType]struct{}{
	Invoice: {}, SalesReceipt: {}, CreditNote: {}, SalesOrder: {}, Proform: {},
	Waybill: {}, Estimate: {}, Purchase: {}, PurchaseOrder: {}, PurchaseRefund: {},
}

// Valid reports whether t is a document type Holded knows.
func (t DocType) Valid() bool {
	_, ok := docTypes[t]
	return ok
}

// Document is an invoice, estimate, order or any other DocType.
type Document struct {
	ID              string         `json:"id,omitempty"`
	ContactID       string         `json:"contactId,omitempty"`
	ContactName     string         `json:"contactName,omitempty"`
	DocNumber       string         `json:"docNumber,omitempty"`
	Date            int64          `json:"date,omitempty"`
	DueDate         int64          `json:"dueDate,omitempty"`
	Desc            string         `json:"desc,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Currency        string         `json:"currency,omitempty"`
	Status          int            `json:"status,omitempty"`
	Subtotal        float64        `json:"subtotal,omitempty"`
	Tax             float64        `json:"tax,omitempty"`
	Total           float64        `json:"total,omitempty"`
	PaymentsPending float64        `json:"paymentsPending,omitempty"`
	Items           []DocumentItem `json:"items,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
}

// DocumentItem is one line of a document.
type DocumentItem struct {
	Name     string   `json:"name"`
	Desc     string   `json:"desc,omitempty"`
	Units    float64  `json:"units"`
	Price    float64  `json:"subtotal"`
	Tax      float64  `json:"tax,omitempty"`
	Discount float64  `json:"discount,omitempty"`
	SKU      string   `json:"sku,omitempty"`
	Taxes    []string `json:"taxes,omitempty"`
}

// DocumentListParams filters Documents.List.
type DocumentListParams struct {
	resource.Period
	ContactID string `json:"contactid,omitempty"`
	// Paid is "0" unpaid, "1" paid or "2" partially paid.
	Paid   string `json:"paid,omitempty"`
	Billed string `json:"billed,omitempty"`
	Sort   string `json:"sort,omitempty"`
}

// DocumentPayment registers a payment against a document.
type DocumentPayment struct {
	Date       int64   `json:"date"`
	Amount     float64 `json:"amount"`
	TreasuryID string  `json:"treasury,omitempty"`
	Desc       string  `json:"desc,omitempty"`
}

// SendOptions configures Documents.Send.
type SendOptions struct {
	Emails  []string `json:"emails"`
	Subject string   `json:"subject,omitempty"`
	Message string   `json:"message,omitempty"`
	DocPath string   `json:"docPath,omitempty"`
}

// ShippedUnits reports how many units of a line were shipped.
type ShippedUnits struct {
	Name  string  `json:"name,omitempty"`
	SKU   string  `json:"sku,omitempty"`
	Sent  float64 `json:"sent"`
	Total float64 `json:"total,omitempty"`
}

// PaymentMethod is a way documents can be paid.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
}

// Documents manages documents of every DocType.
type Documents struct {
	r    transport.Requester
	path string
}

func (d *Documents) at(docType DocType, segments ...string) (string, error) {
	if !docType.Valid() {
		return "", fmt.Errorf("%w: unknown document type %q", transport.ErrInvalidRequest, docType)
	}
	return resource.Join(d.path, append([]string{string(docType)}, segments...)...), nil
}

// List returns documents of docType.
func (d *Documents) List(ctx context.Context, docType DocType, params *DocumentListParams) ([]Document, error) {
	path, err := d.at(docType)
	if err != nil {
		return nil, err
	}
	var p any
	if params != nil {
		p = *params
	}
	return resource.List[Document](ctx, d.r, path, p)
}

// Get fetches one document.
func (d *Documents) Get(ctx context.Context, docType DocType, id string) (*Document, error) {
	path, err := d.at(docType, id)
	if err != nil {
		return nil, err
	}
	return resource.Get[Document](ctx, d.r, path, nil)
}

// Create adds a document.
func (d *Documents) Create(ctx context.Context, docType DocType, doc any) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, docType, doc)
}

// Update changes a document.
func (d *Documents) Update(ctx context.Context, docType DocType, id string, doc any) (*resource.Ack, error) {
	return d.write(ctx, resource.Update, docType, doc, id)
}

// Delete removes a document.
func (d *Documents) Delete(ctx context.Context, docType DocType, id string) (*resource.Ack, error) {
	path, err := d.at(docType, id)
	if err != nil {
		return nil, err
	}
	return resource.Remove(ctx, d.r, path)
}

// PDF downloads the rendered document.
func (d *Documents) PDF(ctx context.Context, docType DocType, id string) (*resource.File, error) {
	path, err := d.at(docType, id, "pdf")
	if err != nil {
		return nil, err
	}
	return resource.Download(ctx, d.r, path)
}

// Pay registers a payment.
func (d *Documents) Pay(ctx context.Context, docType DocType, id string, p DocumentPayment) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, docType, p, id, "pay")
}

// Send emails the document.
func (d *Documents) Send(ctx context.Context, docType DocType, id string, opts SendOptions) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, docType, opts, id, "send")
}

// ShipAll marks every line of a sales order as shipped.
func (d *Documents) ShipAll(ctx context.Context, id string) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, SalesOrder, nil, id, "shipall")
}

// ShipByLines ships the given units per line of a sales order.
func (d *Documents) ShipByLines(ctx context.Context, id string, lines any) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, SalesOrder, lines, id, "shipbylines")
}

// ShippedUnits reports the shipped units of one line.
func (d *Documents) ShippedUnits(ctx context.Context, docType DocType, id, itemID string) ([]ShippedUnits, error) {
	path, err := d.at(docType, id, "shippeditems", itemID)
	if err != nil {
		return nil, err
	}
	return resource.List[ShippedUnits](ctx, d.r, path, nil)
}

// Attach attaches a file described by body to the document.
func (d *Documents) Attach(ctx context.Context, docType DocType, id string, body any) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, docType, body, id, "attach")
}

// UpdateTracking sets shipment tracking information.
func (d *Documents) UpdateTracking(ctx context.Context, docType DocType, id string, body any) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, docType, body, id, "updatetracking")
}

// SetPipeline moves the document to a pipeline stage.
func (d *Documents) SetPipeline(ctx context.Context, docType DocType, id, pipeline string) (*resource.Ack, error) {
	return d.write(ctx, resource.Create, docType, map[string]string{"pipeline": pipeline}, id, "pipeline", "set")
}

type writeFunc func(context.Context, transport.Requester, string, any) (*resource.Ack, error)

func (d *Documents) write(ctx context.Context, fn writeFunc, docType DocType, body any, segments ...string) (*resource.Ack, error) {
	path, err := d.at(docType, segments...)
	if err != nil {
		return nil, err
	}
	return fn(ctx, d.r, path, body)
}
