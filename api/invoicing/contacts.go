package invoicing

import (
	"context"

	"github.com/gaborage/go-holded/api/resource"
)

// Contact is a customer, supplier, debtor or creditor.
type Contact struct {
	ID          string   `json:"id,omitempty"`
	CustomID    string   `json:"customId,omitempty"`
	Name        string   `json:"name"`
	Code        string   `json:"code,omitempty"`
	TradeName   string   `json:"tradeName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Mobile      string   `json:"mobile,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Type        string   `json:"type,omitempty"`
	IsPerson    bool     `json:"isperson,omitempty"`
	IBAN        string   `json:"iban,omitempty"`
	SWIFT       string   `json:"swift,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Note        string   `json:"note,omitempty"`
	BillAddress *Address `json:"billAddress,omitempty"`
}

// Address is a postal address.
type Address struct {
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Province   string `json:"province,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ContactListParams filters Contacts.List.
type ContactListParams struct {
	Phone    string   `json:"phone,omitempty"`
	Mobile   string   `json:"mobile,omitempty"`
	CustomID []string `json:"customId,omitempty"`
}

// ContactGroup groups contacts.
type ContactGroup struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
}

// Contacts is the contacts collection plus its attachments.
type Contacts struct {
	*resource.Service[Contact]
}

// Attachments lists the file names attached to a contact.
func (c *Contacts) Attachments(ctx context.Context, contactID string) ([]string, error) {
	return resource.List[string](ctx, c.Requester(), c.Path(contactID, "attachments"), nil)
}

// Attachment downloads one attached file.
func (c *Contacts) Attachment(ctx context.Context, contactID, attachmentID string) (*resource.File, error) {
	return resource.Download(ctx, c.Requester(), c.Path(contactID, "attachments", attachmentID))
}
