package invoicing

import (
	"context"

	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/transport"
)

const basePath = "invoicing/v1"

// API groups the Invoice API services.
type API struct {
	Contacts        *Contacts
	ContactGroups   *resource.Service[ContactGroup]
	Products        *Products
	Services        *resource.Service[Service]
	Documents       *Documents
	Payments        *resource.Service[Payment]
	Treasury        *Treasury
	Taxes           *Taxes
	NumberingSeries *NumberingSeries
	Warehouses      *Warehouses
	Remittances     *Remittances
	ExpenseAccounts *resource.Service[ExpenseAccount]
	SalesChannels   *resource.Service[SalesChannel]

	r transport.Requester
}

// New binds the Invoice API to r.
func New(r transport.Requester) *API {
	return &API{
		Contacts:        &Contacts{resource.NewService[Contact](r, basePath+"/contacts")},
		ContactGroups:   resource.NewService[ContactGroup](r, basePath+"/contacts/groups"),
		Products:        &Products{resource.NewService[Product](r, basePath+"/products")},
		Services:        resource.NewService[Service](r, basePath+"/services"),
		Documents:       &Documents{r: r, path: basePath + "/documents"},
		Payments:        resource.NewService[Payment](r, basePath+"/payments"),
		Treasury:        &Treasury{r: r, path: basePath + "/treasury"},
		Taxes:           &Taxes{r: r, path: basePath + "/taxes"},
		NumberingSeries: &NumberingSeries{r: r, path: basePath + "/numberingseries"},
		Warehouses:      &Warehouses{resource.NewService[Warehouse](r, basePath+"/warehouses")},
		Remittances:     &Remittances{r: r, path: basePath + "/remittances"},
		ExpenseAccounts: resource.NewService[ExpenseAccount](r, basePath+"/expensesaccounts"),
		SalesChannels:   resource.NewService[SalesChannel](r, basePath+"/saleschannels"),
		r:               r,
	}
}

// PaymentMethods lists the payment methods documents can be paid with.
func (a *API) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	return resource.List[PaymentMethod](ctx, a.r, basePath+"/paymentmethods", nil)
}
