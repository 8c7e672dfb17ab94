// Package invoicing covers the Holded Invoice API: contacts, products,
// services, documents, payments, treasury accounts, taxes, numbering series,
// warehouses, remittances, expense accounts and sales channels.
package invoicing
