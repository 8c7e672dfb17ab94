package invoicing

import (
	"context"

	"github.com/gaborage/go-holded/api/resource"
)

// Product is a sellable item.
type Product struct {
	ID         string   `json:"id,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Name       string   `json:"name"`
	Desc       string   `json:"desc,omitempty"`
	SKU        string   `json:"sku,omitempty"`
	Barcode    string   `json:"barcode,omitempty"`
	Price      float64  `json:"price,omitempty"`
	Tax        float64  `json:"tax,omitempty"`
	Cost       float64  `json:"cost,omitempty"`
	Stock      int      `json:"stock,omitempty"`
	Weight     float64  `json:"weight,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	CategoryID string   `json:"categoryId,omitempty"`
}

// Category groups products.
type Category struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// ProductImage describes one stored product image.
type ProductImage struct {
	FileName string `json:"fileName"`
	URL      string `json:"url,omitempty"`
}

// Products is the products collection plus images, stock and categories.
type Products struct {
	*resource.Service[Product]
}

// MainImage downloads the product's main image.
func (p *Products) MainImage(ctx context.Context, productID string) (*resource.File, error) {
	return resource.Download(ctx, p.Requester(), p.Path(productID, "image"))
}

// Images lists the product's images.
func (p *Products) Images(ctx context.Context, productID string) ([]ProductImage, error) {
	return resource.List[ProductImage](ctx, p.Requester(), p.Path(productID, "images"), nil)
}

// Image downloads a secondary image by file name.
func (p *Products) Image(ctx context.Context, productID, fileName string) (*resource.File, error) {
	return resource.Download(ctx, p.Requester(), p.Path(productID, "image", fileName))
}

// UpdateStock sets the stock level of a product.
func (p *Products) UpdateStock(ctx context.Context, productID string, stock int) (*resource.Ack, error) {
	return resource.Update(ctx, p.Requester(), p.Path(productID, "stock"), map[string]int{"stock": stock})
}

// Categories lists product categories.
func (p *Products) Categories(ctx context.Context) ([]Category, error) {
	return resource.List[Category](ctx, p.Requester(), p.Path("categories"), nil)
}

// CreateCategory adds a product category.
func (p *Products) CreateCategory(ctx context.Context, c Category) (*resource.Ack, error) {
	return resource.Create(ctx, p.Requester(), p.Path("categories"), c)
}

// UpdateCategory changes a product category.
func (p *Products) UpdateCategory(ctx context.Context, categoryID string, c Category) (*resource.Ack, error) {
	return resource.Update(ctx, p.Requester(), p.Path("categories", categoryID), c)
}

// DeleteCategory removes a product category.
func (p *Products) DeleteCategory(ctx context.Context, categoryID string) (*resource.Ack, error) {
	return resource.Remove(ctx, p.Requester(), p.Path("categories", categoryID))
}
