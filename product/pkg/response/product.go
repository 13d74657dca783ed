package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aprayoga/storefront/internal/repository"
)

type Product struct {
	ID        uuid.UUID       `json:"id"`
	Sku       string          `json:"sku"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	Weight    int32           `json:"weight"`
	Quantity  int32           `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func FromRow(row repository.FindProductsRow) Product {
	return Product{
		ID:        row.ID,
		Sku:       row.Sku,
		Type:      row.Type,
		Name:      row.Name,
		Slug:      row.Slug,
		Price:     repository.DecimalFromNumeric(row.Price),
		Weight:    row.Weight,
		Quantity:  row.Quantity,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
