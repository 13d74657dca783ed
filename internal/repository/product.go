package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertProduct = `
INSERT INTO products (sku, type, name, slug, price, weight)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, sku, type, name, slug, price, weight, created_at, updated_at
`

type InsertProductParams struct {
	Sku    string
	Type   string
	Name   string
	Slug   string
	Price  pgtype.Numeric
	Weight int32
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(c, insertProduct,
		arg.Sku,
		arg.Type,
		arg.Name,
		arg.Slug,
		arg.Price,
		arg.Weight,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Sku,
		&i.Type,
		&i.Name,
		&i.Slug,
		&i.Price,
		&i.Weight,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertProductInventory = `
INSERT INTO product_inventories (product_id, quantity)
VALUES ($1, $2)
ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()
RETURNING product_id, quantity, created_at, updated_at
`

type InsertProductInventoryParams struct {
	ProductID uuid.UUID
	Quantity  int32
}

func (q *Queries) InsertProductInventory(
	c context.Context,
	arg InsertProductInventoryParams,
) (ProductInventory, error) {
	row := q.db.QueryRow(c, insertProductInventory, arg.ProductID, arg.Quantity)
	var i ProductInventory
	err := row.Scan(&i.ProductID, &i.Quantity, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const findProducts = `
SELECT p.id, p.sku, p.type, p.name, p.slug, p.price, p.weight, p.created_at, p.updated_at,
       COALESCE(i.quantity, 0) AS quantity
FROM products p
LEFT JOIN product_inventories i ON i.product_id = p.id
ORDER BY p.created_at DESC
`

type FindProductsRow struct {
	ID        uuid.UUID          `json:"id"`
	Sku       string             `json:"sku"`
	Type      string             `json:"type"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Price     pgtype.Numeric     `json:"price"`
	Weight    int32              `json:"weight"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
	Quantity  int32              `json:"quantity"`
}

func (q *Queries) FindProducts(c context.Context) ([]FindProductsRow, error) {
	rows, err := q.db.Query(c, findProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindProductsRow{}
	for rows.Next() {
		var i FindProductsRow
		if err := rows.Scan(
			&i.ID,
			&i.Sku,
			&i.Type,
			&i.Name,
			&i.Slug,
			&i.Price,
			&i.Weight,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const findProductById = `
SELECT p.id, p.sku, p.type, p.name, p.slug, p.price, p.weight, p.created_at, p.updated_at,
       COALESCE(i.quantity, 0) AS quantity
FROM products p
LEFT JOIN product_inventories i ON i.product_id = p.id
WHERE p.id = $1
`

func (q *Queries) FindProductById(c context.Context, id uuid.UUID) (FindProductsRow, error) {
	row := q.db.QueryRow(c, findProductById, id)
	var i FindProductsRow
	err := row.Scan(
		&i.ID,
		&i.Sku,
		&i.Type,
		&i.Name,
		&i.Slug,
		&i.Price,
		&i.Weight,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Quantity,
	)
	return i, err
}

const findProductBySlug = `
SELECT p.id, p.sku, p.type, p.name, p.slug, p.price, p.weight, p.created_at, p.updated_at,
       COALESCE(i.quantity, 0) AS quantity
FROM products p
LEFT JOIN product_inventories i ON i.product_id = p.id
WHERE p.slug = $1
`

func (q *Queries) FindProductBySlug(c context.Context, slug string) (FindProductsRow, error) {
	row := q.db.QueryRow(c, findProductBySlug, slug)
	var i FindProductsRow
	err := row.Scan(
		&i.ID,
		&i.Sku,
		&i.Type,
		&i.Name,
		&i.Slug,
		&i.Price,
		&i.Weight,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Quantity,
	)
	return i, err
}

const findProductByName = `
SELECT id, sku, type, name, slug, price, weight, created_at, updated_at
FROM products
WHERE name = $1
`

func (q *Queries) FindProductByName(c context.Context, name string) (Product, error) {
	row := q.db.QueryRow(c, findProductByName, name)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Sku,
		&i.Type,
		&i.Name,
		&i.Slug,
		&i.Price,
		&i.Weight,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
