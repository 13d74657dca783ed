package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `
INSERT INTO orders (
    code, status, session_key, order_date, payment_due, payment_status,
    base_total, tax_amount, tax_percent, discount_amount, discount_percent,
    shipping_cost, grand_total, note,
    customer_first_name, customer_last_name, customer_company,
    customer_address1, customer_address2, customer_phone, customer_email,
    customer_city_id, customer_province_id, customer_postcode,
    shipping_courier, shipping_service
)
VALUES (
    $1, $2, $3, $4, $5, $6,
    $7, $8, $9, $10, $11,
    $12, $13, $14,
    $15, $16, $17,
    $18, $19, $20, $21,
    $22, $23, $24,
    $25, $26
)
RETURNING id, code, status, session_key, order_date, payment_due, payment_status,
    base_total, tax_amount, tax_percent, discount_amount, discount_percent,
    shipping_cost, grand_total, note,
    customer_first_name, customer_last_name, customer_company,
    customer_address1, customer_address2, customer_phone, customer_email,
    customer_city_id, customer_province_id, customer_postcode,
    shipping_courier, shipping_service, payment_token, payment_url,
    created_at, updated_at
`

type InsertOrderParams struct {
	Code               string
	Status             OrderStatus
	SessionKey         string
	OrderDate          pgtype.Timestamptz
	PaymentDue         pgtype.Timestamptz
	PaymentStatus      PaymentStatus
	BaseTotal          pgtype.Numeric
	TaxAmount          pgtype.Numeric
	TaxPercent         pgtype.Numeric
	DiscountAmount     pgtype.Numeric
	DiscountPercent    pgtype.Numeric
	ShippingCost       pgtype.Numeric
	GrandTotal         pgtype.Numeric
	Note               string
	CustomerFirstName  string
	CustomerLastName   string
	CustomerCompany    string
	CustomerAddress1   string
	CustomerAddress2   string
	CustomerPhone      string
	CustomerEmail      string
	CustomerCityID     string
	CustomerProvinceID string
	CustomerPostcode   string
	ShippingCourier    string
	ShippingService    string
}

func (q *Queries) InsertOrder(c context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(c, insertOrder,
		arg.Code,
		arg.Status,
		arg.SessionKey,
		arg.OrderDate,
		arg.PaymentDue,
		arg.PaymentStatus,
		arg.BaseTotal,
		arg.TaxAmount,
		arg.TaxPercent,
		arg.DiscountAmount,
		arg.DiscountPercent,
		arg.ShippingCost,
		arg.GrandTotal,
		arg.Note,
		arg.CustomerFirstName,
		arg.CustomerLastName,
		arg.CustomerCompany,
		arg.CustomerAddress1,
		arg.CustomerAddress2,
		arg.CustomerPhone,
		arg.CustomerEmail,
		arg.CustomerCityID,
		arg.CustomerProvinceID,
		arg.CustomerPostcode,
		arg.ShippingCourier,
		arg.ShippingService,
	)
	return scanOrder(row)
}

const updateOrderPayment = `
UPDATE orders
SET payment_token = $2, payment_url = $3, updated_at = now()
WHERE id = $1
`

type UpdateOrderPaymentParams struct {
	ID           uuid.UUID
	PaymentToken string
	PaymentUrl   string
}

func (q *Queries) UpdateOrderPayment(c context.Context, arg UpdateOrderPaymentParams) error {
	_, err := q.db.Exec(c, updateOrderPayment, arg.ID, arg.PaymentToken, arg.PaymentUrl)
	return err
}

const findOrderByCode = `
SELECT id, code, status, session_key, order_date, payment_due, payment_status,
    base_total, tax_amount, tax_percent, discount_amount, discount_percent,
    shipping_cost, grand_total, note,
    customer_first_name, customer_last_name, customer_company,
    customer_address1, customer_address2, customer_phone, customer_email,
    customer_city_id, customer_province_id, customer_postcode,
    shipping_courier, shipping_service, payment_token, payment_url,
    created_at, updated_at
FROM orders
WHERE code = $1 AND session_key = $2
`

type FindOrderByCodeParams struct {
	Code       string
	SessionKey string
}

func (q *Queries) FindOrderByCode(c context.Context, arg FindOrderByCodeParams) (Order, error) {
	row := q.db.QueryRow(c, findOrderByCode, arg.Code, arg.SessionKey)
	return scanOrder(row)
}

const orderCodeExists = `
SELECT EXISTS (SELECT 1 FROM orders WHERE code = $1)
`

func (q *Queries) OrderCodeExists(c context.Context, code string) (bool, error) {
	row := q.db.QueryRow(c, orderCodeExists, code)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const findOrdersBySessionKey = `
SELECT id, code, status, session_key, order_date, payment_due, payment_status,
    base_total, tax_amount, tax_percent, discount_amount, discount_percent,
    shipping_cost, grand_total, note,
    customer_first_name, customer_last_name, customer_company,
    customer_address1, customer_address2, customer_phone, customer_email,
    customer_city_id, customer_province_id, customer_postcode,
    shipping_courier, shipping_service, payment_token, payment_url,
    created_at, updated_at
FROM orders
WHERE session_key = $1
ORDER BY created_at DESC
`

func (q *Queries) FindOrdersBySessionKey(c context.Context, sessionKey string) ([]Order, error) {
	rows, err := q.db.Query(c, findOrdersBySessionKey, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertOrderItem = `
INSERT INTO order_items (
    order_id, product_id, qty, base_price, base_total,
    tax_amount, tax_percent, discount_amount, discount_percent, sub_total,
    sku, type, name, weight, attributes
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id, order_id, product_id, qty, base_price, base_total,
    tax_amount, tax_percent, discount_amount, discount_percent, sub_total,
    sku, type, name, weight, attributes, created_at, updated_at
`

type InsertOrderItemParams struct {
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	Qty             int32
	BasePrice       pgtype.Numeric
	BaseTotal       pgtype.Numeric
	TaxAmount       pgtype.Numeric
	TaxPercent      pgtype.Numeric
	DiscountAmount  pgtype.Numeric
	DiscountPercent pgtype.Numeric
	SubTotal        pgtype.Numeric
	Sku             string
	Type            string
	Name            string
	Weight          int32
	Attributes      []byte
}

func (q *Queries) InsertOrderItem(c context.Context, arg InsertOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(c, insertOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.Qty,
		arg.BasePrice,
		arg.BaseTotal,
		arg.TaxAmount,
		arg.TaxPercent,
		arg.DiscountAmount,
		arg.DiscountPercent,
		arg.SubTotal,
		arg.Sku,
		arg.Type,
		arg.Name,
		arg.Weight,
		arg.Attributes,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ProductID,
		&i.Qty,
		&i.BasePrice,
		&i.BaseTotal,
		&i.TaxAmount,
		&i.TaxPercent,
		&i.DiscountAmount,
		&i.DiscountPercent,
		&i.SubTotal,
		&i.Sku,
		&i.Type,
		&i.Name,
		&i.Weight,
		&i.Attributes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findOrderItemsByOrderId = `
SELECT id, order_id, product_id, qty, base_price, base_total,
    tax_amount, tax_percent, discount_amount, discount_percent, sub_total,
    sku, type, name, weight, attributes, created_at, updated_at
FROM order_items
WHERE order_id = $1
ORDER BY created_at
`

func (q *Queries) FindOrderItemsByOrderId(
	c context.Context,
	orderID uuid.UUID,
) ([]OrderItem, error) {
	rows, err := q.db.Query(c, findOrderItemsByOrderId, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ProductID,
			&i.Qty,
			&i.BasePrice,
			&i.BaseTotal,
			&i.TaxAmount,
			&i.TaxPercent,
			&i.DiscountAmount,
			&i.DiscountPercent,
			&i.SubTotal,
			&i.Sku,
			&i.Type,
			&i.Name,
			&i.Weight,
			&i.Attributes,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scannable) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Status,
		&i.SessionKey,
		&i.OrderDate,
		&i.PaymentDue,
		&i.PaymentStatus,
		&i.BaseTotal,
		&i.TaxAmount,
		&i.TaxPercent,
		&i.DiscountAmount,
		&i.DiscountPercent,
		&i.ShippingCost,
		&i.GrandTotal,
		&i.Note,
		&i.CustomerFirstName,
		&i.CustomerLastName,
		&i.CustomerCompany,
		&i.CustomerAddress1,
		&i.CustomerAddress2,
		&i.CustomerPhone,
		&i.CustomerEmail,
		&i.CustomerCityID,
		&i.CustomerProvinceID,
		&i.CustomerPostcode,
		&i.ShippingCourier,
		&i.ShippingService,
		&i.PaymentToken,
		&i.PaymentUrl,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
