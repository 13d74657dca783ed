package repository

import (
	"context"

	"github.com/google/uuid"
)

const insertShipment = `
INSERT INTO shipments (
    order_id, status, total_qty, total_weight,
    first_name, last_name, address1, address2, phone, email,
    city_id, province_id, postcode
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, order_id, status, total_qty, total_weight,
    first_name, last_name, address1, address2, phone, email,
    city_id, province_id, postcode, created_at, updated_at
`

type InsertShipmentParams struct {
	OrderID     uuid.UUID
	Status      ShipmentStatus
	TotalQty    int32
	TotalWeight int32
	FirstName   string
	LastName    string
	Address1    string
	Address2    string
	Phone       string
	Email       string
	CityID      string
	ProvinceID  string
	Postcode    string
}

func (q *Queries) InsertShipment(c context.Context, arg InsertShipmentParams) (Shipment, error) {
	row := q.db.QueryRow(c, insertShipment,
		arg.OrderID,
		arg.Status,
		arg.TotalQty,
		arg.TotalWeight,
		arg.FirstName,
		arg.LastName,
		arg.Address1,
		arg.Address2,
		arg.Phone,
		arg.Email,
		arg.CityID,
		arg.ProvinceID,
		arg.Postcode,
	)
	return scanShipment(row)
}

const findShipmentByOrderId = `
SELECT id, order_id, status, total_qty, total_weight,
    first_name, last_name, address1, address2, phone, email,
    city_id, province_id, postcode, created_at, updated_at
FROM shipments
WHERE order_id = $1
`

func (q *Queries) FindShipmentByOrderId(c context.Context, orderID uuid.UUID) (Shipment, error) {
	row := q.db.QueryRow(c, findShipmentByOrderId, orderID)
	return scanShipment(row)
}

func scanShipment(row scannable) (Shipment, error) {
	var i Shipment
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.Status,
		&i.TotalQty,
		&i.TotalWeight,
		&i.FirstName,
		&i.LastName,
		&i.Address1,
		&i.Address2,
		&i.Phone,
		&i.Email,
		&i.CityID,
		&i.ProvinceID,
		&i.Postcode,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
