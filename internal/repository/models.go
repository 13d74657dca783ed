package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "PENDING"
	ShipmentStatusShipped   ShipmentStatus = "SHIPPED"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

type Product struct {
	ID        uuid.UUID          `json:"id"`
	Sku       string             `json:"sku"`
	Type      string             `json:"type"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Price     pgtype.Numeric     `json:"price"`
	Weight    int32              `json:"weight"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type ProductInventory struct {
	ProductID uuid.UUID          `json:"product_id"`
	Quantity  int32              `json:"quantity"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Order struct {
	ID                 uuid.UUID          `json:"id"`
	Code               string             `json:"code"`
	Status             OrderStatus        `json:"status"`
	SessionKey         string             `json:"session_key"`
	OrderDate          pgtype.Timestamptz `json:"order_date"`
	PaymentDue         pgtype.Timestamptz `json:"payment_due"`
	PaymentStatus      PaymentStatus      `json:"payment_status"`
	BaseTotal          pgtype.Numeric     `json:"base_total"`
	TaxAmount          pgtype.Numeric     `json:"tax_amount"`
	TaxPercent         pgtype.Numeric     `json:"tax_percent"`
	DiscountAmount     pgtype.Numeric     `json:"discount_amount"`
	DiscountPercent    pgtype.Numeric     `json:"discount_percent"`
	ShippingCost       pgtype.Numeric     `json:"shipping_cost"`
	GrandTotal         pgtype.Numeric     `json:"grand_total"`
	Note               string             `json:"note"`
	CustomerFirstName  string             `json:"customer_first_name"`
	CustomerLastName   string             `json:"customer_last_name"`
	CustomerCompany    string             `json:"customer_company"`
	CustomerAddress1   string             `json:"customer_address1"`
	CustomerAddress2   string             `json:"customer_address2"`
	CustomerPhone      string             `json:"customer_phone"`
	CustomerEmail      string             `json:"customer_email"`
	CustomerCityID     string             `json:"customer_city_id"`
	CustomerProvinceID string             `json:"customer_province_id"`
	CustomerPostcode   string             `json:"customer_postcode"`
	ShippingCourier    string             `json:"shipping_courier"`
	ShippingService    string             `json:"shipping_service"`
	PaymentToken       string             `json:"payment_token"`
	PaymentUrl         string             `json:"payment_url"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

type OrderItem struct {
	ID              uuid.UUID          `json:"id"`
	OrderID         uuid.UUID          `json:"order_id"`
	ProductID       uuid.UUID          `json:"product_id"`
	Qty             int32              `json:"qty"`
	BasePrice       pgtype.Numeric     `json:"base_price"`
	BaseTotal       pgtype.Numeric     `json:"base_total"`
	TaxAmount       pgtype.Numeric     `json:"tax_amount"`
	TaxPercent      pgtype.Numeric     `json:"tax_percent"`
	DiscountAmount  pgtype.Numeric     `json:"discount_amount"`
	DiscountPercent pgtype.Numeric     `json:"discount_percent"`
	SubTotal        pgtype.Numeric     `json:"sub_total"`
	Sku             string             `json:"sku"`
	Type            string             `json:"type"`
	Name            string             `json:"name"`
	Weight          int32              `json:"weight"`
	Attributes      []byte             `json:"attributes"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type Shipment struct {
	ID          uuid.UUID          `json:"id"`
	OrderID     uuid.UUID          `json:"order_id"`
	Status      ShipmentStatus     `json:"status"`
	TotalQty    int32              `json:"total_qty"`
	TotalWeight int32              `json:"total_weight"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Address1    string             `json:"address1"`
	Address2    string             `json:"address2"`
	Phone       string             `json:"phone"`
	Email       string             `json:"email"`
	CityID      string             `json:"city_id"`
	ProvinceID  string             `json:"province_id"`
	Postcode    string             `json:"postcode"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}
