package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	OrderDate     time.Time `json:"order_date"`
	PaymentDue    time.Time `json:"payment_due"`

	BaseTotal       decimal.Decimal `json:"base_total"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Note            string          `json:"note"`

	CustomerFirstName  string `json:"customer_first_name"`
	CustomerLastName   string `json:"customer_last_name"`
	CustomerCompany    string `json:"customer_company"`
	CustomerAddress1   string `json:"customer_address1"`
	CustomerAddress2   string `json:"customer_address2"`
	CustomerPhone      string `json:"customer_phone"`
	CustomerEmail      string `json:"customer_email"`
	CustomerCityID     string `json:"customer_city_id"`
	CustomerProvinceID string `json:"customer_province_id"`
	CustomerPostcode   string `json:"customer_postcode"`

	ShippingCourier string `json:"shipping_courier"`
	ShippingService string `json:"shipping_service"`
	PaymentToken    string `json:"payment_token"`
	PaymentUrl      string `json:"payment_url"`

	Items    []OrderItem `json:"items,omitempty"`
	Shipment *Shipment   `json:"shipment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Qty             int32           `json:"qty"`
	BasePrice       decimal.Decimal `json:"base_price"`
	BaseTotal       decimal.Decimal `json:"base_total"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	SubTotal        decimal.Decimal `json:"sub_total"`
	Sku             string          `json:"sku"`
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Weight          int32           `json:"weight"`
	Attributes      json.RawMessage `json:"attributes"`
}

type Shipment struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	Status      string    `json:"status"`
	TotalQty    int32     `json:"total_qty"`
	TotalWeight int32     `json:"total_weight"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Address1    string    `json:"address1"`
	Address2    string    `json:"address2"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CityID      string    `json:"city_id"`
	ProvinceID  string    `json:"province_id"`
	Postcode    string    `json:"postcode"`
}
