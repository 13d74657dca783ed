package request

// Checkout carries the billing address plus an optional separate shipping
// address. When ShipTo is set the shipping_* fields apply; any shipping_*
// field left empty falls back to its billing counterpart per field.
type Checkout struct {
	FirstName       string `validate:"required,max=255"  json:"first_name"`
	LastName        string `validate:"omitempty,max=255" json:"last_name"`
	Company         string `validate:"omitempty,max=255" json:"company"`
	Address1        string `validate:"required,max=255"  json:"address1"`
	Address2        string `validate:"omitempty,max=255" json:"address2"`
	Phone           string `validate:"required,max=32"   json:"phone"`
	Email           string `validate:"required,email"    json:"email"`
	CityID          string `validate:"required"          json:"city_id"`
	ProvinceID      string `validate:"required"          json:"province_id"`
	Postcode        string `validate:"required,max=16"   json:"postcode"`
	ShippingCourier string `validate:"required"          json:"shipping_courier"`
	ShippingService string `validate:"required"          json:"shipping_service"`
	Note            string `validate:"omitempty,max=1024" json:"note"`

	ShipTo             bool   `json:"ship_to"`
	ShippingFirstName  string `validate:"omitempty,max=255" json:"shipping_first_name"`
	ShippingLastName   string `validate:"omitempty,max=255" json:"shipping_last_name"`
	ShippingCompany    string `validate:"omitempty,max=255" json:"shipping_company"`
	ShippingAddress1   string `validate:"omitempty,max=255" json:"shipping_address1"`
	ShippingAddress2   string `validate:"omitempty,max=255" json:"shipping_address2"`
	ShippingPhone      string `validate:"omitempty,max=32"  json:"shipping_phone"`
	ShippingEmail      string `validate:"omitempty,email"   json:"shipping_email"`
	ShippingCityID     string `validate:"required_if=ShipTo true" json:"shipping_city_id"`
	ShippingProvinceID string `validate:"omitempty"         json:"shipping_province_id"`
	ShippingPostcode   string `validate:"omitempty,max=16"  json:"shipping_postcode"`
}

// Destination is the city the order ships to: the separate shipping address
// when one was given, the billing city otherwise.
func (r Checkout) Destination() string {
	if r.ShipTo {
		return r.ShippingCityID
	}
	return r.CityID
}

type ShippingCost struct {
	Destination string `validate:"required" json:"destination"`
}

type SetShipping struct {
	Destination string `validate:"required" json:"destination"`
	Service     string `validate:"required" json:"service"`
}
