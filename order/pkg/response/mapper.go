package response

import (
	"encoding/json"

	"github.com/aprayoga/storefront/internal/repository"
)

func FromOrder(order repository.Order) Order {
	return Order{
		ID:                 order.ID,
		Code:               order.Code,
		Status:             string(order.Status),
		PaymentStatus:      string(order.PaymentStatus),
		OrderDate:          order.OrderDate.Time,
		PaymentDue:         order.PaymentDue.Time,
		BaseTotal:          repository.DecimalFromNumeric(order.BaseTotal),
		TaxAmount:          repository.DecimalFromNumeric(order.TaxAmount),
		TaxPercent:         repository.DecimalFromNumeric(order.TaxPercent),
		DiscountAmount:     repository.DecimalFromNumeric(order.DiscountAmount),
		DiscountPercent:    repository.DecimalFromNumeric(order.DiscountPercent),
		ShippingCost:       repository.DecimalFromNumeric(order.ShippingCost),
		GrandTotal:         repository.DecimalFromNumeric(order.GrandTotal),
		Note:               order.Note,
		CustomerFirstName:  order.CustomerFirstName,
		CustomerLastName:   order.CustomerLastName,
		CustomerCompany:    order.CustomerCompany,
		CustomerAddress1:   order.CustomerAddress1,
		CustomerAddress2:   order.CustomerAddress2,
		CustomerPhone:      order.CustomerPhone,
		CustomerEmail:      order.CustomerEmail,
		CustomerCityID:     order.CustomerCityID,
		CustomerProvinceID: order.CustomerProvinceID,
		CustomerPostcode:   order.CustomerPostcode,
		ShippingCourier:    order.ShippingCourier,
		ShippingService:    order.ShippingService,
		PaymentToken:       order.PaymentToken,
		PaymentUrl:         order.PaymentUrl,
		CreatedAt:          order.CreatedAt.Time,
		UpdatedAt:          order.UpdatedAt.Time,
	}
}

func FromOrderItem(item repository.OrderItem) OrderItem {
	return OrderItem{
		ID:              item.ID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
		Qty:             item.Qty,
		BasePrice:       repository.DecimalFromNumeric(item.BasePrice),
		BaseTotal:       repository.DecimalFromNumeric(item.BaseTotal),
		TaxAmount:       repository.DecimalFromNumeric(item.TaxAmount),
		TaxPercent:      repository.DecimalFromNumeric(item.TaxPercent),
		DiscountAmount:  repository.DecimalFromNumeric(item.DiscountAmount),
		DiscountPercent: repository.DecimalFromNumeric(item.DiscountPercent),
		SubTotal:        repository.DecimalFromNumeric(item.SubTotal),
		Sku:             item.Sku,
		Type:            item.Type,
		Name:            item.Name,
		Weight:          item.Weight,
		Attributes:      json.RawMessage(item.Attributes),
	}
}

func FromShipment(shipment repository.Shipment) Shipment {
	return Shipment{
		ID:          shipment.ID,
		OrderID:     shipment.OrderID,
		Status:      string(shipment.Status),
		TotalQty:    shipment.TotalQty,
		TotalWeight: shipment.TotalWeight,
		FirstName:   shipment.FirstName,
		LastName:    shipment.LastName,
		Address1:    shipment.Address1,
		Address2:    shipment.Address2,
		Phone:       shipment.Phone,
		Email:       shipment.Email,
		CityID:      shipment.CityID,
		ProvinceID:  shipment.ProvinceID,
		Postcode:    shipment.Postcode,
	}
}
