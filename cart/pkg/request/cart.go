package request

import (
	"github.com/google/uuid"
)

type ItemAttributes struct {
	Size  string `validate:"omitempty,max=32" json:"size"`
	Color string `validate:"omitempty,max=32" json:"color"`
}

type InsertCartItem struct {
	ProductID  uuid.UUID      `validate:"required,uuid"  json:"product_id"`
	Quantity   int32          `validate:"required,gte=1" json:"quantity"`
	Attributes ItemAttributes `json:"attributes"`
}

type UpdateCartItem struct {
	Quantity int32 `validate:"required,gte=1" json:"quantity"`
}
