package repository

import (
	"context"

	"github.com/google/uuid"
)

const findInventoryByProductId = `
SELECT product_id, quantity, created_at, updated_at
FROM product_inventories
WHERE product_id = $1
`

func (q *Queries) FindInventoryByProductId(
	c context.Context,
	productID uuid.UUID,
) (ProductInventory, error) {
	row := q.db.QueryRow(c, findInventoryByProductId, productID)
	var i ProductInventory
	err := row.Scan(&i.ProductID, &i.Quantity, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const decrementProductStock = `
UPDATE product_inventories
SET quantity = quantity - $2, updated_at = now()
WHERE product_id = $1 AND quantity >= $2
`

type DecrementProductStockParams struct {
	ProductID uuid.UUID
	Quantity  int32
}

// DecrementProductStock is a conditional decrement: it only succeeds when the
// remaining quantity stays non-negative, so two checkouts racing for the last
// unit can never both win. The caller must treat zero affected rows as out of
// stock.
func (q *Queries) DecrementProductStock(
	c context.Context,
	arg DecrementProductStockParams,
) (int64, error) {
	result, err := q.db.Exec(c, decrementProductStock, arg.ProductID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

