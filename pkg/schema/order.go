package schema

import "github.com/hamba/avro/v2"

const OrderSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "order",
	"fields": [
		{"name": "event_id", "type": "string"},
		{"name": "number", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "name", "type": "string"},
					{"name": "unit_price", "type": "double"},
					{"name": "quantity", "type": "int"},
					{"name": "subtotal", "type": "double"}
				]
			}
		}},
		{"name": "total_items", "type": "int"},
		{"name": "total_cost", "type": "double"},
		{"name": "total_savings", "type": "double"},
		{"name": "currency", "type": "string"},
		{"name": "payment_method", "type": "string"},
		{"name": "completed_at", "type": "long"}
	]
}`

type (
	// OrderV1 is a completed checkout. CompletedAt holds epoch milliseconds.
	OrderV1 struct {
		EventID       string        `avro:"event_id"`
		Number        string        `avro:"number"`
		Items         []OrderItemV1 `avro:"items"`
		TotalItems    int           `avro:"total_items"`
		TotalCost     float64       `avro:"total_cost"`
		TotalSavings  float64       `avro:"total_savings"`
		Currency      string        `avro:"currency"`
		PaymentMethod string        `avro:"payment_method"`
		CompletedAt   int64         `avro:"completed_at"`
	}

	OrderItemV1 struct {
		ProductID string  `avro:"product_id"`
		Name      string  `avro:"name"`
		UnitPrice float64 `avro:"unit_price"`
		Quantity  int     `avro:"quantity"`
		Subtotal  float64 `avro:"subtotal"`
	}
)

func OrderV1Avro() avro.Schema {
	return avro.MustParse(OrderSchemaTextV1)
}
