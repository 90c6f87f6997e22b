package schema

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := OrderV1{
			EventID: "evt",
			Number:  "DS000001ZZZZ",
			Items: []OrderItemV1{
				{ProductID: "1", Name: "Arepa", UnitPrice: 42.5, Quantity: 3, Subtotal: 127.5},
				{ProductID: "2", Name: "Batida", UnitPrice: 80, Quantity: 1, Subtotal: 80},
			},
			TotalItems:    4,
			TotalCost:     207.5,
			TotalSavings:  7.5,
			Currency:      "RD$",
			PaymentMethod: "card",
			CompletedAt:   1_700_000_000_123,
		}

		var orderSchema avro.Schema
		require.NotPanics(t, func() {
			orderSchema = OrderV1Avro()
		})

		data, err := avro.Marshal(orderSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal OrderV1
		err = avro.Unmarshal(orderSchema, data, &vUnmarshal)
		require.NoError(t, err)
		assert.Equal(t, vMarshal, vUnmarshal)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		data, err := avro.Marshal(OrderV1Avro(), OrderV1{Items: []OrderItemV1{}})
		require.NoError(t, err)

		var v OrderV1
		require.NoError(t, avro.Unmarshal(OrderV1Avro(), data, &v))
		assert.Empty(t, v.Items)
	})
}

func TestSearchEventV1Schema(t *testing.T) {
	require.NotPanics(t, func() { _ = SearchEventV1Avro() })
}
