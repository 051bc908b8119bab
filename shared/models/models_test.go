package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCart(t *testing.T) {
	tests := []struct {
		name    string
		lines   []CartLine
		wantErr bool
	}{
		{
			name:  "valid cart",
			lines: []CartLine{{ProductID: "sku-1", Quantity: 1}, {ProductID: "sku-2", Quantity: 3}},
		},
		{
			name:    "empty cart",
			lines:   nil,
			wantErr: true,
		},
		{
			name:    "missing product ID",
			lines:   []CartLine{{Quantity: 1}},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			lines:   []CartLine{{ProductID: "sku-1", Quantity: 0}},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			lines:   []CartLine{{ProductID: "sku-1", Quantity: -2}},
			wantErr: true,
		},
		{
			name:    "one bad line fails the cart",
			lines:   []CartLine{{ProductID: "sku-1", Quantity: 1}, {ProductID: "", Quantity: 1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCart(tt.lines)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMoney(t *testing.T) {
	price := NewMoney(1250, "USD")

	sum, err := price.Add(NewMoney(750, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), sum.Amount)

	_, err = price.Add(NewMoney(100, "EUR"))
	assert.Error(t, err)

	line := CartLine{ProductID: "sku-1", Quantity: 3, UnitPrice: price}
	assert.Equal(t, NewMoney(3750, "USD"), line.LineTotal())
}

func TestNewID(t *testing.T) {
	id := GenerateUUID()

	parsed, err := NewID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = NewID("not-a-uuid")
	assert.Error(t, err)
}
