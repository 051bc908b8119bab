package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ID represents a unique identifier
type ID string

// GenerateUUID creates a new UUID
func GenerateUUID() ID {
	return ID(uuid.New().String())
}

// NewID creates an ID from string
func NewID(id string) (ID, error) {
	_, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}
	return ID(id), nil
}

// String returns string representation
func (id ID) String() string {
	return string(id)
}

// Timestamps represents creation and update times
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTimestamps creates new timestamps
func NewTimestamps() Timestamps {
	now := time.Now()
	return Timestamps{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update updates the UpdatedAt timestamp
func (t Timestamps) Update() Timestamps {
	t.UpdatedAt = time.Now()
	return t
}

// Money represents a monetary amount
type Money struct {
	Amount   int64  `json:"amount"`   // Amount in cents
	Currency string `json:"currency"` // Currency code (USD, EUR, etc.)
}

// NewMoney creates a new money value
func NewMoney(amount int64, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// IsZero checks if money is zero
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Add adds two money values (must have same currency)
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, errors.New("currency mismatch")
	}
	return Money{
		Amount:   m.Amount + other.Amount,
		Currency: m.Currency,
	}, nil
}

// Multiply scales a money value by a quantity
func (m Money) Multiply(qty int) Money {
	return Money{
		Amount:   m.Amount * int64(qty),
		Currency: m.Currency,
	}
}

// CartLine is a single requested line item in a checkout
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	// Enriched from the catalog; zero values until the lookup step runs.
	ProductName string `json:"product_name,omitempty"`
	UnitPrice   Money  `json:"unit_price,omitempty"`
}

// Validate checks the line is usable for a checkout
func (l CartLine) Validate() error {
	if l.ProductID == "" {
		return errors.New("product ID is required")
	}
	if l.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}

// LineTotal returns the price of the full line
func (l CartLine) LineTotal() Money {
	return l.UnitPrice.Multiply(l.Quantity)
}

// ValidateCart checks every line of a cart
func ValidateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return errors.New("cart is empty")
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	return nil
}
