package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by Transaction.Date.
const DateLayout = "2006-01-02"

// TransactionType distinguishes money spent from money received.
type TransactionType string

const (
	TypePurchase TransactionType = "purchase"
	TypeSale     TransactionType = "sale"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypePurchase || t == TypeSale
}

// Sign is +1 for purchases and -1 for sales.
func (t TransactionType) Sign() int64 {
	if t == TypeSale {
		return -1
	}
	return 1
}

// Transaction is a single dated purchase or sale.
type Transaction struct {
	// ID is the creation time in unix milliseconds.
	ID int64 `json:"id"`

	// Amount is signed: positive for purchases, negative for sales.
	// At creation it equals Sign(Type) * UnitPrice * Quantity.
	Amount    float64 `json:"amount"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`

	Description string `json:"description"`
	Category    string `json:"category"`

	// Date is a calendar date (YYYY-MM-DD) without time of day.
	Date string `json:"date"`

	// Timestamp is Date at UTC midnight in unix milliseconds. It is set at
	// creation and kept across updates.
	Timestamp int64 `json:"timestamp"`

	// ItemID links to a catalog Item. Legacy transactions have none.
	ItemID string `json:"itemId,omitempty"`

	Type TransactionType `json:"type"`
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// DateMillis returns the unix milliseconds of a YYYY-MM-DD date at UTC midnight.
func DateMillis(date string) (int64, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
