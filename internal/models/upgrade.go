package models

import "math"

// UpgradeItems assigns an id to every item lacking one. It returns a new slice
// and reports whether anything changed; the input is not modified.
func UpgradeItems(items []Item, newID func() string) ([]Item, bool) {
	out := make([]Item, len(items))
	changed := false
	for i, item := range items {
		if item.ID == "" {
			item.ID = newID()
			changed = true
		}
		out[i] = item
	}
	return out, changed
}

// UpgradeTransactions fills fields that older records lack:
//   - Type from the sign of Amount
//   - Quantity as 1
//   - UnitPrice as |Amount| / Quantity
//   - Timestamp from Date
//
// ItemID is left empty; item filtering falls back to the description for
// such transactions. The input is not modified.
func UpgradeTransactions(txs []Transaction) ([]Transaction, bool) {
	out := make([]Transaction, len(txs))
	changed := false
	for i, tx := range txs {
		if tx.Type == "" {
			tx.Type = TypePurchase
			if tx.Amount < 0 {
				tx.Type = TypeSale
			}
			changed = true
		}
		if tx.Quantity <= 0 {
			tx.Quantity = 1
			changed = true
		}
		if tx.UnitPrice == 0 && tx.Amount != 0 {
			tx.UnitPrice = math.Abs(tx.Amount) / float64(tx.Quantity)
			changed = true
		}
		if tx.Timestamp == 0 {
			if ms, err := DateMillis(tx.Date); err == nil {
				tx.Timestamp = ms
				changed = true
			}
		}
		out[i] = tx
	}
	return out, changed
}

// UpgradeSettings replaces unknown or missing enum values with defaults.
func UpgradeSettings(s Settings) (Settings, bool) {
	changed := false
	def := DefaultSettings()
	if !s.TimeFilter.Valid() {
		s.TimeFilter = def.TimeFilter
		changed = true
	}
	if !s.CurrentView.Valid() {
		s.CurrentView = def.CurrentView
		changed = true
	}
	if s.Budget < 0 {
		s.Budget = def.Budget
		changed = true
	}
	return s, changed
}
