package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/spendbook/internal/events"
	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/storage"
	"github.com/mmynk/spendbook/internal/storage/memory"
)

func newTransactionService(store storage.Store, pub events.Publisher) (*TransactionService, *ItemService) {
	items := newItemService(store, pub)
	s := NewTransactionService(store, items, pub)
	s.now = func() time.Time { return fixedNow }
	return s, items
}

func purchase(desc string, unitPrice float64, qty int, date string) TransactionInput {
	return TransactionInput{
		Amount:      unitPrice * float64(qty),
		UnitPrice:   unitPrice,
		Quantity:    qty,
		Description: desc,
		Category:    "Food",
		Date:        date,
		Type:        models.TypePurchase,
	}
}

func TestTransactionServiceAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("purchase amount is unitPrice times quantity", func(t *testing.T) {
		s, _ := newTransactionService(memory.New(), nil)
		tx, txs, err := s.Add(ctx, testUser, purchase("커피", 1000, 2, "2024-01-15"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if tx.Amount != 2000 {
			t.Errorf("Amount = %v, want 2000", tx.Amount)
		}
		if tx.ID != fixedNow.UnixMilli() {
			t.Errorf("ID = %d, want %d", tx.ID, fixedNow.UnixMilli())
		}
		if tx.Timestamp != 1705276800000 {
			t.Errorf("Timestamp = %d, want 1705276800000", tx.Timestamp)
		}
		if len(txs) != 1 || txs[0] != tx {
			t.Errorf("ledger = %+v, want just the new transaction", txs)
		}
	})

	t.Run("sale amount is negative", func(t *testing.T) {
		s, _ := newTransactionService(memory.New(), nil)
		in := purchase("Old manga", 1500, 3, "2024-03-01")
		in.Type = models.TypeSale
		tx, _, err := s.Add(ctx, testUser, in)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if tx.Amount != -4500 {
			t.Errorf("Amount = %v, want -4500", tx.Amount)
		}
	})

	t.Run("type defaults to purchase", func(t *testing.T) {
		s, _ := newTransactionService(memory.New(), nil)
		in := purchase("Coffee", 4500, 1, "2024-03-01")
		in.Type = ""
		tx, _, err := s.Add(ctx, testUser, in)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if tx.Type != models.TypePurchase || tx.Amount != 4500 {
			t.Errorf("unexpected transaction: %+v", tx)
		}
	})

	t.Run("new entries are prepended with distinct ids", func(t *testing.T) {
		s, _ := newTransactionService(memory.New(), nil)
		first, _, _ := s.Add(ctx, testUser, purchase("A", 1, 1, "2024-03-01"))
		second, txs, err := s.Add(ctx, testUser, purchase("B", 1, 1, "2024-03-02"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if second.ID == first.ID {
			t.Error("two adds in the same millisecond got the same id")
		}
		if txs[0].ID != second.ID || txs[1].ID != first.ID {
			t.Errorf("ledger order = %d, %d; want newest first", txs[0].ID, txs[1].ID)
		}
	})

	t.Run("links to catalog items by description", func(t *testing.T) {
		s, items := newTransactionService(memory.New(), nil)
		catalog, _ := items.List(ctx, testUser)
		coffee, _ := models.FindItemByName(catalog, "커피")

		tx, _, err := s.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-03-01"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if tx.ItemID != coffee.ID {
			t.Errorf("ItemID = %s, want %s", tx.ItemID, coffee.ID)
		}
		after, _ := items.List(ctx, testUser)
		if len(after) != len(catalog) {
			t.Errorf("catalog grew from %d to %d for a known item", len(catalog), len(after))
		}
	})

	t.Run("unknown description creates a catalog item", func(t *testing.T) {
		s, items := newTransactionService(memory.New(), nil)
		tx, _, err := s.Add(ctx, testUser, purchase("Bagel", 2500, 2, "2024-03-01"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		catalog, _ := items.List(ctx, testUser)
		bagel, ok := models.FindItemByName(catalog, "Bagel")
		if !ok {
			t.Fatal("expected Bagel in the catalog")
		}
		if bagel.Price != 2500 || bagel.Category != "Food" || tx.ItemID != bagel.ID {
			t.Errorf("item %+v, transaction item id %s", bagel, tx.ItemID)
		}
	})

	t.Run("explicit item id is kept", func(t *testing.T) {
		s, items := newTransactionService(memory.New(), nil)
		before, _ := items.List(ctx, testUser)
		in := purchase("Something new", 100, 1, "2024-03-01")
		in.ItemID = before[0].ID
		tx, _, err := s.Add(ctx, testUser, in)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if tx.ItemID != before[0].ID {
			t.Errorf("ItemID = %s, want %s", tx.ItemID, before[0].ID)
		}
		after, _ := items.List(ctx, testUser)
		if len(after) != len(before) {
			t.Error("catalog changed although an item id was given")
		}
	})

	t.Run("validation", func(t *testing.T) {
		s, _ := newTransactionService(memory.New(), nil)
		valid := purchase("Coffee", 4500, 1, "2024-03-01")
		mutations := map[string]func(*TransactionInput){
			"zero amount":       func(in *TransactionInput) { in.Amount = 0 },
			"negative amount":   func(in *TransactionInput) { in.Amount = -1 },
			"zero unit price":   func(in *TransactionInput) { in.UnitPrice = 0 },
			"zero quantity":     func(in *TransactionInput) { in.Quantity = 0 },
			"negative quantity": func(in *TransactionInput) { in.Quantity = -2 },
			"empty description": func(in *TransactionInput) { in.Description = " " },
			"empty category":    func(in *TransactionInput) { in.Category = "" },
			"empty date":        func(in *TransactionInput) { in.Date = "" },
			"malformed date":    func(in *TransactionInput) { in.Date = "15/01/2024" },
			"unknown type":      func(in *TransactionInput) { in.Type = "refund" },
		}
		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				in := valid
				mutate(&in)
				if _, _, err := s.Add(ctx, testUser, in); KindOf(err) != KindValidation {
					t.Errorf("got err %v, want validation error", err)
				}
			})
		}
		txs, _ := s.List(ctx, testUser)
		if len(txs) != 0 {
			t.Errorf("invalid adds were persisted: %+v", txs)
		}
	})
}

func TestTransactionServiceUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTransactionService(memory.New(), nil)
	original, _, _ := s.Add(ctx, testUser, purchase("Coffee", 4500, 1, "2024-03-01"))
	other, _, _ := s.Add(ctx, testUser, purchase("Lunch", 8000, 1, "2024-03-02"))

	in := purchase("Coffee", 5000, 2, "2024-03-05")
	in.Amount = 10000
	in.Type = models.TypeSale
	txs, err := s.Update(ctx, testUser, original.ID, in)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0] != other {
		t.Errorf("unrelated transaction changed: %+v", txs[0])
	}
	got := txs[1]
	if got.ID != original.ID {
		t.Errorf("ID changed: %d -> %d", original.ID, got.ID)
	}
	if got.Timestamp != original.Timestamp {
		t.Errorf("Timestamp changed: %d -> %d", original.Timestamp, got.Timestamp)
	}
	if got.Date != "2024-03-05" || got.UnitPrice != 5000 || got.Quantity != 2 {
		t.Errorf("fields not updated: %+v", got)
	}
	if got.Amount != -10000 {
		t.Errorf("Amount = %v, want -10000", got.Amount)
	}

	t.Run("unknown id is a no-op", func(t *testing.T) {
		got, err := s.Update(ctx, testUser, 42, purchase("X", 1, 1, "2024-03-01"))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		for i := range got {
			if got[i] != txs[i] {
				t.Errorf("transaction %d changed", i)
			}
		}
	})

	t.Run("invalid fields", func(t *testing.T) {
		if _, err := s.Update(ctx, testUser, original.ID, TransactionInput{}); KindOf(err) != KindValidation {
			t.Errorf("got err %v, want validation error", err)
		}
	})
}

func TestTransactionServiceRemove(t *testing.T) {
	ctx := context.Background()
	pub := &recorder{}
	s, _ := newTransactionService(memory.New(), pub)
	a, _, _ := s.Add(ctx, testUser, purchase("커피", 4500, 1, "2024-03-01"))
	b, _, _ := s.Add(ctx, testUser, purchase("점심", 8000, 1, "2024-03-02"))

	txs, err := s.Remove(ctx, testUser, a.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != b.ID {
		t.Errorf("ledger after remove = %+v", txs)
	}

	if _, err := s.Remove(ctx, testUser, 0); KindOf(err) != KindValidation {
		t.Errorf("got err %v, want validation error", err)
	}

	var txEvents int
	for _, typ := range pub.types() {
		if typ == events.TransactionsUpdated {
			txEvents++
		}
	}
	if txEvents != 3 {
		t.Errorf("got %d transaction events, want 3", txEvents)
	}
}

func TestTransactionServiceUpgradesLegacyLedger(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.Set(ctx, storage.TransactionsKey(testUser), []byte(`[
		{"id":1700000000000,"amount":-3000,"description":"Old book","category":"Books","date":"2023-11-14"}
	]`))
	s, _ := newTransactionService(store, nil)

	txs, err := s.List(ctx, testUser)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	tx := txs[0]
	if tx.Type != models.TypeSale || tx.Quantity != 1 || tx.UnitPrice != 3000 || tx.ItemID != "" {
		t.Errorf("unexpected upgraded transaction: %+v", tx)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	pub := &recorder{err: context.DeadlineExceeded}
	s, _ := newTransactionService(memory.New(), pub)
	if _, _, err := s.Add(ctx, testUser, purchase("Coffee", 4500, 1, "2024-03-01")); err != nil {
		t.Fatalf("Add failed although only publishing failed: %v", err)
	}
}

// ledgerFailingStore rejects writes to the transaction ledger only.
type ledgerFailingStore struct {
	storage.Store
}

func (f ledgerFailingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == storage.TransactionsKey(testUser) {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestTransactionService_AddFailedWriteKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	s, items := newTransactionService(ledgerFailingStore{Store: memory.New()}, nil)

	before, err := items.List(ctx, testUser)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	_, _, err = s.Add(ctx, testUser, purchase("Sandwich", 6000, 1, "2024-03-19"))
	if KindOf(err) != KindInternal {
		t.Fatalf("got err %v, want internal error", err)
	}

	after, err := items.List(ctx, testUser)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("catalog has %d items after a failed add, want %d", len(after), len(before))
	}
	if _, ok := models.FindItemByName(after, "Sandwich"); ok {
		t.Error("item created for the failed transaction was kept")
	}
}
