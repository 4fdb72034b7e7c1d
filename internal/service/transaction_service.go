package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/mmynk/spendbook/internal/calculator"
	"github.com/mmynk/spendbook/internal/events"
	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/storage"
)

// TransactionInput is the body of add and update requests.
type TransactionInput struct {
	Amount      float64                `json:"amount"`
	UnitPrice   float64                `json:"unitPrice"`
	Quantity    int                    `json:"quantity"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Date        string                 `json:"date"`
	ItemID      string                 `json:"itemId,omitempty"`
	Type        models.TransactionType `json:"type,omitempty"`
}

func (in TransactionInput) normalize() (TransactionInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Date = strings.TrimSpace(in.Date)
	in.ItemID = strings.TrimSpace(in.ItemID)

	if in.Description == "" || in.Category == "" || in.Date == "" ||
		in.Amount == 0 || in.UnitPrice == 0 || in.Quantity == 0 {
		return in, ValidationError("amount, unitPrice, quantity, description, category and date are required")
	}
	if in.Amount < 0 || in.UnitPrice < 0 || in.Quantity < 0 {
		return in, ValidationError("amount, unitPrice and quantity must be greater than 0")
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return in, ValidationError("date must be formatted as YYYY-MM-DD")
	}
	if in.Type == "" {
		in.Type = models.TypePurchase
	}
	if !in.Type.Valid() {
		return in, ValidationError(`type must be "purchase" or "sale"`)
	}
	return in, nil
}

// TransactionService manages a user's transaction ledger.
type TransactionService struct {
	store     storage.Store
	items     *ItemService
	publisher events.Publisher
	now       func() time.Time
}

// NewTransactionService creates a new TransactionService. items is used to
// link transactions to catalog entries by description.
func NewTransactionService(store storage.Store, items *ItemService, publisher events.Publisher) *TransactionService {
	return &TransactionService{store: store, items: items, publisher: publisher, now: time.Now}
}

func (s *TransactionService) load(ctx context.Context, email string) ([]models.Transaction, error) {
	key := storage.TransactionsKey(email)
	txs, version, err := storage.LoadJSON[[]models.Transaction](ctx, s.store, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.Transaction{}, nil
	}
	if err != nil {
		return nil, InternalError("failed to load transactions", err)
	}

	upgraded, changed := models.UpgradeTransactions(txs)
	if changed || version < storage.SchemaVersion {
		if err := storage.SaveJSON(ctx, s.store, key, upgraded); err != nil {
			return nil, InternalError("failed to save migrated transactions", err)
		}
		slog.Info("Migrated legacy transactions", "user", email, "from_version", version)
	}
	return upgraded, nil
}

func (s *TransactionService) save(ctx context.Context, email string, txs []models.Transaction) error {
	if err := storage.SaveJSON(ctx, s.store, storage.TransactionsKey(email), txs); err != nil {
		return InternalError("failed to save transactions", err)
	}
	publish(ctx, s.publisher, events.TransactionsUpdated, email, len(txs), s.now())
	return nil
}

// List returns the user's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, email string) ([]models.Transaction, error) {
	slog.Debug("ListTransactions request received", "user", email)
	return s.load(ctx, email)
}

// Add records a new transaction at the head of the ledger. Its amount is
// derived from the type, unit price and quantity. A transaction without an
// itemId is linked to the catalog item named by its description, which is
// created when missing and removed again if the ledger write fails.
func (s *TransactionService) Add(ctx context.Context, email string, in TransactionInput) (models.Transaction, []models.Transaction, error) {
	slog.Info("AddTransaction request received", "user", email, "description", in.Description, "date", in.Date)

	in, err := in.normalize()
	if err != nil {
		return models.Transaction{}, nil, err
	}

	txs, err := s.load(ctx, email)
	if err != nil {
		return models.Transaction{}, nil, err
	}

	createdItem := ""
	if in.ItemID == "" && s.items != nil {
		item, created, err := s.items.ensureItem(ctx, email, in.Description, in.UnitPrice, in.Category)
		if err != nil {
			return models.Transaction{}, nil, err
		}
		in.ItemID = item.ID
		if created {
			createdItem = item.ID
		}
	}

	// Ids are creation milliseconds; bump past the newest entry so two adds in
	// the same millisecond stay distinct.
	id := s.now().UnixMilli()
	if len(txs) > 0 && txs[0].ID >= id {
		id = txs[0].ID + 1
	}
	timestamp, _ := models.DateMillis(in.Date)

	tx := models.Transaction{
		ID:          id,
		Amount:      calculator.SignedAmount(in.Type, in.UnitPrice, in.Quantity),
		UnitPrice:   in.UnitPrice,
		Quantity:    in.Quantity,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
		Timestamp:   timestamp,
		ItemID:      in.ItemID,
		Type:        in.Type,
	}

	txs = append([]models.Transaction{tx}, txs...)
	if err := s.save(ctx, email, txs); err != nil {
		if createdItem != "" {
			if _, rerr := s.items.Remove(ctx, email, createdItem); rerr != nil {
				slog.Warn("Failed to remove item created for a failed transaction", "user", email, "item_id", createdItem, "error", rerr)
			}
		}
		return models.Transaction{}, nil, err
	}

	slog.Info("Transaction added", "user", email, "transaction_id", tx.ID, "amount", tx.Amount)
	return tx, txs, nil
}

// Update replaces the transaction with the given id. The id and the original
// timestamp are kept; the amount takes the sign of the new type. An unknown
// id leaves the ledger unchanged.
func (s *TransactionService) Update(ctx context.Context, email string, id int64, in TransactionInput) ([]models.Transaction, error) {
	slog.Info("UpdateTransaction request received", "user", email, "transaction_id", id)

	if id == 0 {
		return nil, ValidationError("transaction id is required")
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	txs, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	updated := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		if tx.ID == id {
			tx = models.Transaction{
				ID:          tx.ID,
				Amount:      float64(in.Type.Sign()) * math.Abs(in.Amount),
				UnitPrice:   in.UnitPrice,
				Quantity:    in.Quantity,
				Description: in.Description,
				Category:    in.Category,
				Date:        in.Date,
				Timestamp:   tx.Timestamp,
				ItemID:      in.ItemID,
				Type:        in.Type,
			}
		}
		updated[i] = tx
	}

	if err := s.save(ctx, email, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes the transaction with the given id.
func (s *TransactionService) Remove(ctx context.Context, email string, id int64) ([]models.Transaction, error) {
	slog.Info("RemoveTransaction request received", "user", email, "transaction_id", id)

	if id == 0 {
		return nil, ValidationError("transaction id is required")
	}
	txs, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	kept := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if err := s.save(ctx, email, kept); err != nil {
		return nil, err
	}
	return kept, nil
}
