package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/spendbook/internal/events"
	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/storage"
)

// ItemInput is the user-editable part of an Item.
type ItemInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

func (in ItemInput) normalize() (ItemInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" || in.Category == "" || in.Price == 0 {
		return in, ValidationError("name, price and category are required")
	}
	if in.Price < 0 {
		return in, ValidationError("price must be greater than 0")
	}
	return in, nil
}

// ItemService manages a user's item catalog.
type ItemService struct {
	store     storage.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewItemService creates a new ItemService with the given storage backend.
func NewItemService(store storage.Store, publisher events.Publisher) *ItemService {
	return &ItemService{store: store, publisher: publisher, now: time.Now}
}

func (s *ItemService) newID() string {
	return models.NewItemID(s.now())
}

// load returns the user's catalog, seeding defaults for new users and writing
// back legacy catalogs once they are upgraded.
func (s *ItemService) load(ctx context.Context, email string) ([]models.Item, error) {
	key := storage.ItemsKey(email)
	items, version, err := storage.LoadJSON[[]models.Item](ctx, s.store, key)
	if errors.Is(err, storage.ErrNotFound) {
		items = models.DefaultItems(s.now())
		if err := s.save(ctx, email, items); err != nil {
			return nil, err
		}
		slog.Info("Seeded default items", "user", email, "count", len(items))
		return items, nil
	}
	if err != nil {
		return nil, InternalError("failed to load items", err)
	}

	upgraded, changed := models.UpgradeItems(items, s.newID)
	if changed || version < storage.SchemaVersion {
		if err := storage.SaveJSON(ctx, s.store, key, upgraded); err != nil {
			return nil, InternalError("failed to save migrated items", err)
		}
		slog.Info("Migrated legacy items", "user", email, "from_version", version)
	}
	return upgraded, nil
}

func (s *ItemService) save(ctx context.Context, email string, items []models.Item) error {
	if err := storage.SaveJSON(ctx, s.store, storage.ItemsKey(email), items); err != nil {
		return InternalError("failed to save items", err)
	}
	publish(ctx, s.publisher, events.ItemsUpdated, email, len(items), s.now())
	return nil
}

// List returns the user's items.
func (s *ItemService) List(ctx context.Context, email string) ([]models.Item, error) {
	slog.Debug("ListItems request received", "user", email)
	return s.load(ctx, email)
}

// Add appends a new item. Names are unique per user, compared case sensitively.
func (s *ItemService) Add(ctx context.Context, email string, in ItemInput) ([]models.Item, error) {
	slog.Info("AddItem request received", "user", email, "name", in.Name)

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, exists := models.FindItemByName(items, in.Name); exists {
		return nil, ConflictError(fmt.Sprintf("item %q already exists", in.Name), ErrDuplicateItem)
	}

	item := models.Item{ID: s.newID(), Name: in.Name, Price: in.Price, Category: in.Category}
	items = append(items, item)
	if err := s.save(ctx, email, items); err != nil {
		return nil, err
	}

	slog.Info("Item added", "user", email, "item_id", item.ID)
	return items, nil
}

// Update replaces the item with the given id. Renaming to a name held by a
// different item is a conflict; keeping the current name never is.
func (s *ItemService) Update(ctx context.Context, email, id string, in ItemInput) ([]models.Item, error) {
	slog.Info("UpdateItem request received", "user", email, "item_id", id)

	if id == "" {
		return nil, ValidationError("item id is required")
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Name == in.Name && item.ID != id {
			return nil, ConflictError(fmt.Sprintf("item %q already exists", in.Name), ErrDuplicateItem)
		}
	}

	updated := make([]models.Item, len(items))
	for i, item := range items {
		if item.ID == id {
			item = models.Item{ID: id, Name: in.Name, Price: in.Price, Category: in.Category}
		}
		updated[i] = item
	}
	if err := s.save(ctx, email, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes the item with the given id. A missing id leaves the
// catalog unchanged.
func (s *ItemService) Remove(ctx context.Context, email, id string) ([]models.Item, error) {
	slog.Info("RemoveItem request received", "user", email, "item_id", id)

	if id == "" {
		return nil, ValidationError("item id is required")
	}
	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	kept := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if err := s.save(ctx, email, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// EnsureItem returns the item named name, creating it with the given price
// and category when the catalog has none.
func (s *ItemService) EnsureItem(ctx context.Context, email, name string, price float64, category string) (models.Item, error) {
	item, _, err := s.ensureItem(ctx, email, name, price, category)
	return item, err
}

// ensureItem is EnsureItem that also reports whether the item was created.
func (s *ItemService) ensureItem(ctx context.Context, email, name string, price float64, category string) (models.Item, bool, error) {
	items, err := s.load(ctx, email)
	if err != nil {
		return models.Item{}, false, err
	}
	if item, ok := models.FindItemByName(items, name); ok {
		return item, false, nil
	}

	item := models.Item{ID: s.newID(), Name: name, Price: price, Category: category}
	if err := s.save(ctx, email, append(items, item)); err != nil {
		return models.Item{}, false, err
	}
	slog.Info("Item created from transaction", "user", email, "item_id", item.ID, "name", name)
	return item, true, nil
}
