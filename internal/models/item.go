package models

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item is a catalog entry a transaction can reference.
type Item struct {
	// ID has the form item_<unix ms>_<9 base36 chars>.
	ID string `json:"id"`

	// Name is unique per user. Comparison is case sensitive.
	Name string `json:"name"`

	// Price is the default unit price used when recording a transaction.
	Price float64 `json:"price"`

	Category string `json:"category"`
}

// NewItemID generates an item id from the given time plus a random suffix.
// Ids are not checked against existing ones; the suffix makes collisions
// negligible for a single user's catalog.
func NewItemID(now time.Time) string {
	u := uuid.New()
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(u[:8]), 36)
	if len(suffix) < 9 {
		suffix = strings.Repeat("0", 9-len(suffix)) + suffix
	}
	return fmt.Sprintf("item_%d_%s", now.UnixMilli(), suffix[len(suffix)-9:])
}

// DefaultItems returns the starter catalog seeded for a new user.
func DefaultItems(now time.Time) []Item {
	seeds := []Item{
		{Name: "원피스", Price: 13000, Category: "만화"},
		{Name: "나루토", Price: 12000, Category: "만화"},
		{Name: "블리치", Price: 11000, Category: "만화"},
		{Name: "커피", Price: 4500, Category: "음료"},
		{Name: "점심", Price: 8000, Category: "식사"},
		{Name: "지하철", Price: 1500, Category: "교통"},
	}
	for i := range seeds {
		seeds[i].ID = NewItemID(now)
	}
	return seeds
}

// FindItemByName returns the item with exactly the given name.
func FindItemByName(items []Item, name string) (Item, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}
