package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/spendbook/internal/events"
	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/storage"
)

// SettingsService manages per-user preferences.
type SettingsService struct {
	store     storage.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewSettingsService creates a new SettingsService with the given storage backend.
func NewSettingsService(store storage.Store, publisher events.Publisher) *SettingsService {
	return &SettingsService{store: store, publisher: publisher, now: time.Now}
}

// Get returns the user's settings, storing the defaults on first access.
func (s *SettingsService) Get(ctx context.Context, email string) (models.Settings, error) {
	key := storage.SettingsKey(email)
	settings, version, err := storage.LoadJSON[models.Settings](ctx, s.store, key)
	if errors.Is(err, storage.ErrNotFound) {
		settings = models.DefaultSettings()
		if err := storage.SaveJSON(ctx, s.store, key, settings); err != nil {
			return models.Settings{}, InternalError("failed to save settings", err)
		}
		return settings, nil
	}
	if err != nil {
		return models.Settings{}, InternalError("failed to load settings", err)
	}

	upgraded, changed := models.UpgradeSettings(settings)
	if changed || version < storage.SchemaVersion {
		if err := storage.SaveJSON(ctx, s.store, key, upgraded); err != nil {
			return models.Settings{}, InternalError("failed to save migrated settings", err)
		}
	}
	return upgraded, nil
}

// Update merges patch over the stored settings. Only budget, timeFilter and
// currentView are read; other fields are ignored. A patch without any of
// them is rejected.
func (s *SettingsService) Update(ctx context.Context, email string, patch map[string]json.RawMessage) (models.Settings, error) {
	slog.Info("UpdateSettings request received", "user", email, "fields", len(patch))

	current, err := s.Get(ctx, email)
	if err != nil {
		return models.Settings{}, err
	}

	applied := 0
	if raw, ok := patch["budget"]; ok {
		var budget float64
		if isNull(raw) || json.Unmarshal(raw, &budget) != nil || budget < 0 {
			return models.Settings{}, ValidationError("budget must be a number greater than or equal to 0")
		}
		current.Budget = budget
		applied++
	}
	if raw, ok := patch["timeFilter"]; ok {
		var tf models.TimeFilter
		if json.Unmarshal(raw, &tf) != nil || !tf.Valid() {
			return models.Settings{}, ValidationError("timeFilter must be one of day, week, month, monthly, year")
		}
		current.TimeFilter = tf
		applied++
	}
	if raw, ok := patch["currentView"]; ok {
		var view models.View
		if json.Unmarshal(raw, &view) != nil || !view.Valid() {
			return models.Settings{}, ValidationError("currentView must be one of list, chart, calendar")
		}
		current.CurrentView = view
		applied++
	}
	if applied == 0 {
		return models.Settings{}, ValidationError("no settings to update")
	}

	if err := storage.SaveJSON(ctx, s.store, storage.SettingsKey(email), current); err != nil {
		return models.Settings{}, InternalError("failed to save settings", err)
	}
	publish(ctx, s.publisher, events.SettingsUpdated, email, 1, s.now())
	return current, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
