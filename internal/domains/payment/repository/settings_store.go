package repository

import (
	"context"

	"bayarcash-backend/internal/domains/payment/model"
)

// =====================================================
// SETTINGS STORE (CONFIG BACKED)
// =====================================================
type settingsStore struct {
	settings map[string]model.MethodSettings
	channels map[string]model.Channel
}

// NewSettingsStore serves credentials loaded from config. Channels not present
// in the overlay fall back to the built-in catalogue.
func NewSettingsStore(settings map[string]model.MethodSettings, channels map[string]model.Channel) SettingsStore {
	merged := model.DefaultChannels()
	for method, ch := range channels {
		ch.Method = method
		merged[method] = ch
	}

	copied := make(map[string]model.MethodSettings, len(settings))
	for method, s := range settings {
		s.Method = method
		copied[method] = s
	}

	return &settingsStore{settings: copied, channels: merged}
}

func (s *settingsStore) Get(ctx context.Context, method string) (*model.MethodSettings, error) {
	settings, ok := s.settings[method]
	if !ok {
		return nil, model.NewMissingCredentialsError(method)
	}
	return &settings, nil
}

func (s *settingsStore) Channel(method string) (model.Channel, bool) {
	ch, ok := s.channels[method]
	return ch, ok
}

func (s *settingsStore) Channels() []model.Channel {
	return model.SortedChannels(s.channels)
}
