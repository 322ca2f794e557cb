package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayarcash-backend/internal/domains/payment/model"
)

func TestSettingsStore_Get(t *testing.T) {
	store := NewSettingsStore(map[string]model.MethodSettings{
		model.MethodFPX: {Enabled: true, PortalKey: "p", BearerToken: "b", APISecretKey: "s"},
	}, nil)

	got, err := store.Get(context.Background(), model.MethodFPX)
	require.NoError(t, err)
	assert.Equal(t, model.MethodFPX, got.Method)
	assert.True(t, got.HasCredentials())

	_, err = store.Get(context.Background(), model.MethodDirectDebit)
	assert.ErrorIs(t, err, model.ErrMissingCredentials)
}

func TestSettingsStore_ChannelOverlay(t *testing.T) {
	store := NewSettingsStore(nil, map[string]model.Channel{
		model.MethodSPayLater: {Title: "Shopee PayLater", ChannelNumber: 7, MaxAmount: decimal.NewFromInt(500)},
	})

	ch, ok := store.Channel(model.MethodSPayLater)
	require.True(t, ok)
	assert.Equal(t, "Shopee PayLater", ch.Title)
	assert.True(t, ch.MaxAmount.Equal(decimal.NewFromInt(500)))

	_, ok = store.Channel("unknown-wc")
	assert.False(t, ok)

	channels := store.Channels()
	require.Len(t, channels, len(model.DefaultChannels()))
	assert.Equal(t, model.MethodFPX, channels[0].Method)
}
