package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp_EmbedsSchema(t *testing.T) {
	list, err := Up()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	assert.Equal(t, "001_bayarcash", list[0].Name)
	for _, table := range []string{"orders", "order_notes", "order_meta", "subscriptions", "bayarcash_callback_logs", "outbox"} {
		assert.Contains(t, list[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
