package token

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayarcash-backend/internal/domains/payment/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T, ttl time.Duration) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, ttl)
	require.NoError(t, err)
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t, 0)

	raw, err := c.Issue("12345", model.PurposeCheckout, model.KeyCheckout)
	require.NoError(t, err)

	tok, err := c.Consume(raw, model.KeyCheckout, model.PurposeCheckout)
	require.NoError(t, err)
	assert.Equal(t, "12345", tok.Payload)
	assert.Equal(t, model.PurposeCheckout, tok.Purpose)
	assert.Equal(t, Fingerprint("12345"), tok.Fingerprint)
	assert.Len(t, tok.Fingerprint, 12)
}

func TestCodec_PayloadWithSeparators(t *testing.T) {
	c := newTestCodec(t, 0)

	payload := "100,1,900101015555,2|extra"
	raw, err := c.Issue(payload, model.PurposeCheckout, model.KeyCheckout)
	require.NoError(t, err)

	tok, err := c.Consume(raw, model.KeyCheckout, model.PurposeCheckout)
	require.NoError(t, err)
	assert.Equal(t, payload, tok.Payload)
}

func TestCodec_Rejects(t *testing.T) {
	c := newTestCodec(t, 0)

	raw, err := c.Issue("100", model.PurposeDirectDebit, "100")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		key     string
		purpose string
	}{
		{name: "purpose mismatch", token: raw, key: "100", purpose: model.PurposeCheckout},
		{name: "wrong key", token: raw, key: "101", purpose: model.PurposeDirectDebit},
		{name: "empty token", token: "", key: "100", purpose: model.PurposeDirectDebit},
		{name: "not base64", token: "%%%not-a-token", key: "100", purpose: model.PurposeDirectDebit},
		{name: "truncated", token: raw[:10], key: "100", purpose: model.PurposeDirectDebit},
		{name: "tampered", token: tamper(raw), key: "100", purpose: model.PurposeDirectDebit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := c.Consume(tt.token, tt.key, tt.purpose)
			assert.Nil(t, tok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidToken))

			var pe *model.PaymentError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, model.ErrCodeInvalidToken, pe.Code)
		})
	}
}

func TestCodec_DifferentSecretCannotOpen(t *testing.T) {
	issuer := newTestCodec(t, 0)
	other, err := NewCodec("another-secret-of-enough-length", 0)
	require.NoError(t, err)

	raw, err := issuer.Issue("55", model.PurposeCheckout, model.KeyCheckout)
	require.NoError(t, err)

	_, err = other.Consume(raw, model.KeyCheckout, model.PurposeCheckout)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestCodec_Expiry(t *testing.T) {
	c := newTestCodec(t, 30*time.Minute)
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issued }

	raw, err := c.Issue("77", model.PurposeCheckout, model.KeyCheckout)
	require.NoError(t, err)

	c.now = func() time.Time { return issued.Add(29 * time.Minute) }
	_, err = c.Consume(raw, model.KeyCheckout, model.PurposeCheckout)
	require.NoError(t, err)

	c.now = func() time.Time { return issued.Add(31 * time.Minute) }
	_, err = c.Consume(raw, model.KeyCheckout, model.PurposeCheckout)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestCodec_TokensAreRandomized(t *testing.T) {
	c := newTestCodec(t, 0)

	a, err := c.Issue("1", model.PurposeCheckout, model.KeyCheckout)
	require.NoError(t, err)
	b, err := c.Issue("1", model.PurposeCheckout, model.KeyCheckout)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNewCodec_ShortSecret(t *testing.T) {
	_, err := NewCodec("short", 0)
	assert.Error(t, err)
}

func TestMemoryLedger_ClaimOnce(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	ok, err := l.Claim(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Claim(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	now := time.Now()
	l.now = func() time.Time { return now.Add(2 * time.Hour) }
	ok, err = l.Claim(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func tamper(raw string) string {
	b := []byte(raw)
	i := len(b) - 5
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

// sameBytesVariant swaps the last character of raw for one that a lenient
// decoder maps to the same bytes.
func sameBytesVariant(t *testing.T, raw string) string {
	t.Helper()
	want, err := base64.RawURLEncoding.DecodeString(raw)
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	head := raw[:len(raw)-1]
	for _, ch := range alphabet {
		candidate := head + string(ch)
		if candidate == raw {
			continue
		}
		got, err := base64.RawURLEncoding.DecodeString(candidate)
		if err == nil && bytes.Equal(got, want) {
			return candidate
		}
	}
	t.Fatalf("no alternate encoding for %d-byte token", len(want))
	return ""
}

func TestCodec_RejectsNonCanonicalEncoding(t *testing.T) {
	c := newTestCodec(t, 0)

	raw, err := c.Issue("12345", model.PurposeCheckout, model.KeyCheckout)
	require.NoError(t, err)
	variant := sameBytesVariant(t, raw)

	_, err = c.Consume(variant, model.KeyCheckout, model.PurposeCheckout)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	tok, err := c.Consume(raw, model.KeyCheckout, model.PurposeCheckout)
	require.NoError(t, err)
	assert.Equal(t, LedgerID(raw), tok.ID)
	assert.Equal(t, LedgerID(raw), LedgerID(variant))
}

func TestMemoryLedger_Release(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	ok, err := l.Claim(ctx, "abc", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Release(ctx, "abc"))

	ok, err = l.Claim(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}
