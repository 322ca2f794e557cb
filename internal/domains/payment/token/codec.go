package token

import (
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"bayarcash-backend/internal/domains/payment/model"
)

const (
	version        byte = 1
	headerSize          = 1 + 8
	fingerprintLen      = 12
	separator           = "|"
	hkdfInfo            = "bayarcash-return-token"
)

// Token is the decoded content of a return token.
type Token struct {
	// ID is the ledger id of the decoded token bytes
	ID          string
	Payload     string
	Fingerprint string
	Purpose     string
	IssuedAt    time.Time
}

// Codec issues and consumes encrypted, purpose-bound return tokens.
// A token only opens with the same secret and key it was issued with.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a codec. A zero ttl disables expiry.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("token secret must be at least 16 bytes")
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue encrypts payload|fingerprint|purpose under the given key.
func (c *Codec) Issue(payload, purpose, key string) (string, error) {
	if purpose == "" {
		return "", fmt.Errorf("token purpose is required")
	}

	aead, err := c.aead(key)
	if err != nil {
		return "", err
	}

	header := make([]byte, headerSize)
	header[0] = version
	binary.BigEndian.PutUint64(header[1:], uint64(c.now().Unix()))

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	plaintext := strings.Join([]string{payload, Fingerprint(payload), purpose}, separator)

	out := append(header, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), header)

	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Consume decrypts a token and checks its purpose, fingerprint and age.
func (c *Codec) Consume(raw, key, expectedPurpose string) (*Token, error) {
	if raw == "" {
		return nil, model.NewInvalidTokenError("empty token")
	}

	// Strict rejects re-encodings that differ only in unused trailing bits.
	data, err := base64.RawURLEncoding.Strict().DecodeString(raw)
	if err != nil {
		return nil, model.NewInvalidTokenError("malformed encoding")
	}

	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}

	if len(data) < headerSize+aead.NonceSize()+aead.Overhead() {
		return nil, model.NewInvalidTokenError("token too short")
	}
	if data[0] != version {
		return nil, model.NewInvalidTokenError("unsupported version")
	}

	header := data[:headerSize]
	nonce := data[headerSize : headerSize+aead.NonceSize()]
	ciphertext := data[headerSize+aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return nil, model.NewInvalidTokenError("decryption failed")
	}

	// Purpose and fingerprint are read from the right so the payload may contain separators.
	text := string(plaintext)
	purposeAt := strings.LastIndex(text, separator)
	if purposeAt < 0 {
		return nil, model.NewInvalidTokenError("missing purpose")
	}
	fingerprintAt := strings.LastIndex(text[:purposeAt], separator)
	if fingerprintAt < 0 {
		return nil, model.NewInvalidTokenError("missing fingerprint")
	}

	tok := &Token{
		ID:          ledgerID(data),
		Payload:     text[:fingerprintAt],
		Fingerprint: text[fingerprintAt+1 : purposeAt],
		Purpose:     text[purposeAt+1:],
		IssuedAt:    time.Unix(int64(binary.BigEndian.Uint64(header[1:])), 0),
	}

	if tok.Purpose != expectedPurpose {
		return nil, model.NewInvalidTokenError("purpose mismatch")
	}
	if tok.Fingerprint != Fingerprint(tok.Payload) {
		return nil, model.NewInvalidTokenError("fingerprint mismatch")
	}
	if c.ttl > 0 && c.now().Sub(tok.IssuedAt) > c.ttl {
		return nil, model.NewInvalidTokenError("token expired")
	}

	return tok, nil
}

// Fingerprint is the first 12 hex characters of md5(payload).
func Fingerprint(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// LedgerID identifies a token in the single-use ledger without storing it.
// The id is taken over the decoded bytes, so every encoding of one token shares it.
func LedgerID(raw string) string {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		data = []byte(raw)
	}
	return ledgerID(data)
}

func ledgerID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *Codec) aead(key string) (cipher.AEAD, error) {
	derived := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, c.secret, []byte(key), []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, fmt.Errorf("failed to derive token key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return nil, fmt.Errorf("failed to init token cipher: %w", err)
	}
	return aead, nil
}
