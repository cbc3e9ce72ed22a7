// internal/form/csrf.go
//
// Folio – Forms subsystem: stateless CSRF tokens.
//
// Context
//   Rendered forms embed a hidden `csrf_token` input.  POST handlers verify
//   it before handing values to a Controller.  Tokens are stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the process secret from `security.csrf_key`.
//
//   Verification checks the signature and that the issue time lies within
//   MaxAge (with one minute of tolerated clock skew).  No server-side store
//   is needed, so multiple instances behind a balancer agree as long as
//   they share the key.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	nonceBytes  = 16
	tokenBytes  = nonceBytes + 8 + sha256.Size
	minKeyBytes = 32
	clockSkew   = time.Minute

	// DefaultTokenAge is used when NewTokens receives maxAge <= 0.
	DefaultTokenAge = 2 * time.Hour
)

// ErrShortKey is returned when a configured CSRF key is under 32 bytes.
var ErrShortKey = errors.New("form: csrf key must be at least 32 bytes")

// Tokens issues and verifies CSRF tokens.  Safe for concurrent use.
type Tokens struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewTokens builds a Tokens from a base64url (raw or padded) key.  An empty
// key yields a random, process-local key; ephemeral reports that case so the
// caller can warn.
func NewTokens(encodedKey string, maxAge time.Duration) (t *Tokens, ephemeral bool, err error) {
	if maxAge <= 0 {
		maxAge = DefaultTokenAge
	}
	var key []byte
	if encodedKey == "" {
		key = make([]byte, minKeyBytes)
		if _, err := rand.Read(key); err != nil {
			return nil, false, err
		}
		ephemeral = true
	} else {
		key, err = decodeKey(encodedKey)
		if err != nil {
			return nil, false, err
		}
		if len(key) < minKeyBytes {
			return nil, false, ErrShortKey
		}
	}
	return &Tokens{key: key, maxAge: maxAge, now: time.Now}, ephemeral, nil
}

func decodeKey(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// Generate creates a new token.  Call once per form render.
func (t *Tokens) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(t.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, t.sign(nonce, ts)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok is authentic and fresh.
func (t *Tokens) Verify(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}
	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := t.now()
	if now.Sub(issued) > t.maxAge || issued.Sub(now) > clockSkew {
		return false
	}
	return hmac.Equal(sig, t.sign(nonce, tsBytes))
}

func (t *Tokens) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, t.key)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
