// Package pagetoken issues and verifies opaque pagination cursors.
//
// A token is a fernet token wrapping the offset of the next page and the scope
// (the list filter) it was issued for, so a token cannot be replayed against a
// different listing and expires after a configured TTL.
package pagetoken

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
)

type payload struct {
	Offset int    `json:"o"`
	Scope  string `json:"s"`
}

// Codec encodes and decodes page tokens.
type Codec struct {
	keys []*fernet.Key
	ttl  time.Duration
}

// New creates a Codec from a base64 fernet key. An empty key generates a random
// one, so tokens do not survive a restart. A ttl <= 0 disables expiry.
func New(encodedKey string, ttl time.Duration) (*Codec, error) {
	var key *fernet.Key

	if encodedKey == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate page token key: %w", err)
		}
	} else {
		var err error
		key, err = fernet.DecodeKey(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("invalid page token key: %w", err)
		}
	}

	if ttl <= 0 {
		ttl = -1
	}

	return &Codec{keys: []*fernet.Key{key}, ttl: ttl}, nil
}

// Encode returns a token for the page starting at offset within scope.
func (c *Codec) Encode(scope string, offset int) (string, error) {
	msg, err := json.Marshal(payload{Offset: offset, Scope: scope})
	if err != nil {
		return "", fmt.Errorf("failed to encode page token: %w", err)
	}

	tok, err := fernet.EncryptAndSign(msg, c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to sign page token: %w", err)
	}

	return string(tok), nil
}

// Decode returns the offset carried by token. An empty token is the first page.
// Returns apperrors.ErrInvalidPageToken for forged, expired or foreign-scope tokens.
func (c *Codec) Decode(scope, token string) (int, error) {
	if token == "" {
		return 0, nil
	}

	msg := fernet.VerifyAndDecrypt([]byte(token), c.ttl, c.keys)
	if msg == nil {
		return 0, apperrors.ErrInvalidPageToken
	}

	var p payload
	if err := json.Unmarshal(msg, &p); err != nil {
		return 0, apperrors.ErrInvalidPageToken
	}
	if p.Scope != scope || p.Offset < 0 {
		return 0, apperrors.ErrInvalidPageToken
	}

	return p.Offset, nil
}
