package pagination

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Cursor is the decoded form of an opaque page token.
type Cursor struct {
	Offset    int       `json:"offset"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxTokenAge is how long a page token stays usable.
const MaxTokenAge = 24 * time.Hour

// CursorEncoder seals cursors into opaque page tokens so that clients
// cannot tamper with offsets.
type CursorEncoder struct {
	cipher cipher.Block
}

// NewCursorEncoder creates a new cursor encoder. The key is normalized
// to the 32 bytes AES-256 expects.
func NewCursorEncoder(key []byte) (*CursorEncoder, error) {
	block, err := aes.NewCipher(NormalizeKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &CursorEncoder{cipher: block}, nil
}

// NormalizeKey pads or truncates a key to 32 bytes.
func NormalizeKey(key []byte) []byte {
	normalized := make([]byte, 32)
	copy(normalized, key)
	return normalized
}

// EncodeCursor encrypts a cursor into a base64 page token.
func (e *CursorEncoder) EncodeCursor(cursor *Cursor) (string, error) {
	plaintext, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}

	gcm, err := cipher.NewGCM(e.cipher)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// DecodeCursor decrypts a base64 page token back into a cursor.
func (e *CursorEncoder) DecodeCursor(encoded string) (*Cursor, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	gcm, err := cipher.NewGCM(e.cipher)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	var cursor Cursor
	if err := json.Unmarshal(plaintext, &cursor); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cursor: %w", err)
	}

	return &cursor, nil
}

// IsExpired checks if the cursor is older than the given duration.
func (c *Cursor) IsExpired(maxAge time.Duration) bool {
	return time.Since(c.Timestamp) > maxAge
}

// CalculateOffset resolves a page token into an offset. An empty token
// resolves to zero.
func CalculateOffset(encoder *CursorEncoder, pageToken string) (int, error) {
	if pageToken == "" {
		return 0, nil
	}

	cursor, err := encoder.DecodeCursor(pageToken)
	if err != nil {
		return 0, fmt.Errorf("invalid page token: %w", err)
	}
	if cursor.IsExpired(MaxTokenAge) {
		return 0, fmt.Errorf("page token expired")
	}

	return cursor.Offset, nil
}

// NextPageToken builds the token for the page after the current one, or
// an empty string when there are no further pages.
func NextPageToken(encoder *CursorEncoder, currentOffset, pageSize int, hasMore bool) (string, error) {
	if !hasMore {
		return "", nil
	}

	return encoder.EncodeCursor(&Cursor{
		Offset:    currentOffset + pageSize,
		Timestamp: time.Now(),
	})
}
