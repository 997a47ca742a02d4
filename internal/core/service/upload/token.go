package upload

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"upload-gate/internal/core/domain"
)

// newSessionToken generates the opaque handle the client later verifies with.
// 32 bytes = 256 bits of entropy.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// deriveObjectKey builds the storage key for a new session. Nothing of the
// client-declared filename survives into the key except the validated extension.
func deriveObjectKey(keyPrefix, ext string) string {
	return fmt.Sprintf("%s%s/%s%s", domain.StagingPrefix, keyPrefix, uuid.New().String(), ext)
}
