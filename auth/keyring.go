// Package auth persists signed-playback tokens in the system keyring.
// Tokens are stored per playback id, so protected assets can be replayed
// without re-entering the token on every invocation.
package auth

import (
	"github.com/zalando/go-keyring"

	"github.com/vidra-player/vidra/constant"
)

// SetToken persists the playback token for a playback id.
func SetToken(playbackID, token string) error {
	return keyring.Set(constant.Vidra, playbackID, token)
}

// GetToken retrieves the stored playback token for a playback id.
// A missing entry returns keyring.ErrNotFound.
func GetToken(playbackID string) (string, error) {
	return keyring.Get(constant.Vidra, playbackID)
}

// DeleteToken removes the stored playback token for a playback id.
func DeleteToken(playbackID string) error {
	return keyring.Delete(constant.Vidra, playbackID)
}
