package session

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
)

const maxAvatarBytes = 2 << 20

// AvatarDataURI encodes image bytes as a data URI. Non-images are rejected.
func AvatarDataURI(data []byte) (string, error) {
	if len(data) > maxAvatarBytes {
		return "", clierr.Newf(clierr.InvalidInput, "avatar is larger than %d bytes", maxAvatarBytes)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", clierr.Newf(clierr.InvalidInput, "avatar must be an image, got %s", mt.String()).
			WithDetails(map[string]any{"mime": mt.String()})
	}
	// Drop parameters such as "; charset=utf-8" that svg detection adds.
	mime, _, _ := strings.Cut(mt.String(), ";")
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// AvatarFromFile reads path and encodes it with AvatarDataURI.
func AvatarFromFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied avatar path
	if err != nil {
		return "", fmt.Errorf("reading avatar: %w", err)
	}
	return AvatarDataURI(data)
}
