package upload

import (
	"fmt"

	"catalog_service/internal/domain"
)

// extensionByMediaType is the fixed allow-list of accepted image types.
var extensionByMediaType = map[string]string{
	"image/png":  "png",
	"image/jpg":  "jpg",
	"image/jpeg": "jpeg",
}

// ExtensionFor maps a declared media type to its file extension, or fails
// with ErrUnsupportedMediaType for anything outside the allow-list.
func ExtensionFor(mediaType string) (string, error) {
	ext, ok := extensionByMediaType[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, mediaType)
	}
	return ext, nil
}
