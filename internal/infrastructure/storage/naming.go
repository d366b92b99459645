package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AvatarFilename derives a storage name for an uploaded avatar from a random
// identifier and the current timestamp: profile-<uuid>-<unixms>.<ext>. The
// uuid alone makes collisions negligible; the millisecond timestamp keeps
// names distinct across processes even if a generator ever repeats.
func AvatarFilename(ext string) string {
	return fmt.Sprintf("profile-%s-%d.%s", uuid.NewString(), time.Now().UnixMilli(), ext)
}

// ExtFromContentType extracts the media subtype from a declared content type,
// e.g. "image/png" -> "png".
func ExtFromContentType(contentType string) string {
	if i := strings.Index(contentType, "/"); i >= 0 {
		return contentType[i+1:]
	}
	return contentType
}
