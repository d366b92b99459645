package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrFileTooLarge = errors.New("file exceeds the allowed size")
var ErrTooManyFiles = errors.New("exactly one file is required")
var ErrNoFile = errors.New("no file provided")

// Config carries the process-wide upload settings. It is built once at
// startup and handed to the store; nothing here is ambient state.
type Config struct {
	// Dir is the directory avatar files are written to. It plays no part in
	// served URIs, so it may be absolute.
	Dir string
	// PublicPath is the URL path the static file server exposes the upload
	// directory under, e.g. "img/profiles".
	PublicPath string
	// BaseURL is the public server URL avatar URIs are built from.
	BaseURL string
	// MaxBytes is the per-file size ceiling.
	MaxBytes int64
	// MaxFiles is the number of files accepted per upload request.
	MaxFiles int
}

// AvatarStore writes avatar files to a shared append-only directory. The
// naming strategy's uniqueness is the only overwrite safeguard, so Save
// refuses to replace an existing file.
type AvatarStore struct {
	cfg Config
}

func NewAvatarStore(cfg Config) *AvatarStore {
	return &AvatarStore{cfg: cfg}
}

// MaxBytes exposes the configured size ceiling for callers that validate
// before reading the upload body.
func (s *AvatarStore) MaxBytes() int64 {
	return s.cfg.MaxBytes
}

// MaxFiles exposes the configured per-request file limit.
func (s *AvatarStore) MaxFiles() int {
	return s.cfg.MaxFiles
}

// ValidateCount checks the number of files in an upload request against the
// configured limit before anything is read.
func (s *AvatarStore) ValidateCount(n int) error {
	if n == 0 {
		return ErrNoFile
	}
	if n > s.cfg.MaxFiles {
		return ErrTooManyFiles
	}
	return nil
}

// Save writes src to disk under the given filename and returns the public
// URI of the stored file. declaredSize is checked before any byte is
// written; the copy itself is capped as well in case the declaration lied.
func (s *AvatarStore) Save(filename string, src io.Reader, declaredSize int64) (string, error) {
	if declaredSize > s.cfg.MaxBytes {
		return "", ErrFileTooLarge
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}

	path := filepath.Join(s.cfg.Dir, filename)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.cfg.MaxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > s.cfg.MaxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, ErrFileTooLarge) {
			return "", ErrFileTooLarge
		}
		return "", fmt.Errorf("write avatar file: %w", err)
	}

	return s.publicURI(filename), nil
}

// publicURI builds the served URI from the configured public path only; the
// filesystem location of the store never appears in it.
func (s *AvatarStore) publicURI(filename string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/" +
		strings.Trim(s.cfg.PublicPath, "/") + "/" + filename
}
