package storage

import (
	"regexp"
	"testing"
)

var avatarNamePattern = regexp.MustCompile(`^profile-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}-\d{13}\.png$`)

func TestAvatarFilename_Format(t *testing.T) {
	name := AvatarFilename("png")
	if !avatarNamePattern.MatchString(name) {
		t.Fatalf("unexpected filename shape: %s", name)
	}
}

func TestAvatarFilename_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		name := AvatarFilename("jpeg")
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate filename generated: %s", name)
		}
		seen[name] = struct{}{}
	}
}

func TestExtFromContentType(t *testing.T) {
	cases := map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpeg",
		"png":        "png",
	}
	for ct, want := range cases {
		if got := ExtFromContentType(ct); got != want {
			t.Errorf("ExtFromContentType(%q) = %q, want %q", ct, got, want)
		}
	}
}
