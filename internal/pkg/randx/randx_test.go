package randx

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("user-1", "report.pdf")

	if !strings.HasPrefix(key, "uploads/user-1/") {
		t.Errorf("key = %q, want prefix %q", key, "uploads/user-1/")
	}
	if !strings.HasSuffix(key, "-report.pdf") {
		t.Errorf("key = %q, want suffix %q", key, "-report.pdf")
	}
}

func TestObjectKeyUnique(t *testing.T) {
	a := ObjectKey("user-1", "report.pdf")
	b := ObjectKey("user-1", "report.pdf")

	if a == b {
		t.Errorf("two keys for the same file collide: %q", a)
	}
}

func TestObjectKeyStripsPathComponents(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantBase string
	}{
		{"unix path", "../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\evil\doc.pdf`, "doc.pdf"},
		{"plain name", "photo.jpg", "photo.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ObjectKey("user-1", tt.filename)
			if !strings.HasSuffix(key, "-"+tt.wantBase) {
				t.Errorf("ObjectKey(%q) = %q, want base %q", tt.filename, key, tt.wantBase)
			}
			if strings.Contains(strings.TrimPrefix(key, "uploads/user-1/"), "/") {
				t.Errorf("key %q leaks path separators past the user prefix", key)
			}
		})
	}
}
