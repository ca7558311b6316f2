package chat

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestChatID(t *testing.T) {
	got := ChatID("user-b", "user-a")
	want := "user-a" + ChatIDSeparator + "user-b"
	if got != want {
		t.Errorf("ChatID(b, a) = %q, want %q", got, want)
	}

	if ChatID("user-a", "user-b") != ChatID("user-b", "user-a") {
		t.Error("ChatID is not symmetric in its arguments")
	}

	if !strings.Contains(ChatID("x", "y"), "::CHAT::") {
		t.Errorf("ChatID separator = %q, want %q embedded", ChatID("x", "y"), "::CHAT::")
	}
}

func TestPreviewText(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		if got := PreviewText("hello", "text"); got != "hello" {
			t.Errorf("PreviewText = %q, want %q", got, "hello")
		}
	})

	t.Run("long text truncated to preview length", func(t *testing.T) {
		long := strings.Repeat("a", 200)
		got := PreviewText(long, "text")
		if len([]rune(got)) != MessagePreviewLen {
			t.Errorf("preview length = %d, want %d", len([]rune(got)), MessagePreviewLen)
		}
	})

	t.Run("truncation respects rune boundaries", func(t *testing.T) {
		long := strings.Repeat("日", 60)
		got := PreviewText(long, "text")
		if got != strings.Repeat("日", MessagePreviewLen) {
			t.Errorf("multibyte preview = %q, want %d copies of 日", got, MessagePreviewLen)
		}
	})

	t.Run("file messages collapse to File", func(t *testing.T) {
		if got := PreviewText("report.pdf", "file"); got != "File" {
			t.Errorf("PreviewText = %q, want %q", got, "File")
		}
	})
}

func TestNewErrorFrame(t *testing.T) {
	payload := NewErrorFrame(CodeQuotaExceeded, "limit of %d reached", 50)

	var frame ErrorFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("unmarshal error frame: %v", err)
	}

	if frame.Type != TypeError {
		t.Errorf("Type = %q, want %q", frame.Type, TypeError)
	}
	if frame.Code != "001" {
		t.Errorf("Code = %q, want %q", frame.Code, "001")
	}
	if frame.Content != "limit of 50 reached" {
		t.Errorf("Content = %q, want %q", frame.Content, "limit of 50 reached")
	}
}

func TestNewErrorFrameOmitsEmptyCode(t *testing.T) {
	payload := NewErrorFrame("", "storage unavailable")

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal error frame: %v", err)
	}

	if _, ok := raw["code"]; ok {
		t.Error("empty code should be omitted from the frame")
	}
}
