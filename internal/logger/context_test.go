package logger

import (
	"context"
	"testing"
	"time"
)

func TestUpdateMetaRoundTrip(t *testing.T) {
	ctx := WithUpdateMeta(context.Background(), 7, 42, -100500)
	ctx = WithRID(ctx, BuildRID(7, -100500, 42))

	if got := UpdateIDFrom(ctx); got != 7 {
		t.Errorf("UpdateIDFrom = %d, want 7", got)
	}
	if got := UserIDFrom(ctx); got != 42 {
		t.Errorf("UserIDFrom = %d, want 42", got)
	}
	if got := ChatIDFrom(ctx); got != -100500 {
		t.Errorf("ChatIDFrom = %d, want -100500", got)
	}
	if got := RIDFrom(ctx); got != "7:-100500:42" {
		t.Errorf("RIDFrom = %q, want %q", got, "7:-100500:42")
	}
}

func TestMetaAttrsSkipsZeroValues(t *testing.T) {
	if attrs := MetaAttrs(context.Background()); len(attrs) != 0 {
		t.Fatalf("empty context produced %d attrs", len(attrs))
	}

	ctx := WithUpdateMeta(context.Background(), 3, 0, 99)
	attrs := MetaAttrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("attrs = %d, want 2 (update_id and chat_id)", len(attrs))
	}
	for _, a := range attrs {
		if a.Key == "user_id" {
			t.Error("zero user_id must be skipped")
		}
	}
}

func TestNilContextAccessors(t *testing.T) {
	if RIDFrom(nil) != "" || UserIDFrom(nil) != 0 || ChatIDFrom(nil) != 0 || UpdateIDFrom(nil) != 0 {
		t.Error("nil context accessors must return zero values")
	}
	if FromContext(nil) == nil {
		t.Error("FromContext(nil) must fall back to the default logger")
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"line\nbreak\ttab", "line\nbreak\ttab"},
		{"bell\x07char", "bellchar"},
		{"del\x7Fchar", "delchar"},
		{"zwj‍mark", "zwjmark"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("привет мир", 6); got != "привет" {
		t.Errorf("SanitizeLimit = %q, want %q", got, "привет")
	}
	if got := SanitizeLimit("short", 100); got != "short" {
		t.Errorf("SanitizeLimit = %q, want %q", got, "short")
	}
	if got := SanitizeLimit("anything", 0); got != "" {
		t.Errorf("SanitizeLimit with zero max = %q, want empty", got)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1234567 * time.Nanosecond); got != time.Millisecond {
		t.Errorf("RoundMS = %v, want 1ms", got)
	}
}
