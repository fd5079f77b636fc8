package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	if NormalizeLimit(0) != DefaultLimit {
		t.Fatalf("zero should normalize to default")
	}
	if NormalizeLimit(-5) != DefaultLimit {
		t.Fatalf("negative should normalize to default")
	}
	if NormalizeLimit(1000) != MaxLimit {
		t.Fatalf("oversized should cap at max")
	}
	if NormalizeLimit(10) != 10 {
		t.Fatalf("in-range limit should pass through")
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatalf("buffer should add one")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC)
	encoded := EncodeCursor(Cursor{Timestamp: ts, ID: 42})

	decoded, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !decoded.Timestamp.Equal(ts) {
		t.Fatalf("timestamp mismatch: got %v want %v", decoded.Timestamp, ts)
	}
	if decoded.ID != 42 {
		t.Fatalf("id mismatch: got %d", decoded.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	cur, err := ParseCursor("  ")
	if err != nil || cur != nil {
		t.Fatalf("blank cursor should parse to nil, got %v %v", cur, err)
	}
}

func TestParseCursorInvalid(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseCursor("bm8tcGlwZQ=="); err == nil {
		t.Fatalf("expected format error for cursor without separator")
	}
}
