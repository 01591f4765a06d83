package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseExiv2Output_TagLine(t *testing.T) {
	out := "Exif.Photo.DateTimeOriginal                 Ascii      20  2021:06:01 14:30:00\n"

	value, err := parseExiv2Output(out)
	if err != nil {
		t.Fatalf("Expected parse to succeed, got: %v", err)
	}
	if value != "2021:06:01 14:30:00" {
		t.Errorf("Expected timestamp value, got %q", value)
	}
}

func TestParseExiv2Output_WrongKey(t *testing.T) {
	out := "Exif.Image.DateTime Ascii 20 2021:06:01 14:30:00"

	_, err := parseExiv2Output(out)
	if err == nil {
		t.Fatal("Expected error for unexpected key")
	}

	var malformed *MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedOutputError, got %T", err)
	}
	if malformed.Output != out {
		t.Errorf("Expected raw output preserved, got %q", malformed.Output)
	}
}

func TestParseExiv2Output_TooFewTokens(t *testing.T) {
	for _, out := range []string{"", "\n", "Exif.Photo.DateTimeOriginal Ascii 20"} {
		if _, err := parseExiv2Output(out); err == nil {
			t.Errorf("Expected error for output %q", out)
		}
	}
}

func TestParseCaptureTime_ReinterpretsClockFace(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("Failed to load timezone: %v", err)
	}

	inUTC, err := parseCaptureTime("2021:06:01 14:30:00", time.UTC)
	if err != nil {
		t.Fatalf("Parse in UTC failed: %v", err)
	}
	inBerlin, err := parseCaptureTime("2021:06:01 14:30:00", berlin)
	if err != nil {
		t.Fatalf("Parse in Berlin failed: %v", err)
	}

	// Same wall clock, different instants: only the zone label moves.
	if inUTC.Format("15:04:05") != inBerlin.Format("15:04:05") {
		t.Errorf("Clock face changed: %s vs %s", inUTC.Format("15:04:05"), inBerlin.Format("15:04:05"))
	}
	if inUTC.Equal(inBerlin) {
		t.Error("Expected different instants for different zones")
	}
	if got := inBerlin.Format("-0700"); got != "+0200" {
		t.Errorf("Expected +0200 offset, got %s", got)
	}
}

func TestParseCaptureTime_NilLocationDefaultsToUTC(t *testing.T) {
	ts, err := parseCaptureTime("2021:06:01 14:30:00", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := ts.Format("-0700"); got != "+0000" {
		t.Errorf("Expected +0000 offset, got %s", got)
	}
}

func TestParseCaptureTime_RejectsIsoDates(t *testing.T) {
	if _, err := parseCaptureTime("2021-06-01 14:30:00", time.UTC); err == nil {
		t.Error("Expected error for hyphenated date")
	}
}

// stubExiv2 drops an executable script into a temp dir and returns a reader
// pointed at it.
func stubExiv2(t *testing.T, script string) *Exiv2Reader {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "exiv2")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("Failed to write stub: %v", err)
	}
	return &Exiv2Reader{Bin: bin}
}

func TestExiv2Reader_ReadsCaptureTime(t *testing.T) {
	reader := stubExiv2(t, `echo "Exif.Photo.DateTimeOriginal                 Ascii      20  2021:06:01 14:30:00"`)

	ts, err := reader.CaptureTime(context.Background(), "whatever.jpg", time.UTC)
	if err != nil {
		t.Fatalf("Expected capture time, got error: %v", err)
	}
	if got := ts.Format("2006-01-02T15:04:05-0700"); got != "2021-06-01T14:30:00+0000" {
		t.Errorf("Expected 2021-06-01T14:30:00+0000, got %s", got)
	}
}

func TestExiv2Reader_ToolFailure(t *testing.T) {
	reader := stubExiv2(t, `echo "whatever.jpg: No Exif data found in the file" >&2; exit 1`)

	_, err := reader.CaptureTime(context.Background(), "whatever.jpg", time.UTC)
	if err == nil {
		t.Fatal("Expected error on nonzero exit")
	}
	if !strings.Contains(err.Error(), "No Exif data") {
		t.Errorf("Expected stderr in error, got: %v", err)
	}
}

func TestExiv2Reader_MalformedOutput(t *testing.T) {
	reader := stubExiv2(t, `echo "something entirely unexpected here now"`)

	_, err := reader.CaptureTime(context.Background(), "whatever.jpg", time.UTC)
	var malformed *MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedOutputError, got: %v", err)
	}
}

func TestExiv2Reader_MissingBinary(t *testing.T) {
	reader := &Exiv2Reader{Bin: filepath.Join(t.TempDir(), "definitely-not-there")}

	if _, err := reader.CaptureTime(context.Background(), "whatever.jpg", time.UTC); err == nil {
		t.Error("Expected error for missing binary")
	}
}

func TestNewMetadataReader_Backends(t *testing.T) {
	if _, err := NewMetadataReader("nope"); err == nil {
		t.Error("Expected error for unknown backend")
	}

	r, err := NewMetadataReader("")
	if err != nil {
		t.Fatalf("Default backend failed: %v", err)
	}
	if _, ok := r.(*Exiv2Reader); !ok {
		t.Errorf("Expected exiv2 default, got %T", r)
	}

	r, err = NewMetadataReader(BackendGoexif)
	if err != nil {
		t.Fatalf("goexif backend failed: %v", err)
	}
	if _, ok := r.(GoexifReader); !ok {
		t.Errorf("Expected goexif reader, got %T", r)
	}
}

func TestGoexifReader_MissingFile(t *testing.T) {
	reader := GoexifReader{}

	_, err := reader.CaptureTime(context.Background(), filepath.Join(t.TempDir(), "gone.jpg"), time.UTC)
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestGoexifReader_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.jpg")
	if err := os.WriteFile(path, []byte("plain text, no exif"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := GoexifReader{}.CaptureTime(context.Background(), path, time.UTC); err == nil {
		t.Error("Expected decode error for non-image file")
	}
}
