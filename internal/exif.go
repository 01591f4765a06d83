package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	exiftool "github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
)

// Backend names accepted by NewMetadataReader.
const (
	BackendExiv2    = "exiv2"
	BackendExiftool = "exiftool"
	BackendGoexif   = "goexif"
)

const (
	exifDateKey    = "Exif.Photo.DateTimeOriginal"
	exifTimeLayout = "2006:01:02 15:04:05"
)

// MetadataReader extracts the original capture time of an image file. The
// timestamp is naive camera-clock time; loc is attached to it as-is, the
// clock value is never shifted.
type MetadataReader interface {
	CaptureTime(ctx context.Context, path string, loc *time.Location) (time.Time, error)
}

// NewMetadataReader picks the extraction backend by name. Callers should
// check for io.Closer on the result, the exiftool backend keeps a child
// process open.
func NewMetadataReader(backend string) (MetadataReader, error) {
	switch backend {
	case "", BackendExiv2:
		return NewExiv2Reader(), nil
	case BackendGoexif:
		return GoexifReader{}, nil
	case BackendExiftool:
		return NewExiftoolReader()
	default:
		return nil, fmt.Errorf("unknown metadata backend %q", backend)
	}
}

// Exiv2Reader shells out to exiv2 once per file. This is the default
// backend.
type Exiv2Reader struct {
	Bin string
}

func NewExiv2Reader() *Exiv2Reader {
	return &Exiv2Reader{Bin: "exiv2"}
}

func (r *Exiv2Reader) CaptureTime(ctx context.Context, path string, loc *time.Location) (time.Time, error) {
	cmd := exec.CommandContext(ctx, r.Bin, "-K", exifDateKey, "-pt", path)
	// Pin the locale so the output format never varies.
	cmd.Env = append(os.Environ(), "LANG=C")

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return time.Time{}, fmt.Errorf("exiv2 %s: %w: %s", path, err, bytes.TrimSpace(exitErr.Stderr))
		}
		return time.Time{}, fmt.Errorf("exiv2 %s: %w", path, err)
	}

	value, err := parseExiv2Output(string(out))
	if err != nil {
		return time.Time{}, fmt.Errorf("exiv2 %s: %w", path, err)
	}
	return parseCaptureTime(value, loc)
}

// parseExiv2Output extracts the tag value from exiv2 -pt output, one line of
// the form
//
//	Exif.Photo.DateTimeOriginal                  Ascii      20  2021:06:01 14:30:00
//
// split on whitespace into key, type, count and the value remainder.
func parseExiv2Output(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) < 4 || fields[0] != exifDateKey {
		return "", &MalformedOutputError{Output: out}
	}
	return strings.Join(fields[3:], " "), nil
}

// parseCaptureTime turns the naive exif timestamp into a time.Time carrying
// loc, preserving the clock-face value.
func parseCaptureTime(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	ts, err := time.ParseInLocation(exifTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse capture time %q: %w", value, err)
	}
	return ts, nil
}

// GoexifReader decodes the exif block in-process, no external binary needed.
type GoexifReader struct{}

func (GoexifReader) CaptureTime(ctx context.Context, path string, loc *time.Location) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode exif in %s: %w", path, err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, fmt.Errorf("no capture time in %s: %w", path, err)
	}

	value, err := tag.StringVal()
	if err != nil {
		return time.Time{}, err
	}
	return parseCaptureTime(value, loc)
}

// ExiftoolReader drives a stay-open exiftool child process. One instance is
// shared by all workers; the handle is not safe for concurrent extraction,
// hence the lock.
type ExiftoolReader struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}

func (r *ExiftoolReader) CaptureTime(ctx context.Context, path string, loc *time.Location) (time.Time, error) {
	r.mu.Lock()
	metas := r.et.ExtractMetadata(path)
	r.mu.Unlock()

	if len(metas) == 0 {
		return time.Time{}, fmt.Errorf("exiftool %s: no metadata returned", path)
	}
	if metas[0].Err != nil {
		return time.Time{}, fmt.Errorf("exiftool %s: %w", path, metas[0].Err)
	}

	value, err := metas[0].GetString("DateTimeOriginal")
	if err != nil {
		return time.Time{}, fmt.Errorf("exiftool %s: %w", path, err)
	}
	return parseCaptureTime(value, loc)
}
