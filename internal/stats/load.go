package stats

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// Format is the serialization format of a snapshot file.
type Format string

// Supported snapshot formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const compressedSuffix = ".lz4"

// Sentinel errors for snapshot loading.
var (
	// ErrUnsupportedFormat is returned for a snapshot file with an unknown extension.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported snapshot format", reporterr.ErrInvalidArgument)
	// ErrInvalidSnapshot is returned when a snapshot fails decoding or validation.
	ErrInvalidSnapshot = fmt.Errorf("%w: invalid snapshot", reporterr.ErrInvalidArgument)
	// ErrSnapshotNotFound is returned when the snapshot file does not exist.
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot file", reporterr.ErrNotFound)
)

//go:embed schema.json
var schemaJSON []byte

// SchemaError is one schema violation found in a snapshot document.
type SchemaError struct {
	Field       string
	Description string
}

func (e SchemaError) String() string {
	return e.Field + ": " + e.Description
}

// DetectFormat returns the snapshot format for path and whether the file is
// LZ4-compressed. A trailing ".lz4" is stripped before the format extension
// is examined.
func DetectFormat(path string) (Format, bool, error) {
	lower := strings.ToLower(path)
	compressed := strings.HasSuffix(lower, compressedSuffix)
	lower = strings.TrimSuffix(lower, compressedSuffix)

	switch filepath.Ext(lower) {
	case ".json":
		return FormatJSON, compressed, nil
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	}

	return "", false, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ReadFile reads a snapshot file, decompressing it when needed, and returns
// its raw document bytes with the detected format.
func ReadFile(path string) ([]byte, Format, error) {
	format, compressed, err := DetectFormat(path)
	if err != nil {
		return nil, "", err
	}

	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}

		return nil, "", fmt.Errorf("read snapshot: %w: %w", reporterr.ErrIO, readErr)
	}

	if !compressed {
		return raw, format, nil
	}

	data, decompressErr := io.ReadAll(lz4.NewReader(bytes.NewReader(raw)))
	if decompressErr != nil {
		return nil, "", fmt.Errorf("%w: decompress %s: %w", ErrInvalidSnapshot, path, decompressErr)
	}

	return data, format, nil
}

// Load reads, validates and decodes the snapshot at path.
func Load(path string) (*Snapshot, error) {
	data, format, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data, format)
}

// Parse validates a snapshot document against the embedded schema and decodes it.
func Parse(data []byte, format Format) (*Snapshot, error) {
	problems, err := Validate(data, format)
	if err != nil {
		return nil, err
	}

	if len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.String()
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}

	snapshot := &Snapshot{}

	decodeErr := decode(data, format, snapshot)
	if decodeErr != nil {
		return nil, decodeErr
	}

	checkErr := snapshot.check()
	if checkErr != nil {
		return nil, checkErr
	}

	return snapshot, nil
}

// Validate checks a snapshot document against the embedded JSON schema.
// The error is non-nil only when the document cannot be decoded at all.
func Validate(data []byte, format Format) ([]SchemaError, error) {
	var doc any

	decodeErr := decode(data, format, &doc)
	if decodeErr != nil {
		return nil, decodeErr
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if result.Valid() {
		return nil, nil
	}

	problems := make([]SchemaError, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		problems = append(problems, SchemaError{
			Field:       resultErr.Field(),
			Description: resultErr.Description(),
		})
	}

	return problems, nil
}

func decode(data []byte, format Format, target any) error {
	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, target)
	case FormatYAML:
		err = yaml.Unmarshal(data, target)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrInvalidSnapshot, format, err)
	}

	return nil
}

// check enforces the cross-field constraints the schema cannot express.
func (s *Snapshot) check() error {
	weeks := len(s.AuthorHistory.Weeks)

	for _, series := range []map[string][]int{s.AuthorHistory.Commits, s.AuthorHistory.Insertions} {
		for name, values := range series {
			if len(values) > weeks {
				return fmt.Errorf("%w: author_history series for %q has %d buckets, only %d weeks",
					ErrInvalidSnapshot, name, len(values), weeks)
			}
		}
	}

	if s.LastCommit.Before(s.FirstCommit) {
		return fmt.Errorf("%w: last_commit precedes first_commit", ErrInvalidSnapshot)
	}

	return nil
}
