package core

// input.go reads the import file into memory and cleans it up for parsing.
//
// The whole file is loaded at once; imports are small batch files. Before
// parsing, the data goes through:
//   - extension, existence, size and emptiness checks (FileError)
//   - optional single-byte decoding (latin1, windows-1252) to UTF-8
//   - UTF-8 BOM removal (Excel adds one on "Save as CSV UTF-8")
//   - replacement of invalid UTF-8 sequences with U+FFFD

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultMaxFileSize is the maximum import file size when none is configured (100MB).
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodings maps accepted IMPORT_ENCODING values to decoders. A nil
// encoding means the input is already UTF-8.
var encodings = map[string]encoding.Encoding{
	"":             nil,
	"utf-8":        nil,
	"utf8":         nil,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// SupportedEncoding reports whether name is an accepted input encoding.
func SupportedEncoding(name string) bool {
	_, ok := encodings[strings.ToLower(name)]
	return ok
}

// LoadInput reads and cleans the file at path. All failures are *FileError.
func LoadInput(path, encodingName string, maxSize int64) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &FileError{Err: ErrNoFile}
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, &FileError{Path: path, Err: ErrNotCSV}
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	enc, ok := encodings[strings.ToLower(encodingName)]
	if !ok {
		return nil, &FileError{Path: path, Err: fmt.Errorf("encoding error: unsupported encoding %q", encodingName)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	if info.Size() == 0 {
		return nil, &FileError{Path: path, Err: ErrEmptyFile}
	}
	if info.Size() > maxSize {
		return nil, &FileError{Path: path, Err: fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrFileTooLarge, info.Size(), maxSize)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if enc != nil {
		r = transform.NewReader(f, enc.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("read: %w", err)}
	}

	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &FileError{Path: path, Err: ErrEmptyFile}
	}

	return data, nil
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with the replacement character.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
