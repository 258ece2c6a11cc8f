// =============================================================================
// EDI Order Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter, including:
//   - Output file naming
//   - Directory management
//   - Input character set decoding
//   - Output file writing
//
// OUTPUT FILES:
//   - Output files are written in one call, after the whole output has been
//     rendered, so a failed conversion never leaves a partial file behind.
//   - Existing files with the same name are overwritten.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name template.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - params: Additional placeholder values, e.g. {"base": "output", "ext": "edi"}.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{base}_{date}.{ext}"
//   params: {"base": "output_single", "ext": "json"}
//   output: "output_single_20240115.json"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// =============================================================================
// INPUT DECODING
// =============================================================================

// encodings maps the accepted encoding names to their decoders.
var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8BOM,
	"utf8":         unicode.UTF8BOM,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
}

// LookupEncoding returns the encoding registered under name.
// Names are case-insensitive; an empty name selects UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "utf-8"
	}
	enc, ok := encodings[name]
	if !ok {
		return nil, fmt.Errorf("unsupported input encoding %q", name)
	}
	return enc, nil
}

// NewDecodingReader wraps r so that it yields UTF-8. For UTF-8 input a
// leading byte order mark is removed.
func NewDecodingReader(r io.Reader, encodingName string) (io.Reader, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteOutputFile writes data to dir/name, creating dir if needed, and
// returns the path of the written file.
func WriteOutputFile(dir, name string, data []byte) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	return path, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
