// Package validation checks caller input (paths, format names) and enforces
// the transaction invariants before export.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
)

// IsValidPath checks if a given path exists, is absolute and is a regular
// file or a directory. Failures are *parsererror.ValidationError.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &parsererror.ValidationError{FilePath: path, Reason: "path does not exist"}
	}
	if err != nil {
		return &parsererror.ValidationError{FilePath: path, Reason: err.Error()}
	}

	if !filepath.IsAbs(path) {
		return &parsererror.ValidationError{FilePath: path, Reason: "path must be absolute"}
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return &parsererror.ValidationError{FilePath: path, Reason: "neither a file nor a directory"}
	}

	return nil
}

// IsValidOutputFormat checks if the given export format is supported. Names
// are case-insensitive.
func IsValidOutputFormat(format string) error {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, supported := range models.SupportedFormats {
		if f == supported {
			return nil
		}
	}
	return &parsererror.UnsupportedFormatError{Format: format, Supported: models.SupportedFormats}
}

// IsValidFilePermissions rejects modes that grant any access to others.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
