package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxUploadBytes bounds the size of a CSV accepted by the HTTP service.
const MaxUploadBytes = 10 << 20

// allowedUploadExts lists the file extensions accepted for CSV uploads.
var allowedUploadExts = map[string]bool{
	".csv": true,
	".tsv": true,
	".txt": true,
}

// ValidateUploadFilename validates the client-supplied name of an uploaded file.
// It ensures the name is a plain basename with a CSV-like extension.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or null bytes
//   - No path separators
//   - Extension must be .csv, .tsv or .txt (case-insensitive)
func ValidateUploadFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "file name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "file name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "file name cannot contain path separators")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !allowedUploadExts[ext] {
		return New(ErrCodeInvalidInput, "unsupported file type %q (expected .csv, .tsv or .txt)", ext)
	}

	return nil
}

// ValidateUploadSize rejects uploads larger than MaxUploadBytes.
func ValidateUploadSize(size int64) error {
	if size > MaxUploadBytes {
		return New(ErrCodeTooLarge, "file too large (max %d MiB)", MaxUploadBytes>>20)
	}
	return nil
}

// ValidateOutputDir validates a directory used for exported images.
// Empty means the current directory and is accepted.
func ValidateOutputDir(dir string) error {
	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output directory contains invalid characters")
		}
	}
	return nil
}
