package upload

import (
	"fmt"
	"strings"
	"unicode"
)

// validateFilename checks a client-declared filename against a category's
// extension allowlist and returns the validated extension (with leading dot,
// lowercased). A name with more than one dot is always rejected: that is the
// disguised-extension case (payload.exe.jpg).
func validateFilename(filename string, allowedExts []string) (string, error) {

	if filename == "" {
		return "", fmt.Errorf("empty filename")
	}

	if strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("filename must not contain path separators")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("filename must not contain control characters")
		}
	}

	parts := strings.Split(filename, ".")
	switch {
	case len(parts) < 2 || parts[0] == "" || parts[1] == "":
		return "", fmt.Errorf("no file extension found")
	case len(parts) > 2:
		return "", fmt.Errorf("more than one extension is not allowed")
	}

	ext := "." + strings.ToLower(parts[1])
	for _, allowed := range allowedExts {
		if ext == strings.ToLower(allowed) {
			return ext, nil
		}
	}

	return "", fmt.Errorf("extension %s is not allowed (expected one of: %v)", ext, allowedExts)
}
