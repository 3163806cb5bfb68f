package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugInvalidChars = regexp.MustCompile("[^a-z0-9-]")
	slugMultiHyphen  = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugMultiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateTransactionID generates a unique transaction id for a completed sale,
// e.g. "TXN-1A2B3C4D".
func GenerateTransactionID() string {
	return "TXN-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateBarcode generates a placeholder barcode for products created without one.
func GenerateBarcode() string {
	return strings.ReplaceAll(uuid.New().String()[:13], "-", "0")
}
