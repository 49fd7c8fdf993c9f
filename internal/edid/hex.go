// Package edid converts raw EDID blobs to and from their hexadecimal text
// form. It does not interpret the EDID structure.
package edid

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Behex returns the lowercase hexadecimal form of raw.
func Behex(raw []byte) string { return hex.EncodeToString(raw) }

// BehexUpper returns the uppercase hexadecimal form of raw.
func BehexUpper(raw []byte) string { return strings.ToUpper(hex.EncodeToString(raw)) }

// Unhex parses a hexadecimal EDID in either case.
func Unhex(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode edid: %w", err)
	}
	return raw, nil
}
