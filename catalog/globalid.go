// Package catalog defines the canonical media records every extension ecosystem is normalized into.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// GlobalIDSeparator delimits the three segments of a global media identifier.
const GlobalIDSeparator = ";;;"

var (
	// ErrInvalidSegment is returned when a global id segment contains the separator.
	ErrInvalidSegment = errors.New("global id segment contains separator")

	// ErrMalformedGlobalID is returned when a string does not split into exactly three segments.
	ErrMalformedGlobalID = errors.New("malformed global id")
)

// NewGlobalID joins manager, extension and media identifiers into `manager;;;extension;;;media`.
func NewGlobalID(managerID, extensionID, mediaID string) (string, error) {
	for i, segment := range []string{managerID, extensionID, mediaID} {
		if strings.Contains(segment, GlobalIDSeparator) {
			return "", fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
		}

		// A trailing ';' would merge into the following separator when splitting.
		if i < 2 && strings.HasSuffix(segment, ";") {
			return "", fmt.Errorf("%w: %q ends with ';'", ErrInvalidSegment, segment)
		}
	}

	return managerID + GlobalIDSeparator + extensionID + GlobalIDSeparator + mediaID, nil
}

// MustGlobalID is like NewGlobalID but panics on an invalid segment.
func MustGlobalID(managerID, extensionID, mediaID string) string {
	id, err := NewGlobalID(managerID, extensionID, mediaID)
	if err != nil {
		panic(err)
	}

	return id
}

// ParseGlobalID splits a global id back into its manager, extension and media segments.
func ParseGlobalID(globalID string) (managerID, extensionID, mediaID string, err error) {
	parts := strings.Split(globalID, GlobalIDSeparator)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedGlobalID, globalID)
	}

	return parts[0], parts[1], parts[2], nil
}
