package ports

import (
	"transdex/internal/domain"
)

// Convertor extracts a TextMap from one external translation-file layout and
// serializes a TextMap back into it.
type Convertor interface {
	// Tag returns the short format tag the convertor is registered under.
	Tag() string
	// GetTextMap reads the file fully and extracts its original->translated
	// pairs. A zero-length file yields an empty map, never an error; content
	// that violates the format's grammar yields a *domain.MalformedError.
	GetTextMap(path string) (*domain.TextMap, error)
	// SaveTo overwrites path with the serialized map. Output order follows
	// the map's insertion order so unchanged data re-exports byte-for-byte
	// where the format allows it.
	SaveTo(path string, tm *domain.TextMap) error
}
