package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Batch returns an 8-character tag derived from the content of an imported
// file. The same bytes always give the same tag.
func Batch(content []byte) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, content).String()[:8]
}

// FormatRowRef returns a reference like "sales-1f0c9a2e-0003" for row 3 of
// a collection file whose record carries no id of its own.
func FormatRowRef(collection, batch string, row int) string {
	return fmt.Sprintf("%s-%s-%04d", collection, batch, row)
}
