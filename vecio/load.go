package vecio

import (
	"path/filepath"
	"strings"
)

// LoadFloat reads a float dataset, choosing the layout from the file
// extension: .fbin uses the bin layout, anything else the record layout.
func LoadFloat(path string) (Dataset[float32], error) {
	if strings.EqualFold(filepath.Ext(path), ".fbin") {
		return ReadBinaryAsFloat(path)
	}
	return ReadRecordsAsFloat(path)
}
