package core

import "errors"

// Error kinds shared by the codec, the sampler and the clustering driver.
// Callers wrap them with context and test for them with errors.Is.
var (
	// ErrFormat is returned when a file's size or structure is inconsistent with its declared dimensions.
	ErrFormat = errors.New("format error")

	// ErrRange is returned when a request exceeds the available rows (sampling, cluster count).
	ErrRange = errors.New("range error")

	// ErrConfig is returned for unrecognized options such as an unknown distance metric.
	ErrConfig = errors.New("config error")
)
