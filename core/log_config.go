package core

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// init initializes the logging configuration based on the IVFKIT_LOG environment variable.
func init() {
	ConfigureLogging(os.Getenv("IVFKIT_LOG"))
}

// ConfigureLogging sets the global zerolog level from a mode string.
// "off" or "0" disables logging, "full" enables debug logging, anything else is info.
func ConfigureLogging(mode string) {
	mode = strings.TrimSpace(strings.ToLower(mode))

	switch mode {
	case "off", "0":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "full":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
