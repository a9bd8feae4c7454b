package instance

import (
	"os"
	"strings"
)

// GetID returns the process instance identifier used in logs and lock owners.
// CARTKEEPER_INSTANCE_ID wins, then the platform dyno name, then the hostname.
func GetID() string {
	for _, key := range []string{"CARTKEEPER_INSTANCE_ID", "DYNO"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
