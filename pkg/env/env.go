package env

import "os"

// Get returns the value of the named environment variable or a fallback
// when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
