package main

import (
	"os"
	"strconv"
	"strings"
)

// getEnv returns the environment variable key (upper-cased) or def when it
// is unset.
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(strings.ToUpper(key)); ok {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(strings.ToUpper(key))
	if !ok {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}

	return b
}
