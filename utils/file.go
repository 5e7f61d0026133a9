package utils

import (
	"os"
)

// PathExists reports whether the directory or file at path exists.
func PathExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}
