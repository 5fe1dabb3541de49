package util

import (
	"os"
	"strings"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// SanitizeTitle turns a free-form title into a filename stem.
func SanitizeTitle(title string) string {
	return filenameReplacer.Replace(title)
}
