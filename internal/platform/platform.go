// ABOUTME: Small OS helpers shared by config, tray and window packages.
// ABOUTME: File checks, ${VAR} expansion that keeps unknown variables, GOOS predicates.
package platform

import (
	"os"
	"runtime"
)

// FileExists reports whether path exists (file or directory).
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// ExpandEnv expands $VAR and ${VAR} references. Variables that are not set
// are left untouched so callers can detect them.
func ExpandEnv(s string) string {
	return os.Expand(s, func(name string) string {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return "${" + name + "}"
	})
}

// IsLinux returns true on Linux
func IsLinux() bool {
	return runtime.GOOS == "linux"
}

// IsMacOS returns true on macOS
func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

// IsWindows returns true on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}
