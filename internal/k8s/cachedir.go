package k8s

import (
	"path/filepath"
	"regexp"
	"strings"
)

// same character class kubectl uses, parentheses included
var illegalCacheDirChars = regexp.MustCompile(`[^(\w/.)]`)

// DiscoveryCacheDir returns the per-cluster directory under parentDir that
// holds discovery snapshots for host. The layout matches kubectl's so an
// existing kubectl cache is picked up.
func DiscoveryCacheDir(parentDir, host string) string {
	schemeless := strings.Replace(strings.Replace(host, "https://", "", 1), "http://", "", 1)
	return filepath.Join(parentDir, illegalCacheDirChars.ReplaceAllString(schemeless, "_"))
}
