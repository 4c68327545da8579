package pathutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// DefaultMaxSuffix is the highest -NN suffix tried by UniqueDir
const DefaultMaxSuffix = 99

// ErrTooManyCollisions is returned when no free suffix is left
var ErrTooManyCollisions = errors.New("too many existing directories")

// TruncatePrefix removes prefix from val if val starts with it.
// val is returned untouched otherwise.
func TruncatePrefix(val, prefix string) string {
	if strings.HasPrefix(val, prefix) {
		return val[len(prefix):]
	}
	return val
}

// UniqueDir returns path if nothing exists there, else the first of
// path-01, path-02, ... up to path-<limit> that does not exist.
func UniqueDir(path string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxSuffix
	}
	if !exists(path) {
		return path, nil
	}
	for i := 1; i <= limit; i++ {
		candidate := fmt.Sprintf("%s-%02d", path, i)
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(ErrTooManyCollisions, "no free suffix for %q up to -%02d", path, limit)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
