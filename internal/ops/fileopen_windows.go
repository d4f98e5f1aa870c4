//go:build windows

package ops

import (
	"os"

	"github.com/hpungsan/meetcorpus/internal/errors"
)

// openFileNoFollow opens a view file for writing.
// On Windows, O_NOFOLLOW is not available; ValidateOutputDir and the Lstat check in
// removeExisting still reject symlinks before we get here.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

// openFileNoFollowRead opens a record file for reading.
func openFileNoFollowRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, err
	}
	return f, nil
}
