// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/nssedit/nssedit/pkg/nss"

	"github.com/spf13/afero"
)

const defaultFileMode fs.FileMode = 0o644

// readFile loads the whole file. A missing file is reported as
// *nss.MissingFileError.
func readFile(fsys afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &nss.MissingFileError{Path: path}
		}
		return "", err
	}
	return string(data), nil
}

// writeFile replaces path's content through a temporary file in the same
// directory followed by a rename, keeping the original file mode. A crash
// before the rename leaves the original untouched.
func writeFile(fsys afero.Fs, path, content string) (err error) {
	mode := defaultFileMode
	if info, statErr := fsys.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &nss.WriteFailureError{Path: path, Cause: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	if _, err = tmp.WriteString(content); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return &nss.WriteFailureError{Path: path, Cause: err}
	}
	if err = tmp.Close(); err != nil {
		return &nss.WriteFailureError{Path: path, Cause: err}
	}
	if err = fsys.Chmod(tmpName, mode); err != nil {
		return &nss.WriteFailureError{Path: path, Cause: err}
	}
	if err = fsys.Rename(tmpName, path); err != nil {
		return &nss.WriteFailureError{Path: path, Cause: err}
	}
	return nil
}
