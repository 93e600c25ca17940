package lib

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ReplaceFile rewrites the file at path through a sibling temporary
// file: write, sync, rename. The original is untouched until the
// rename, and the temporary file is unlinked on every error path.
func ReplaceFile(path string, write func(w io.Writer) error) (err error) {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "stat target")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary file")
	}

	name := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(name)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}

	if err = tmp.Chmod(info.Mode()); err != nil {
		return errors.Wrap(err, "carry over file mode")
	}

	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temporary file")
	}

	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temporary file")
	}

	if err = os.Rename(name, path); err != nil {
		os.Remove(name)
		return errors.Wrap(err, "rename into place")
	}

	return nil
}
