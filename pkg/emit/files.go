package emit

import (
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/dieshot/dienet/pkg/errors"
)

// WriteFiles writes every entry of files into dir. Each file is first
// written to a temporary file in dir; the temporaries are renamed into place
// only once all of them were written successfully. If a rename fails, the
// destinations already replaced are restored to their previous content (or
// removed when they did not exist) so no partial output remains.
//
// It returns the destination paths in name order.
func WriteFiles(dir string, files map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutput, err, "create output directory %s", dir)
	}

	names := slices.Sorted(maps.Keys(files))
	staged := make([]string, 0, len(names))
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	for _, name := range names {
		tmp, err := stage(dir, name, files[name])
		if err != nil {
			cleanup()
			return nil, err
		}
		staged = append(staged, tmp)
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	backups := make([]string, len(names))
	rollback := func(done int) {
		for j := done - 1; j >= 0; j-- {
			os.Remove(paths[j])
			if backups[j] != "" {
				os.Rename(backups[j], paths[j])
			}
		}
		cleanup()
	}

	for i := range names {
		if info, err := os.Lstat(paths[i]); err == nil && info.Mode().IsRegular() {
			backups[i] = staged[i] + ".bak"
			if err := os.Rename(paths[i], backups[i]); err != nil {
				backups[i] = ""
				rollback(i)
				return nil, errors.Wrap(errors.ErrCodeOutput, err, "replace %s", paths[i])
			}
		}
		if err := os.Rename(staged[i], paths[i]); err != nil {
			if backups[i] != "" {
				os.Rename(backups[i], paths[i])
			}
			rollback(i)
			return nil, errors.Wrap(errors.ErrCodeOutput, err, "rename %s", paths[i])
		}
	}

	for _, bak := range backups {
		if bak != "" {
			os.Remove(bak)
		}
	}
	return paths, nil
}

func stage(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeOutput, err, "stage %s", name)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Wrap(errors.ErrCodeOutput, err, "stage %s", name)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Wrap(errors.ErrCodeOutput, err, "write %s", name)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(errors.ErrCodeOutput, err, "close %s", name)
	}
	return f.Name(), nil
}
