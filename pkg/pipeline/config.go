package pipeline

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dieshot/dienet/pkg/errors"
)

// ProjectFiles are the project file names looked up in a directory, in
// order.
var ProjectFiles = []string{"dienet.toml", "dienet.yaml", "dienet.yml"}

// LoadOptions reads options from a project file or a project directory.
//
// A file is decoded as TOML or YAML by extension. A directory is searched for
// one of [ProjectFiles]; without one, the directory itself is the layer
// directory and every other option keeps its default. A relative Dir or
// Output in a project file is resolved against the file's directory.
func LoadOptions(path string) (Options, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "project %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "project %s", path)
	}
	if info.IsDir() {
		for _, name := range ProjectFiles {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				return LoadOptions(candidate)
			}
		}
		return Options{Dir: path}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	opts, err := DecodeOptions(data, filepath.Ext(path))
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}

	base := filepath.Dir(path)
	opts.Dir = resolve(base, opts.Dir)
	if opts.Output != "" {
		opts.Output = resolve(base, opts.Output)
	}
	return opts, nil
}

// DecodeOptions decodes a project file body. ext selects the format:
// ".toml", ".yaml" or ".yml".
func DecodeOptions(data []byte, ext string) (Options, error) {
	var opts Options
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &opts)
		if err != nil {
			return Options{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil && err != io.EOF {
			return Options{}, err
		}
	default:
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported project file type %q", ext)
	}
	return opts, nil
}

func resolve(base, p string) string {
	if p == "" {
		return base
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
