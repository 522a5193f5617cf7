package common

import (
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	"gopkg.in/yaml.v3"
)

var fs afero.Fs = afero.NewOsFs()

func NewResolverSourceFromFlagFunc(flag string) func(cCtx *cli.Context) (altsrc.InputSourceContext, error) {
	return func(cCtx *cli.Context) (altsrc.InputSourceContext, error) {
		if path := cCtx.String(flag); path != "" {
			return NewFileInputSource(path)
		}

		return altsrc.NewMapInputSource("", map[any]any{}), nil
	}
}

// NewFileInputSource reads the flags values from a YAML (or JSON) file.
// Relative paths are resolved against the file directory.
func NewFileInputSource(path string) (altsrc.InputSourceContext, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read file '%s'", path)
	}

	ext := filepath.Ext(path)
	switch ext {
	case ".json", ".yaml", ".yml":
		var values map[any]any

		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, errors.WithStack(err)
		}

		values, err = rewriteRelativePaths(path, values)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return altsrc.NewMapInputSource(path, values), nil

	default:
		return nil, errors.Errorf("no parser associated with '%s' file extension", ext)
	}
}

func rewriteRelativePaths(fromPath string, values map[any]any) (map[any]any, error) {
	dir, err := filepath.Abs(filepath.Dir(fromPath))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for key, rawValue := range values {
		value, ok := rawValue.(string)
		if !ok {
			continue
		}

		if !isPath(value) || filepath.IsAbs(value) || isURL(value) {
			continue
		}

		values[key] = filepath.Join(dir, value)
	}

	return values, nil
}

var (
	filepathRegExp = regexp.MustCompile(`^(?i)(?:\/[^\/]+)+\/?[^\s]+(?:\.[^\s]+)+|[^\s]+(?:\.[^\s]+)+$`)
	urlRegExp      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

func isPath(str string) bool {
	return filepathRegExp.MatchString(str)
}

func isURL(str string) bool {
	return urlRegExp.MatchString(str)
}
