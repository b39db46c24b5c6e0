package utils

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v2"
)

// ReadYamlFile unmarshals the YAML file at fPath into out.
func ReadYamlFile(fPath string, out interface{}) error {
	if fPath == "" {
		return errors.New("file path is missing")
	}
	content, err := os.ReadFile(fPath)
	if err != nil {
		return errors.Wrapf(err, "read %s", fPath)
	}
	if len(content) == 0 {
		return errors.Newf("file %s is empty", fPath)
	}
	if err := yaml.UnmarshalStrict(content, out); err != nil {
		return errors.Wrapf(err, "parse %s", fPath)
	}
	return nil
}
