package backup

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/cardctl/internal/util"
)

// manifest is the on-disk record of an in-flight attempt.
type manifest struct {
	Attempt string    `yaml:"attempt"`
	Started time.Time `yaml:"started"`
	Files   []entry   `yaml:"files"`
}

type entry struct {
	Path    string `yaml:"path"`
	Existed bool   `yaml:"existed"`
	SHA256  string `yaml:"sha256,omitempty"`
}

func writeManifest(path string, m *manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, data)
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
