package cache

import (
	"bytes"
	"fmt"
	"os"

	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/codec"
	"github.com/blackwell-systems/cardctl/internal/util"
)

// Report describes a verified catalog file.
type Report struct {
	Path   string         `json:"path"`
	Size   int64          `json:"size"`
	SHA256 string         `json:"sha256"`
	Counts catalog.Counts `json:"counts"`
}

// Verify decodes the catalog file at path and re-encodes it. The file is
// sound only if both steps succeed and produce the same bytes.
func Verify(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(codec.Encode(c), data) {
		return nil, fmt.Errorf("%s: re-encoded catalog differs from file", path)
	}
	return &Report{
		Path:   path,
		Size:   int64(len(data)),
		SHA256: util.SHA256Bytes(data),
		Counts: c.Counts(),
	}, nil
}
