package provider

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// digestReader accumulates sha256 and total byte count in-flight.
type digestReader struct {
	r    io.Reader
	h    hash.Hash
	size int64
}

func newDigestReader(r io.Reader) *digestReader {
	return &digestReader{r: r, h: sha256.New()}
}

func (r *digestReader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	if n > 0 {
		r.h.Write(p[:n]) //nolint:errcheck
		r.size += int64(n)
	}
	return
}

func (r *digestReader) sum() string {
	return hex.EncodeToString(r.h.Sum(nil))
}
