package snapshot

import (
	"encoding/hex"
	"sync"

	"github.com/go-crypt/x/blake2b"
)

// digestSize is the BLAKE2b output size in bytes.
const digestSize = 32

// Digest returns the hex-encoded BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	h, _ := blake2b.New(digestSize, nil) // only fails for bad sizes or keys
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// manifest collects artifact digests from concurrent writers.
type manifest struct {
	mu      sync.Mutex
	digests map[string]string
}

func newManifest() *manifest {
	return &manifest{digests: make(map[string]string)}
}

func (m *manifest) add(name string, data []byte) {
	d := Digest(data)
	m.mu.Lock()
	m.digests[name] = d
	m.mu.Unlock()
}

// encode renders the manifest; encoding/json sorts map keys.
func (m *manifest) encode() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return encodeJSON(m.digests)
}
