package badger

import (
	"encoding/binary"

	"github.com/poiesic/particula/core"
)

// Key prefixes for different data types
const (
	entityPrefix   = "ent:"
	artifactPrefix = "art:"
)

// signBit flips the sign so that negative IDs sort before positive ones
// when keys are compared bytewise.
const signBit = uint64(1) << 63

// makeEntityKey generates a key for an entity by ID.
// Format: prefix + 8 bytes BigEndian, ascending in ID order.
func makeEntityKey(id core.ID) []byte {
	buf := make([]byte, len(entityPrefix)+8)
	offset := copy(buf, entityPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id)^signBit)
	return buf
}

// parseEntityKey recovers the ID from an entity key.
func parseEntityKey(key []byte) (core.ID, bool) {
	if len(key) != len(entityPrefix)+8 || string(key[:len(entityPrefix)]) != entityPrefix {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(entityPrefix):]) ^ signBit), true
}

// makeArtifactKey generates a key for an artifact by name.
func makeArtifactKey(name string) []byte {
	return []byte(artifactPrefix + name)
}
