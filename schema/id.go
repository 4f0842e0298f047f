package schema

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// IDOffset is combined with every derived identity. It keeps derived IDs non-zero and
// sets the high bit, which the Cap'n Proto compiler requires of explicit IDs.
const IDOffset uint64 = 1 << 63

// domainKey is a 32-byte key for BLAKE3 keyed hashing. The byte values are the
// ASCII domain name zero-padded to 32 bytes. Changing a key changes every ID
// derived in that domain.
type domainKey [32]byte

var (
	typeDomainKey = domainKey{
		's', 'c', 'h', 'e', 'm', 'a', 'g', 'e', 'n', '.', 't', 'y', 'p', 'e',
	}

	fileDomainKey = domainKey{
		's', 'c', 'h', 'e', 'm', 'a', 'g', 'e', 'n', '.', 'f', 'i', 'l', 'e',
	}
)

// DeriveID computes the identity of a type that carries no explicit annotation.
// It is a pure function of the fully-qualified name: the first 8 bytes of the
// type-domain BLAKE3 keyed hash of the UTF-8 name, little-endian, OR IDOffset.
func DeriveID(fullName string) uint64 {
	return derive(typeDomainKey, fullName)
}

// DeriveFileID computes the file identity for a schema file generated from the
// package at pkgPath.
func DeriveFileID(pkgPath string) uint64 {
	return derive(fileDomainKey, pkgPath)
}

func derive(key domainKey, name string) uint64 {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		// Only returned for keys that are not 32 bytes long.
		panic("schema: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = hasher.WriteString(name)
	sum := hasher.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8]) | IDOffset
}
