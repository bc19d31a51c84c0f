package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Fingerprint computes the xxHash64 of raw table bytes.
//
// Loaded survey tables carry this value so that log lines and fit
// reports can be traced back to the exact input file contents.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}
