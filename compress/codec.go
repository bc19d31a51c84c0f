package compress

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Type identifies a table compression algorithm.
type Type int

const (
	// TypeNone indicates an uncompressed table.
	TypeNone Type = iota
	// TypeGzip indicates a gzip-compressed table (.gz).
	TypeGzip
	// TypeZstd indicates a Zstandard-compressed table (.zst).
	TypeZstd
	// TypeS2 indicates an S2/Snappy-compressed table (.s2).
	TypeS2
	// TypeLZ4 indicates an LZ4 block-compressed table (.lz4).
	TypeLZ4
)

var typeNames = map[Type]string{
	TypeNone: "none",
	TypeGzip: "gzip",
	TypeZstd: "zstd",
	TypeS2:   "s2",
	TypeLZ4:  "lz4",
}

// String returns the algorithm name, or "unknown" for invalid types.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return "unknown"
}

// Compressor compresses a complete table payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a complete table payload.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original bytes.
	// Returns an error if the data is corrupted or was compressed with a
	// different algorithm. The returned slice is newly allocated and owned
	// by the caller.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions for a single algorithm.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	TypeNone: NewNoOpCodec(),
	TypeGzip: NewGzipCodec(),
	TypeZstd: NewZstdCodec(),
	TypeS2:   NewS2Codec(),
	TypeLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
//
// Returns:
//   - Codec: Codec instance for the given type
//   - error: Unsupported compression type error
func GetCodec(compressionType Type) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// TypeForPath derives the compression type from a file name extension.
//
// Only the final extension is inspected, so "herring.csv.gz" maps to
// TypeGzip and "herring.csv" to TypeNone. Unrecognized extensions are
// treated as uncompressed.
func TypeForPath(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return TypeGzip
	case ".zst", ".zstd":
		return TypeZstd
	case ".s2":
		return TypeS2
	case ".lz4":
		return TypeLZ4
	default:
		return TypeNone
	}
}

// ForPath returns the Codec matching a file name extension.
//
// Example:
//
//	codec, err := compress.ForPath("sprat.csv.zst")
//	if err != nil {
//	    return err
//	}
//	raw, err := codec.Decompress(fileBytes)
func ForPath(path string) (Codec, error) {
	return GetCodec(TypeForPath(path))
}
