package compress

// ZstdCodec handles Zstandard-compressed tables.
//
// Two implementations exist: a cgo-backed one built on valyala/gozstd when
// cgo is available, and a pure-Go fallback on klauspost/compress/zstd. Both
// produce interchangeable streams; the build tag on the implementation
// files selects one.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
