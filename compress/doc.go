// Package compress provides decompression codecs for compressed survey tables.
//
// Stock assessment tables are commonly distributed as compressed CSV files
// (.csv.gz from public survey extractions, .csv.zst or .csv.lz4 from local
// archives). This package lets the stock loader accept those files directly:
// the codec is chosen from the file extension and the table bytes are
// decompressed before parsing.
//
// # Supported Algorithms
//
//   - None: plain files, data passes through unchanged
//   - Gzip: .gz, the usual distribution format for public survey extracts
//   - Zstd: .zst, pure-Go by default with a cgo implementation when available
//   - S2: .s2, Snappy-compatible archives
//   - LZ4: .lz4 block-format archives
//
// # Usage
//
//	codec, err := compress.ForPath("herring.csv.gz")
//	if err != nil {
//	    return err
//	}
//	raw, err := codec.Decompress(fileBytes)
//
// All codecs also implement the Compressor side of the interface, which the
// test suite uses to build round-trip fixtures without external tooling.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use; internal encoder
// and decoder state is pooled per call.
package compress
