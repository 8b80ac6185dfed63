package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"uemesh-converter/internal/version"
)

// Bulk data flags.
const (
	BulkPayloadAtEndOfFile    = 0x0001
	BulkCompressedZlib        = 0x0002
	BulkUnused                = 0x0020
	BulkForceInlinePayload    = 0x0040
	BulkPayloadInSeparateFile = 0x0100
)

// compressedTag marks the header of a chunked compressed payload.
const compressedTag = 0x9E2A83C1

// BulkData is a bulk data header plus its inline payload, if any.
type BulkData struct {
	Flags        uint32
	ElementCount int32
	SizeOnDisk   int32
	OffsetInFile int64
	Payload      []byte
}

// ReadBulkData reads a bulk data record. Inline payloads are copied; payloads
// stored elsewhere in the package leave Payload nil.
func (r *Reader) ReadBulkData() BulkData {
	var b BulkData
	b.Flags = r.U32()
	b.ElementCount = r.I32()
	b.SizeOnDisk = r.I32()
	if r.Active(version.GateBulkDataLargeOffsets, version.StripFlags{}) {
		b.OffsetInFile = r.I64()
	} else {
		b.OffsetInFile = int64(r.I32())
	}
	if r.err != nil || b.Flags&BulkUnused != 0 || b.SizeOnDisk <= 0 {
		return b
	}
	if b.Flags&(BulkPayloadAtEndOfFile|BulkPayloadInSeparateFile) != 0 {
		return b
	}
	b.Payload = r.Bytes(int(b.SizeOnDisk))
	return b
}

// SkipBulkData reads a bulk data record and discards its payload.
func (r *Reader) SkipBulkData() {
	_ = r.ReadBulkData()
}

// Inline reports whether the payload was stored next to its header.
func (b BulkData) Inline() bool {
	return b.Payload != nil
}

// Data returns the decompressed payload.
func (b BulkData) Data() ([]byte, error) {
	if b.Payload == nil {
		return nil, fmt.Errorf("archive: bulk data payload is not inline (flags 0x%x)", b.Flags)
	}
	if b.Flags&BulkCompressedZlib == 0 {
		return b.Payload, nil
	}
	return decompressChunks(b.Payload)
}

// decompressChunks expands a chunked zlib payload: a tag, the chunk size, a summary
// of compressed/uncompressed totals, one size pair per chunk, then the chunks.
func decompressChunks(data []byte) ([]byte, error) {
	r := NewReader(data, version.Context{})
	tag := r.I64()
	chunkSize := r.I64()
	_ = r.I64() // total compressed size
	total := r.I64()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("archive: compressed bulk header: %w", err)
	}
	if uint64(tag) != compressedTag {
		return nil, fmt.Errorf("archive: compressed bulk tag 0x%x", uint64(tag))
	}
	if chunkSize <= 0 {
		chunkSize = 128 * 1024
	}
	if total < 0 || total > int64(len(data))*1032 {
		return nil, fmt.Errorf("archive: compressed bulk size %d", total)
	}

	numChunks := total / chunkSize
	if total%chunkSize != 0 {
		numChunks++
	}
	// each chunk has a 16 byte entry in the table
	if numChunks > int64(r.Remaining()/16) {
		return nil, fmt.Errorf("archive: compressed bulk declares %d chunks in %d bytes", numChunks, r.Remaining())
	}
	sizes := make([]int64, numChunks)
	for i := range sizes {
		sizes[i] = r.I64() // compressed
		_ = r.I64()        // uncompressed
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("archive: compressed bulk chunk table: %w", err)
	}

	out := bytes.NewBuffer(make([]byte, 0, total))
	for i, size := range sizes {
		chunk := r.take(int(size))
		if chunk == nil {
			return nil, fmt.Errorf("archive: compressed bulk chunk %d: %w", i, r.Err())
		}
		zr, err := zlib.NewReader(bytes.NewReader(chunk))
		if err != nil {
			return nil, fmt.Errorf("archive: compressed bulk chunk %d: %w", i, err)
		}
		_, err = io.Copy(out, io.LimitReader(zr, total-int64(out.Len())+1))
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("archive: compressed bulk chunk %d: %w", i, err)
		}
	}
	if int64(out.Len()) != total {
		return nil, fmt.Errorf("archive: compressed bulk expanded to %d bytes, expected %d", out.Len(), total)
	}
	return out.Bytes(), nil
}
