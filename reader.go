// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// File is a parsed PNG chunk stream. Records alias the input buffer, so the
// buffer must stay immutable while the File is in use.
type File struct {
	// header is the session header context from the first decoded IHDR.
	header *Header
	// chunks stores framed records in stream order.
	chunks []Chunk
	// trailing stores unconsumed bytes after the terminal chunk.
	trailing []byte
	// size is total source buffer size in bytes.
	size int64
}

// Parse frames a PNG chunk stream held in memory.
func Parse(data []byte) (*File, error) {
	return ParseWithOptions(data, ReaderOptions{})
}

// ParseWithOptions frames a PNG chunk stream using explicit reader options.
func ParseWithOptions(data []byte, opts ReaderOptions) (*File, error) {
	if err := checkSignature(data); err != nil {
		return nil, err
	}

	f := &File{size: int64(len(data))}
	if err := f.parse(data, opts); err != nil {
		return nil, err
	}

	return f, nil
}

// Open reads and parses a PNG file by path.
func Open(path string) (*File, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions reads and parses a PNG file by path using explicit reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open PNG: %w", err)
	}

	return ParseWithOptions(data, opts)
}

// checkSignature validates the fixed 8-byte stream signature. Nothing is
// framed after a failed check.
func checkSignature(data []byte) error {
	if len(data) < signatureSize {
		return fmt.Errorf("%w: %d bytes, want at least %d", ErrInvalidSignature, len(data), signatureSize)
	}

	if !bytes.Equal(data[:signatureSize], pngSignature[:]) {
		return ErrInvalidSignature
	}

	return nil
}

// parse frames chunk records from data starting right after the signature.
func (f *File) parse(data []byte, opts ReaderOptions) error {
	size := int64(len(data))
	f.chunks = make([]Chunk, 0, estimateChunkCapacity(size))

	off := int64(signatureSize)
	for {
		// Fewer than 8 remaining bytes cannot hold another frame.
		if size-off < lengthSize+typeSize {
			break
		}

		length := binary.BigEndian.Uint32(data[off : off+lengthSize])
		code := string(data[off+lengthSize : off+lengthSize+typeSize])

		payloadStart := off + lengthSize + typeSize
		payloadEnd := payloadStart + int64(length)
		if payloadEnd > size {
			// Truncated payload stays a degraded record, not an error.
			payloadEnd = size
		}

		c := Chunk{
			Offset: off,
			Length: length,
			Type:   code,
			Data:   data[payloadStart:payloadEnd],
			CRC:    readStoredCRC(data, payloadStart+int64(length)),
		}

		if opts.VerifyChecksums && off+c.TotalSize() <= size {
			if sum := ChunkChecksum(c.Type, c.Data); sum != c.CRC {
				return fmt.Errorf("%w: %s at offset %d: stored 0x%08x, computed 0x%08x",
					ErrChecksumMismatch, c.Type, off, c.CRC, sum)
			}
		}

		if !opts.SkipPayloadDecode {
			c.Parsed = decodePayload(code, c.Data, f.header)
			if f.header == nil {
				if h, ok := c.Parsed.(*Header); ok {
					f.header = h
				}
			}
		}

		f.chunks = append(f.chunks, c)

		off += c.TotalSize()
		if code == TypeEnd {
			break
		}
	}

	if off < size {
		f.trailing = data[off:size]
	}

	return nil
}

// readStoredCRC reads the stored CRC field, zero-padding the tail when the
// buffer ends inside the field.
func readStoredCRC(data []byte, crcStart int64) uint32 {
	size := int64(len(data))
	if crcStart >= size {
		return 0
	}

	crcEnd := crcStart + crcSize
	if crcEnd > size {
		crcEnd = size
	}

	var raw [crcSize]byte
	copy(raw[:], data[crcStart:crcEnd])
	return binary.BigEndian.Uint32(raw[:])
}

// estimateChunkCapacity returns a conservative initial capacity for the record list.
func estimateChunkCapacity(size int64) int {
	if size <= signatureSize {
		return 0
	}

	const (
		minCap = 8
		maxCap = 1024
		// Payload-heavy streams hold few chunks; keep the estimate small.
		avgChunkBytes = 4096
	)

	estimated := int(size / avgChunkBytes)
	if estimated < minCap {
		return minCap
	}
	if estimated > maxCap {
		return maxCap
	}

	return estimated
}

// Chunks returns a copy of framed records in stream order.
func (f *File) Chunks() []Chunk {
	if f == nil {
		return nil
	}

	chunks := make([]Chunk, len(f.chunks))
	copy(chunks, f.chunks)
	return chunks
}

// Header returns the session header context from the first decoded IHDR.
func (f *File) Header() (Header, bool) {
	if f == nil || f.header == nil {
		return Header{}, false
	}

	return *f.header, true
}

// Size returns the total parsed buffer size in bytes.
func (f *File) Size() int64 {
	if f == nil {
		return 0
	}

	return f.size
}

// TrailingData returns unconsumed bytes after the terminal chunk or after the
// last framable record. Rewrite flows always drop them.
func (f *File) TrailingData() []byte {
	if f == nil {
		return nil
	}

	return f.trailing
}

// Index returns chunk ordinals grouped by type code.
func (f *File) Index() map[string][]int {
	if f == nil {
		return nil
	}

	index := make(map[string][]int, len(f.chunks))
	for i := range f.chunks {
		index[f.chunks[i].Type] = append(index[f.chunks[i].Type], i)
	}

	return index
}

// ChunkByType returns the first chunk of the requested type.
func (f *File) ChunkByType(code string) (Chunk, bool) {
	if f == nil {
		return Chunk{}, false
	}

	for i := range f.chunks {
		if f.chunks[i].Type == code {
			return f.chunks[i], true
		}
	}

	return Chunk{}, false
}

// ChunksByType returns every chunk of the requested type in stream order.
func (f *File) ChunksByType(code string) []Chunk {
	if f == nil {
		return nil
	}

	var out []Chunk
	for i := range f.chunks {
		if f.chunks[i].Type == code {
			out = append(out, f.chunks[i])
		}
	}

	return out
}
