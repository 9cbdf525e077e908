// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
)

// rewriteChunk is one planned output chunk: a type code and its payload.
// Length and CRC are always recomputed at write time, never copied from the
// source stream.
type rewriteChunk struct {
	code    string
	payload []byte
}

// buildRewritePlan converts framed records to an output plan. Truncated
// records contribute their available payload, so the rewritten frame is
// consistent again.
func buildRewritePlan(chunks []Chunk) []rewriteChunk {
	plan := make([]rewriteChunk, 0, len(chunks))
	for i := range chunks {
		plan = append(plan, rewriteChunk{code: chunks[i].Type, payload: chunks[i].Data})
	}

	return plan
}

// writeStream emits the signature and every planned chunk with recomputed
// length and CRC fields.
func writeStream(ctx context.Context, w io.Writer, plan []rewriteChunk) (int64, error) {
	if w == nil {
		return 0, ErrNilWriter
	}

	var written int64
	n, err := w.Write(pngSignature[:])
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("write signature: %w", err)
	}

	var frame [lengthSize + typeSize]byte
	var crcField [crcSize]byte
	for i := range plan {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		c := &plan[i]
		if err := validateChunkType(c.code); err != nil {
			return written, err
		}
		if int64(len(c.payload)) > maxChunkData {
			return written, fmt.Errorf("%w: %s payload is %d bytes", ErrPayloadTooLarge, c.code, len(c.payload))
		}

		binary.BigEndian.PutUint32(frame[:lengthSize], uint32(len(c.payload)))
		copy(frame[lengthSize:], c.code)
		n, err = w.Write(frame[:])
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write %s frame: %w", c.code, err)
		}

		n, err = w.Write(c.payload)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write %s payload: %w", c.code, err)
		}

		binary.BigEndian.PutUint32(crcField[:], ChunkChecksum(c.code, c.payload))
		n, err = w.Write(crcField[:])
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write %s checksum: %w", c.code, err)
		}
	}

	return written, nil
}

// buildStream emits a plan into a fresh buffer.
func buildStream(plan []rewriteChunk, sizeHint int64) ([]byte, error) {
	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(int(sizeHint))
	}

	if _, err := writeStream(context.Background(), &buf, plan); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// insertBeforeImageData inserts one chunk ahead of the first IDAT record.
func insertBeforeImageData(plan []rewriteChunk, code string, payload []byte) ([]rewriteChunk, error) {
	anchor := -1
	for i := range plan {
		if plan[i].code == TypeImageData {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return nil, fmt.Errorf("%w: cannot insert %s", ErrNoImageData, code)
	}

	plan = append(plan, rewriteChunk{})
	copy(plan[anchor+1:], plan[anchor:])
	plan[anchor] = rewriteChunk{code: code, payload: payload}
	return plan, nil
}

// applySetChunk replaces the payload of the first chunk with the given code
// in place, or inserts a new chunk immediately before the first IDAT record.
// The boolean reports whether an existing chunk was replaced.
func applySetChunk(plan []rewriteChunk, code string, payload []byte) ([]rewriteChunk, bool, error) {
	for i := range plan {
		if plan[i].code == code {
			plan[i].payload = payload
			return plan, true, nil
		}
	}

	next, err := insertBeforeImageData(plan, code, payload)
	return next, false, err
}

// applySetText replaces the tEXt chunk with a matching keyword, or inserts a
// new tEXt chunk immediately before the first IDAT record.
func applySetText(plan []rewriteChunk, keyword string, payload []byte) ([]rewriteChunk, bool, error) {
	for i := range plan {
		if plan[i].code != TypeText {
			continue
		}

		if textKeyword(plan[i].payload) == keyword {
			plan[i].payload = payload
			return plan, true, nil
		}
	}

	next, err := insertBeforeImageData(plan, TypeText, payload)
	return next, false, err
}

// validateEditableType checks that code names an editable ancillary chunk.
func validateEditableType(code string) error {
	if err := validateChunkType(code); err != nil {
		return err
	}

	if IsCriticalType(code) {
		return fmt.Errorf("%w: %s", ErrCriticalChunk, code)
	}

	return nil
}

// SetChunk returns a new stream buffer with payload installed for the given
// ancillary type: in place when a chunk of that type exists, otherwise
// inserted immediately before the first IDAT chunk. A stream without IDAT
// cannot anchor an insert and fails with ErrNoImageData.
func (f *File) SetChunk(code string, payload []byte) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFile
	}

	if err := validateEditableType(code); err != nil {
		return nil, err
	}

	plan, _, err := applySetChunk(buildRewritePlan(f.chunks), code, payload)
	if err != nil {
		return nil, err
	}

	return buildStream(plan, f.size+int64(len(payload))+chunkOverhead)
}

// SetChunk parses data and installs one ancillary chunk payload in a single
// call. See (*File).SetChunk for placement semantics.
func SetChunk(data []byte, code string, payload []byte) ([]byte, error) {
	f, err := ParseWithOptions(data, ReaderOptions{SkipPayloadDecode: true})
	if err != nil {
		return nil, err
	}

	return f.SetChunk(code, payload)
}

// SetText returns a new stream buffer with a tEXt chunk installed for the
// keyword: replaced when a tEXt chunk with the same keyword exists, otherwise
// inserted immediately before the first IDAT chunk.
func (f *File) SetText(keyword string, text string) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFile
	}

	payload, err := buildTextPayload(keyword, text)
	if err != nil {
		return nil, err
	}

	plan, _, err := applySetText(buildRewritePlan(f.chunks), keyword, payload)
	if err != nil {
		return nil, err
	}

	return buildStream(plan, f.size+int64(len(payload))+chunkOverhead)
}

// WriteTo re-emits the canonical stream: the signature plus every framed
// record with recomputed length and CRC fields. Unmodified conformant input
// round-trips byte-identically; trailing garbage is dropped.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	if f == nil {
		return 0, ErrNilFile
	}

	return writeStream(context.Background(), w, buildRewritePlan(f.chunks))
}

// Bytes re-emits the canonical stream into a new buffer.
func (f *File) Bytes() ([]byte, error) {
	if f == nil {
		return nil, ErrNilFile
	}

	return buildStream(buildRewritePlan(f.chunks), f.size)
}

// Bytes returns the framed representation of one chunk with recomputed
// length and CRC fields.
func (c *Chunk) Bytes() []byte {
	out := make([]byte, 0, chunkOverhead+len(c.Data))

	var word [lengthSize]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(c.Data)))
	out = append(out, word[:]...)
	out = append(out, c.Type...)
	out = append(out, c.Data...)
	binary.BigEndian.PutUint32(word[:], ChunkChecksum(c.Type, c.Data))
	out = append(out, word[:]...)

	return out
}
