// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"fmt"
	"hash/crc32"
)

// chunkCRCTable is the 256-entry remainder table for the reflected PNG
// polynomial 0xEDB88320 (crc32.IEEE). The runtime builds and caches it once;
// every checksum call shares the same table.
var chunkCRCTable = crc32.MakeTable(crc32.IEEE)

// ChunkChecksum computes the PNG chunk CRC over the type code and payload.
// The length word is never part of the checksum. Initial and final value
// inversion (0xFFFFFFFF) is handled by the underlying CRC implementation.
func ChunkChecksum(code string, payload []byte) uint32 {
	var typ [typeSize]byte
	copy(typ[:], code)

	sum := crc32.Update(0, chunkCRCTable, typ[:])
	return crc32.Update(sum, chunkCRCTable, payload)
}

// VerifyChecksums recomputes the CRC of every fully framed chunk and reports
// the first mismatch. Truncated records are skipped: their stored CRC field
// is incomplete and their degraded state is already visible via Truncated.
func (f *File) VerifyChecksums() error {
	if f == nil {
		return ErrNilFile
	}

	for i := range f.chunks {
		c := &f.chunks[i]
		if c.Offset+c.TotalSize() > f.size {
			continue
		}

		if sum := ChunkChecksum(c.Type, c.Data); sum != c.CRC {
			return fmt.Errorf("%w: %s at offset %d: stored 0x%08x, computed 0x%08x",
				ErrChecksumMismatch, c.Type, c.Offset, c.CRC, sum)
		}
	}

	return nil
}
