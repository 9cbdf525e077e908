// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"github.com/dsoprea/go-exif/v3"
)

// decodeExif decodes the eXIf payload into flat tag summaries. The payload is
// a bare TIFF stream starting with the byte-order mark, no JPEG-style preamble.
func decodeExif(payload []byte, _ *Header) ChunkData {
	if len(payload) == 0 {
		return nil
	}

	tags, _, err := exif.GetFlatExifData(payload, nil)
	if err != nil || len(tags) == 0 {
		return nil
	}

	out := &ExifData{Tags: make([]ExifTagSummary, 0, len(tags))}
	for _, tag := range tags {
		out.Tags = append(out.Tags, ExifTagSummary{
			IFDPath: tag.IfdPath,
			TagID:   tag.TagId,
			Name:    tag.TagName,
			Value:   tag.Formatted,
		})
	}

	return out
}
