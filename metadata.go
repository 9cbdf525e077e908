// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import "fmt"

// ReadHeader opens a PNG and returns only the decoded IHDR fields.
func ReadHeader(path string) (Header, error) {
	f, err := Open(path)
	if err != nil {
		return Header{}, err
	}

	h, ok := f.Header()
	if !ok {
		return Header{}, fmt.Errorf("%w: %s", ErrChunkNotFound, TypeHeader)
	}

	return h, nil
}

// ListChunks opens a PNG and returns chunk records without payload decoding.
func ListChunks(path string) ([]Chunk, error) {
	return ListChunksWithOptions(path, ReaderOptions{SkipPayloadDecode: true})
}

// ListChunksWithOptions opens a PNG and returns chunk records using reader options.
func ListChunksWithOptions(path string, opts ReaderOptions) ([]Chunk, error) {
	f, err := OpenWithOptions(path, opts)
	if err != nil {
		return nil, err
	}

	return f.Chunks(), nil
}
