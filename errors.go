// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import "errors"

// Sentinel errors for PNG stream operations. Use errors.Is in callers.
var (
	// ErrInvalidSignature means the buffer does not start with the 8-byte PNG signature.
	ErrInvalidSignature = errors.New("invalid PNG signature")
	// ErrNoImageData means the stream has no IDAT chunk to anchor metadata insertion.
	ErrNoImageData = errors.New("no IDAT chunk to anchor insertion")
	// ErrInvalidChunkType means the chunk type code is not four ASCII letters.
	ErrInvalidChunkType = errors.New("chunk type code must be four ASCII letters")
	// ErrCriticalChunk means the operation targets a critical chunk type.
	ErrCriticalChunk = errors.New("operation not allowed on critical chunk")
	// ErrChecksumMismatch means a stored chunk CRC does not match the recomputed value.
	ErrChecksumMismatch = errors.New("chunk CRC mismatch")
	// ErrInvalidKeyword means a text chunk keyword violates keyword rules.
	ErrInvalidKeyword = errors.New("invalid text chunk keyword")
	// ErrInvalidText means a text value is not representable in Latin-1.
	ErrInvalidText = errors.New("text is not representable in Latin-1")
	// ErrNilFile means the parsed file handle is nil.
	ErrNilFile = errors.New("file is nil")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrChunkNotFound means no chunk of the requested type exists in the stream.
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrInvalidStripPattern means one or more strip rules are invalid.
	ErrInvalidStripPattern = errors.New("invalid strip rules")
	// ErrEmptyPath means a file path argument is empty.
	ErrEmptyPath = errors.New("file path is empty")
	// ErrPayloadTooLarge means a payload exceeds the declared length limit.
	ErrPayloadTooLarge = errors.New("payload exceeds chunk length limit")
)
