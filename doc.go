// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

/*
Package pngmeta provides chunk-level read, inspect, and edit operations for
PNG streams. It works on the chunk framing layer: image data stays opaque
(IDAT payloads are never decompressed), while metadata chunks are decoded
into typed records.

Parsing rules (summary):
  - stream must start with the 8-byte PNG signature;
  - chunks are framed as length, type, payload, CRC at offset 8;
  - truncated final chunks are kept with clipped payload and zero-padded CRC;
  - scan stops after IEND, remaining bytes are exposed as trailing data;
  - color-dependent chunks (sBIT, bKGD, tRNS) decode only after IHDR.

# Reading

Open a PNG and inspect its chunks:

	f, err := pngmeta.Open("image.png")
	if err != nil {
	    return err
	}
	for _, c := range f.Chunks() {
	    fmt.Println(c.Type, c.Length, c.Label())
	}

Decoded payloads are exposed through the Parsed field:

	if c, ok := f.ChunkByType(pngmeta.TypeText); ok {
	    if text, ok := c.Parsed.(*pngmeta.TextData); ok {
	        fmt.Println(text.Keyword, text.Text)
	    }
	}

For metadata-only scans, use fast helpers without payload decoding:

	header, err := pngmeta.ReadHeader("image.png")
	if err != nil {
	    return err
	}
	chunks, err := pngmeta.ListChunks("image.png")
	if err != nil {
	    return err
	}
	_, _ = header, chunks

To validate stored checksums across the stream:

	if err := f.VerifyChecksums(); err != nil {
	    return err
	}

# Rewriting

Install or replace an ancillary chunk and serialize the result. New chunks
are inserted before the first IDAT, replaced chunks keep their position,
and every written chunk gets a recomputed length and CRC:

	out, err := f.SetChunk(pngmeta.TypeTime, payload)
	if err != nil {
	    return err
	}
	_ = out

Text metadata has a keyword-aware variant:

	out, err := f.SetText("Software", "pngmeta")
	if err != nil {
	    return err
	}
	_ = out

Rule-based removal uses github.com/woozymasta/pathrules patterns.
Critical chunks are never removed regardless of rules:

	out, err := f.StripChunks([]pathrules.Rule{
	    {Action: pathrules.ActionInclude, Pattern: "tEXt"},
	    {Action: pathrules.ActionInclude, Pattern: "zTXt"},
	    {Action: pathrules.ActionInclude, Pattern: "iTXt"},
	}, pathrules.MatcherOptions{})
	if err != nil {
	    return err
	}
	_ = out

# Editing

To edit an existing file in one transaction with backup and rollback:

	editor, err := pngmeta.OpenEditor("image.png", pngmeta.EditOptions{
	    BackupKeep: 1,
	})
	if err != nil {
	    return err
	}
	if err := editor.SetText("Author", "WoozyMasta"); err != nil {
	    return err
	}
	if err := editor.Remove(pngmeta.TypeExif); err != nil {
	    return err
	}
	if _, err := editor.Commit(ctx); err != nil {
	    return err
	}
*/
package pngmeta
