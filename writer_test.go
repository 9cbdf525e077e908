// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestWriteTo_RoundTripIdentical(t *testing.T) {
	t.Parallel()

	data := metaPNG()
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(data)) {
		t.Fatalf("written=%d, want %d", n, len(data))
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Fatal("conformant stream must round-trip byte-identically")
	}
}

func TestBytes_DropsTrailingGarbage(t *testing.T) {
	t.Parallel()

	clean := metaPNG()
	dirty := append(append([]byte(nil), clean...), "trailing garbage"...)

	f, err := Parse(dirty)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(out, clean) {
		t.Fatal("rewrite must drop bytes after the terminal chunk")
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}
	if again.TrailingData() != nil {
		t.Fatalf("rewritten trailing=%q, want none", again.TrailingData())
	}
}

func TestBytes_RepairsCorruptedChecksum(t *testing.T) {
	t.Parallel()

	clean := metaPNG()
	corrupt := append([]byte(nil), clean...)
	// Break the stored CRC of the tIME chunk; the payload stays intact.
	f, err := Parse(clean)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	timeChunk, ok := f.ChunkByType(TypeTime)
	if !ok {
		t.Fatal("fixture must contain tIME")
	}
	corrupt[timeChunk.Offset+lengthSize+typeSize+int64(timeChunk.Length)] ^= 0xff

	broken, err := Parse(corrupt)
	if err != nil {
		t.Fatalf("Parse corrupted: %v", err)
	}
	if err := broken.VerifyChecksums(); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch before rewrite, got %v", err)
	}

	out, err := broken.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(out, clean) {
		t.Fatal("rewrite must restore the computed checksum")
	}
}

func TestBytes_ReframesTruncatedChunk(t *testing.T) {
	t.Parallel()

	stream := append([]byte(nil), pngSignature[:]...)
	stream = appendChunk(stream, TypeHeader, headerPayload(8, 8, 8, ColorGrayscale))
	// Final frame declares 64 bytes but carries 3.
	frame := make([]byte, lengthSize+typeSize+3)
	frame[3] = 64
	copy(frame[4:8], TypeImageData)
	copy(frame[8:], []byte{9, 8, 7})
	stream = append(stream, frame...)

	f, err := Parse(stream)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	again, err := ParseWithOptions(out, ReaderOptions{VerifyChecksums: true})
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}

	chunks := again.Chunks()
	if len(chunks) != 2 {
		t.Fatalf("len(chunks)=%d, want 2", len(chunks))
	}
	last := chunks[1]
	if last.Truncated() {
		t.Fatal("rewritten chunk must be complete")
	}
	if last.Length != 3 || !bytes.Equal(last.Data, []byte{9, 8, 7}) {
		t.Fatalf("rewritten record=%+v", last)
	}
}

func TestSetChunk_ReplacesInPlace(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	before := f.Index()
	newTime := []byte{0x07, 0xcc, 6, 7, 17, 58, 8}
	out, err := f.SetChunk(TypeTime, newTime)
	if err != nil {
		t.Fatalf("SetChunk: %v", err)
	}

	again, err := ParseWithOptions(out, ReaderOptions{VerifyChecksums: true})
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}

	after := again.Index()
	if len(again.Chunks()) != len(f.Chunks()) {
		t.Fatalf("chunk count changed: %d -> %d", len(f.Chunks()), len(again.Chunks()))
	}
	if before[TypeTime][0] != after[TypeTime][0] {
		t.Fatalf("tIME moved: %d -> %d", before[TypeTime][0], after[TypeTime][0])
	}

	c, ok := again.ChunkByType(TypeTime)
	if !ok {
		t.Fatal("tIME must survive replacement")
	}
	ts, ok := c.Parsed.(*Timestamp)
	if !ok {
		t.Fatalf("tIME must decode, got %T", c.Parsed)
	}
	if ts.Year != 1996 || ts.Month != 6 || ts.Day != 7 {
		t.Fatalf("timestamp=%+v", ts)
	}
}

func TestSetChunk_InsertsBeforeImageData(t *testing.T) {
	t.Parallel()

	f, err := Parse(minimalPNG(ColorTruecolor))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	phys := []byte{0x00, 0x00, 0x0b, 0x13, 0x00, 0x00, 0x0b, 0x13, 0x01}
	out, err := f.SetChunk(TypePhysical, phys)
	if err != nil {
		t.Fatalf("SetChunk: %v", err)
	}

	again, err := ParseWithOptions(out, ReaderOptions{VerifyChecksums: true})
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}

	wantOrder := []string{TypeHeader, TypePhysical, TypeImageData, TypeEnd}
	chunks := again.Chunks()
	if len(chunks) != len(wantOrder) {
		t.Fatalf("len(chunks)=%d, want %d", len(chunks), len(wantOrder))
	}
	for i, want := range wantOrder {
		if chunks[i].Type != want {
			t.Fatalf("chunks[%d].Type=%q, want %q", i, chunks[i].Type, want)
		}
	}
}

func TestSetChunk_NoImageData(t *testing.T) {
	t.Parallel()

	stream := append([]byte(nil), pngSignature[:]...)
	stream = appendChunk(stream, TypeHeader, headerPayload(8, 8, 8, ColorGrayscale))
	stream = appendChunk(stream, TypeEnd, nil)

	f, err := Parse(stream)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := f.SetChunk(TypeTime, []byte{0x07, 0xcc, 6, 7, 17, 58, 8}); !errors.Is(err, ErrNoImageData) {
		t.Fatalf("expected ErrNoImageData, got %v", err)
	}
}

func TestSetChunk_RejectsProtectedAndMalformedTypes(t *testing.T) {
	t.Parallel()

	f, err := Parse(minimalPNG(ColorTruecolor))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, code := range []string{TypeHeader, TypePalette, TypeImageData, TypeEnd} {
		if _, err := f.SetChunk(code, []byte{1}); !errors.Is(err, ErrCriticalChunk) {
			t.Fatalf("SetChunk(%s): expected ErrCriticalChunk, got %v", code, err)
		}
	}

	for _, code := range []string{"", "ab", "ab1d", "gAMAx"} {
		if _, err := f.SetChunk(code, []byte{1}); !errors.Is(err, ErrInvalidChunkType) {
			t.Fatalf("SetChunk(%q): expected ErrInvalidChunkType, got %v", code, err)
		}
	}
}

func TestSetChunk_OneShot(t *testing.T) {
	t.Parallel()

	out, err := SetChunk(minimalPNG(ColorTruecolor), TypeGamma, []byte{0x00, 0x00, 0xb1, 0x8f})
	if err != nil {
		t.Fatalf("SetChunk: %v", err)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}

	c, ok := again.ChunkByType(TypeGamma)
	if !ok {
		t.Fatal("gAMA must be present after one-shot install")
	}
	g, ok := c.Parsed.(*Gamma)
	if !ok || g.Raw != 45455 {
		t.Fatalf("gAMA=%+v", c.Parsed)
	}
}

func TestSetText_ReplacesMatchingKeyword(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.SetText("Software", "pngmeta v2")
	if err != nil {
		t.Fatalf("SetText: %v", err)
	}

	again, err := ParseWithOptions(out, ReaderOptions{VerifyChecksums: true})
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}
	if len(again.Chunks()) != len(f.Chunks()) {
		t.Fatalf("chunk count changed: %d -> %d", len(f.Chunks()), len(again.Chunks()))
	}

	c, ok := again.ChunkByType(TypeText)
	if !ok {
		t.Fatal("tEXt must survive replacement")
	}
	td, ok := c.Parsed.(*TextData)
	if !ok {
		t.Fatalf("tEXt must decode, got %T", c.Parsed)
	}
	if td.Keyword != "Software" || td.Text != "pngmeta v2" {
		t.Fatalf("text=%+v", td)
	}
}

func TestSetText_InsertsNewKeyword(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	imageDataIndex := f.Index()[TypeImageData][0]

	out, err := f.SetText("Author", "WoozyMasta")
	if err != nil {
		t.Fatalf("SetText: %v", err)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}
	if len(again.Chunks()) != len(f.Chunks())+1 {
		t.Fatalf("chunk count=%d, want %d", len(again.Chunks()), len(f.Chunks())+1)
	}

	// The new chunk takes the slot right before the first IDAT.
	chunks := again.Chunks()
	added := chunks[imageDataIndex]
	if added.Type != TypeText {
		t.Fatalf("chunks[%d].Type=%q, want tEXt", imageDataIndex, added.Type)
	}
	td, ok := added.Parsed.(*TextData)
	if !ok || td.Keyword != "Author" || td.Text != "WoozyMasta" {
		t.Fatalf("added text=%+v", added.Parsed)
	}

	// The original keyword stays untouched.
	old, ok := again.ChunkByType(TypeText)
	if !ok || old.Parsed.(*TextData).Keyword != "Software" {
		t.Fatalf("first tEXt=%+v", old.Parsed)
	}
}

func TestSetText_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := f.SetText(" lead", "x"); !errors.Is(err, ErrInvalidKeyword) {
		t.Fatalf("expected ErrInvalidKeyword, got %v", err)
	}
	if _, err := f.SetText("ok", "€"); !errors.Is(err, ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
}

func TestBytes_RejectsUnwritableTypeCode(t *testing.T) {
	t.Parallel()

	// The framer tolerates arbitrary type bytes; the writer does not.
	stream := append([]byte(nil), pngSignature[:]...)
	stream = appendChunk(stream, "ab\x01d", []byte{1, 2})

	f, err := Parse(stream)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := f.Bytes(); !errors.Is(err, ErrInvalidChunkType) {
		t.Fatalf("expected ErrInvalidChunkType, got %v", err)
	}
}

func TestChunk_Bytes(t *testing.T) {
	t.Parallel()

	payload := []byte{0x07, 0xcc, 6, 7, 17, 58, 8}
	c := Chunk{Type: TypeTime, Length: uint32(len(payload)), Data: payload}

	want := appendChunk(nil, TypeTime, payload)
	if got := c.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("framed=%v, want %v", got, want)
	}
}

func TestWriteTo_NilTargets(t *testing.T) {
	t.Parallel()

	var f *File
	if _, err := f.WriteTo(&bytes.Buffer{}); !errors.Is(err, ErrNilFile) {
		t.Fatalf("nil file: expected ErrNilFile, got %v", err)
	}
	if _, err := f.Bytes(); !errors.Is(err, ErrNilFile) {
		t.Fatalf("nil file Bytes: expected ErrNilFile, got %v", err)
	}
	if _, err := f.SetChunk(TypeTime, nil); !errors.Is(err, ErrNilFile) {
		t.Fatalf("nil file SetChunk: expected ErrNilFile, got %v", err)
	}

	parsed, err := Parse(minimalPNG(ColorTruecolor))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := writeStream(context.Background(), nil, buildRewritePlan(parsed.chunks)); !errors.Is(err, ErrNilWriter) {
		t.Fatalf("nil writer: expected ErrNilWriter, got %v", err)
	}
}

func TestWriteStream_ContextCanceled(t *testing.T) {
	t.Parallel()

	f, err := Parse(minimalPNG(ColorTruecolor))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	written, err := writeStream(ctx, &buf, buildRewritePlan(f.chunks))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if written != signatureSize {
		t.Fatalf("written=%d, want signature only", written)
	}
}
