// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"bytes"
	"fmt"
)

// Text chunk keyword limits.
const (
	minKeywordLen = 1
	maxKeywordLen = 79
)

// decodeText decodes the tEXt payload: Latin-1 keyword, NUL, Latin-1 text.
// A payload without separator is all text with an empty keyword.
func decodeText(payload []byte, _ *Header) ChunkData {
	sep := bytes.IndexByte(payload, 0)
	if sep < 0 {
		return &TextData{Text: decodeLatin1(payload)}
	}

	return &TextData{
		Keyword: decodeLatin1(payload[:sep]),
		Text:    decodeLatin1(payload[sep+1:]),
	}
}

// decodeCompressedText decodes the zTXt payload: Latin-1 keyword, NUL,
// compression method byte, opaque compressed span.
func decodeCompressedText(payload []byte, _ *Header) ChunkData {
	sep := bytes.IndexByte(payload, 0)
	if sep < 0 {
		return nil
	}

	rest := payload[sep+1:]
	if len(rest) < 1 {
		return nil
	}

	return &CompressedTextData{
		Keyword:           decodeLatin1(payload[:sep]),
		CompressionMethod: rest[0],
		Compressed:        rest[1:],
	}
}

// decodeInternationalText decodes the iTXt payload: UTF-8 keyword, NUL,
// compression flag, compression method, language tag, NUL, translated
// keyword, NUL, UTF-8 text. Any missing separator degrades the whole record.
func decodeInternationalText(payload []byte, _ *Header) ChunkData {
	sep := bytes.IndexByte(payload, 0)
	if sep < 0 {
		return nil
	}
	keyword := string(payload[:sep])

	rest := payload[sep+1:]
	if len(rest) < 2 {
		return nil
	}
	flag, method := rest[0], rest[1]
	rest = rest[2:]

	sep = bytes.IndexByte(rest, 0)
	if sep < 0 {
		return nil
	}
	lang := string(rest[:sep])
	rest = rest[sep+1:]

	sep = bytes.IndexByte(rest, 0)
	if sep < 0 {
		return nil
	}

	return &InternationalTextData{
		Keyword:           keyword,
		CompressionFlag:   flag,
		CompressionMethod: method,
		LanguageTag:       lang,
		TranslatedKeyword: string(rest[:sep]),
		Text:              string(rest[sep+1:]),
	}
}

// textKeyword extracts the Latin-1 keyword from a tEXt payload without
// decoding the text part.
func textKeyword(payload []byte) string {
	sep := bytes.IndexByte(payload, 0)
	if sep < 0 {
		return ""
	}

	return decodeLatin1(payload[:sep])
}

// decodeLatin1 converts Latin-1 bytes to a UTF-8 string. Bytes above 0x7F
// map to the code points with the same value.
func decodeLatin1(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}

	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}

	return string(runes)
}

// encodeLatin1 converts a string to Latin-1 bytes and fails on runes above U+00FF.
func encodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: rune %q", ErrInvalidText, r)
		}

		out = append(out, byte(r))
	}

	return out, nil
}

// buildTextPayload builds a tEXt payload from keyword and text.
func buildTextPayload(keyword string, text string) ([]byte, error) {
	kw, err := encodeLatin1(keyword)
	if err != nil {
		return nil, err
	}

	if err := validateKeywordBytes(kw); err != nil {
		return nil, err
	}

	body, err := encodeLatin1(text)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(kw)+1+len(body))
	payload = append(payload, kw...)
	payload = append(payload, 0)
	payload = append(payload, body...)
	return payload, nil
}

// validateKeywordBytes checks text chunk keyword rules over Latin-1 bytes:
// 1-79 printable characters, no leading, trailing, or consecutive spaces.
func validateKeywordBytes(kw []byte) error {
	if len(kw) < minKeywordLen || len(kw) > maxKeywordLen {
		return fmt.Errorf("%w: length %d", ErrInvalidKeyword, len(kw))
	}

	if kw[0] == ' ' || kw[len(kw)-1] == ' ' {
		return fmt.Errorf("%w: leading or trailing space", ErrInvalidKeyword)
	}

	prevSpace := false
	for _, c := range kw {
		// Printable Latin-1 ranges are 32-126 and 161-255.
		if c < 32 || (c > 126 && c < 161) {
			return fmt.Errorf("%w: non-printable byte 0x%02x", ErrInvalidKeyword, c)
		}

		if c == ' ' {
			if prevSpace {
				return fmt.Errorf("%w: consecutive spaces", ErrInvalidKeyword)
			}
			prevSpace = true
			continue
		}
		prevSpace = false
	}

	return nil
}
