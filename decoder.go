// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"encoding/binary"
	"fmt"
)

// decodeFunc decodes one payload type. ctx is the session header context and
// is nil until an IHDR payload has been decoded.
type decodeFunc func(payload []byte, ctx *Header) ChunkData

// payloadDecoders is the open dispatch table keyed by chunk type code.
// Decoders return nil on malformed payloads or missing context; the framed
// record survives either way.
var payloadDecoders = map[string]decodeFunc{
	TypeHeader:            decodeHeader,
	TypeText:              decodeText,
	TypeCompressedText:    decodeCompressedText,
	TypeInternationalText: decodeInternationalText,
	TypeTime:              decodeTimestamp,
	TypePhysical:          decodePhysicalDims,
	TypeGamma:             decodeGamma,
	TypeChromaticity:      decodeChromaticity,
	TypeRenderingIntent:   decodeRenderingIntent,
	TypeSignificantBits:   decodeSignificantBits,
	TypeBackground:        decodeBackgroundColor,
	TypeTransparency:      decodeTransparency,
	TypePalette:           decodePalette,
	TypeCodePoints:        decodeCodePoints,
	TypeExif:              decodeExif,
}

// decodePayload dispatches structured decoding for one framed record.
func decodePayload(code string, payload []byte, ctx *Header) ChunkData {
	decode, ok := payloadDecoders[code]
	if !ok {
		return nil
	}

	return decode(payload, ctx)
}

// decodeHeader decodes the 13-byte IHDR payload.
func decodeHeader(payload []byte, _ *Header) ChunkData {
	if len(payload) < headerSize {
		return nil
	}

	return &Header{
		Width:       binary.BigEndian.Uint32(payload[0:4]),
		Height:      binary.BigEndian.Uint32(payload[4:8]),
		BitDepth:    payload[8],
		ColorType:   ColorType(payload[9]),
		Compression: payload[10],
		Filter:      payload[11],
		Interlace:   payload[12],
	}
}

// decodeTimestamp decodes the 7-byte tIME payload.
func decodeTimestamp(payload []byte, _ *Header) ChunkData {
	if len(payload) < 7 {
		return nil
	}

	return &Timestamp{
		Year:   binary.BigEndian.Uint16(payload[0:2]),
		Month:  payload[2],
		Day:    payload[3],
		Hour:   payload[4],
		Minute: payload[5],
		Second: payload[6],
	}
}

// decodePhysicalDims decodes the 9-byte pHYs payload.
func decodePhysicalDims(payload []byte, _ *Header) ChunkData {
	if len(payload) < 9 {
		return nil
	}

	return &PhysicalDims{
		PixelsPerUnitX: binary.BigEndian.Uint32(payload[0:4]),
		PixelsPerUnitY: binary.BigEndian.Uint32(payload[4:8]),
		Unit:           payload[8],
	}
}

// fixedPointScale divides PNG scaled fixed-point fields into float values.
const fixedPointScale = 100000

// decodeGamma decodes the 4-byte gAMA payload.
func decodeGamma(payload []byte, _ *Header) ChunkData {
	if len(payload) < 4 {
		return nil
	}

	raw := binary.BigEndian.Uint32(payload[0:4])
	return &Gamma{Raw: raw, Gamma: float64(raw) / fixedPointScale}
}

// decodeChromaticity decodes the 32-byte cHRM payload.
func decodeChromaticity(payload []byte, _ *Header) ChunkData {
	if len(payload) < 32 {
		return nil
	}

	fp := func(off int) float64 {
		return float64(binary.BigEndian.Uint32(payload[off:off+4])) / fixedPointScale
	}

	return &Chromaticity{
		WhiteX: fp(0),
		WhiteY: fp(4),
		RedX:   fp(8),
		RedY:   fp(12),
		GreenX: fp(16),
		GreenY: fp(20),
		BlueX:  fp(24),
		BlueY:  fp(28),
	}
}

// renderingIntentNames maps sRGB intent codes to canonical names.
var renderingIntentNames = [...]string{
	"Perceptual",
	"Relative colorimetric",
	"Saturation",
	"Absolute colorimetric",
}

// decodeRenderingIntent decodes the 1-byte sRGB payload. Out-of-range codes
// keep their raw value and report the name "Unknown".
func decodeRenderingIntent(payload []byte, _ *Header) ChunkData {
	if len(payload) < 1 {
		return nil
	}

	intent := payload[0]
	name := "Unknown"
	if int(intent) < len(renderingIntentNames) {
		name = renderingIntentNames[intent]
	}

	return &RenderingIntent{Intent: intent, Name: name}
}

// decodeSignificantBits decodes the sBIT payload. The field layout depends on
// the color model from the header context.
func decodeSignificantBits(payload []byte, ctx *Header) ChunkData {
	if ctx == nil {
		return nil
	}

	switch ctx.ColorType {
	case ColorGrayscale:
		if len(payload) < 1 {
			return nil
		}
		return &SignificantBits{Gray: payload[0]}
	case ColorTruecolor, ColorIndexed:
		if len(payload) < 3 {
			return nil
		}
		return &SignificantBits{Red: payload[0], Green: payload[1], Blue: payload[2]}
	case ColorGrayscaleAlpha:
		if len(payload) < 2 {
			return nil
		}
		return &SignificantBits{Gray: payload[0], Alpha: payload[1]}
	case ColorTruecolorAlpha:
		if len(payload) < 4 {
			return nil
		}
		return &SignificantBits{Red: payload[0], Green: payload[1], Blue: payload[2], Alpha: payload[3]}
	default:
		return nil
	}
}

// decodeBackgroundColor decodes the bKGD payload. The field layout depends on
// the color model from the header context.
func decodeBackgroundColor(payload []byte, ctx *Header) ChunkData {
	if ctx == nil {
		return nil
	}

	switch ctx.ColorType {
	case ColorGrayscale, ColorGrayscaleAlpha:
		if len(payload) < 2 {
			return nil
		}
		return &BackgroundColor{Gray: binary.BigEndian.Uint16(payload[0:2])}
	case ColorTruecolor, ColorTruecolorAlpha:
		if len(payload) < 6 {
			return nil
		}
		return &BackgroundColor{
			Red:   binary.BigEndian.Uint16(payload[0:2]),
			Green: binary.BigEndian.Uint16(payload[2:4]),
			Blue:  binary.BigEndian.Uint16(payload[4:6]),
		}
	case ColorIndexed:
		if len(payload) < 1 {
			return nil
		}
		return &BackgroundColor{PaletteIndex: payload[0]}
	default:
		return nil
	}
}

// decodeTransparency decodes the tRNS payload. The field layout depends on
// the color model from the header context. Alpha-bearing color models never
// carry tRNS, so they decode to nothing.
func decodeTransparency(payload []byte, ctx *Header) ChunkData {
	if ctx == nil {
		return nil
	}

	switch ctx.ColorType {
	case ColorGrayscale:
		if len(payload) < 2 {
			return nil
		}
		return &Transparency{Gray: binary.BigEndian.Uint16(payload[0:2])}
	case ColorTruecolor:
		if len(payload) < 6 {
			return nil
		}
		return &Transparency{
			Red:   binary.BigEndian.Uint16(payload[0:2]),
			Green: binary.BigEndian.Uint16(payload[2:4]),
			Blue:  binary.BigEndian.Uint16(payload[4:6]),
		}
	case ColorIndexed:
		alphas := make([]uint8, len(payload))
		copy(alphas, payload)
		return &Transparency{PaletteAlphas: alphas}
	default:
		return nil
	}
}

// decodePalette decodes PLTE RGB triples into lowercase hex colors. The count
// covers complete triples only; a trailing partial triple is ignored.
func decodePalette(payload []byte, _ *Header) ChunkData {
	count := len(payload) / 3
	colors := make([]string, 0, count)
	for i := 0; i < count; i++ {
		off := i * 3
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x", payload[off], payload[off+1], payload[off+2]))
	}

	return &Palette{Colors: colors, ColorCount: count}
}
