// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import "fmt"

// Chunk type codes with dedicated decoders or special framing roles.
const (
	// TypeHeader is the IHDR image header chunk.
	TypeHeader = "IHDR"
	// TypePalette is the PLTE palette chunk.
	TypePalette = "PLTE"
	// TypeImageData is the IDAT image data chunk.
	TypeImageData = "IDAT"
	// TypeEnd is the IEND terminal chunk.
	TypeEnd = "IEND"
	// TypeText is the tEXt Latin-1 text chunk.
	TypeText = "tEXt"
	// TypeCompressedText is the zTXt compressed text chunk.
	TypeCompressedText = "zTXt"
	// TypeInternationalText is the iTXt UTF-8 text chunk.
	TypeInternationalText = "iTXt"
	// TypeTime is the tIME last-modification timestamp chunk.
	TypeTime = "tIME"
	// TypePhysical is the pHYs physical pixel dimensions chunk.
	TypePhysical = "pHYs"
	// TypeGamma is the gAMA image gamma chunk.
	TypeGamma = "gAMA"
	// TypeChromaticity is the cHRM primary chromaticities chunk.
	TypeChromaticity = "cHRM"
	// TypeRenderingIntent is the sRGB rendering intent chunk.
	TypeRenderingIntent = "sRGB"
	// TypeSignificantBits is the sBIT significant bits chunk.
	TypeSignificantBits = "sBIT"
	// TypeBackground is the bKGD background color chunk.
	TypeBackground = "bKGD"
	// TypeTransparency is the tRNS transparency chunk.
	TypeTransparency = "tRNS"
	// TypeCodePoints is the cICP coding-independent code points chunk.
	TypeCodePoints = "cICP"
	// TypeExif is the eXIf embedded EXIF metadata chunk.
	TypeExif = "eXIf"
)

// criticalTypes is the explicit allow-list of critical chunk types.
// Criticality is decided by this list, not by the type code case bit.
var criticalTypes = map[string]struct{}{
	TypeHeader:    {},
	TypePalette:   {},
	TypeImageData: {},
	TypeEnd:       {},
}

// IsCriticalType reports whether code belongs to the critical chunk set.
func IsCriticalType(code string) bool {
	_, ok := criticalTypes[code]
	return ok
}

// chunkLabels maps registered type codes to short descriptions. Codes without
// a dedicated decoder are still recognized here for listing workflows.
var chunkLabels = map[string]string{
	TypeHeader:            "image header",
	TypePalette:           "palette",
	TypeImageData:         "image data",
	TypeEnd:               "stream terminator",
	TypeText:              "text",
	TypeCompressedText:    "compressed text",
	TypeInternationalText: "international text",
	TypeTime:              "last modification time",
	TypePhysical:          "physical pixel dimensions",
	TypeGamma:             "image gamma",
	TypeChromaticity:      "primary chromaticities",
	TypeRenderingIntent:   "rendering intent",
	TypeSignificantBits:   "significant bits",
	TypeBackground:        "background color",
	TypeTransparency:      "transparency",
	TypeCodePoints:        "coding-independent code points",
	TypeExif:              "EXIF metadata",
	"iCCP":                "ICC profile",
	"hIST":                "palette histogram",
	"sPLT":                "suggested palette",
	"acTL":                "animation control",
	"fcTL":                "frame control",
	"fdAT":                "frame data",
	"oFFs":                "image offset",
	"sCAL":                "physical scale",
	"sTER":                "stereo indicator",
	"dSIG":                "digital signature",
}

// ChunkLabel returns a short description for registered type codes and an
// empty string for unknown codes.
func ChunkLabel(code string) string {
	return chunkLabels[code]
}

// validateChunkType checks that code is exactly four ASCII letters.
func validateChunkType(code string) error {
	if len(code) != typeSize {
		return fmt.Errorf("%w: %q", ErrInvalidChunkType, code)
	}

	for i := 0; i < typeSize; i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return fmt.Errorf("%w: %q", ErrInvalidChunkType, code)
		}
	}

	return nil
}
