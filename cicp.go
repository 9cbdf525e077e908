// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

// H.273 name tables for cICP code points. Codes outside a table report "Unknown".
var (
	// colorPrimariesNames maps ColourPrimaries codes to short names.
	colorPrimariesNames = map[uint8]string{
		1:  "BT.709",
		2:  "Unspecified",
		4:  "BT.470 System M",
		5:  "BT.470 System B/G",
		6:  "BT.601",
		7:  "SMPTE 240M",
		8:  "Generic film",
		9:  "BT.2020",
		10: "SMPTE ST 428-1",
		11: "DCI-P3",
		12: "Display P3",
		22: "EBU Tech 3213-E",
	}

	// transferFunctionNames maps TransferCharacteristics codes to short names.
	transferFunctionNames = map[uint8]string{
		1:  "BT.709",
		2:  "Unspecified",
		4:  "Gamma 2.2",
		5:  "Gamma 2.8",
		6:  "BT.601",
		7:  "SMPTE 240M",
		8:  "Linear",
		9:  "Log 100:1",
		10: "Log 316:1",
		11: "xvYCC",
		12: "BT.1361",
		13: "sRGB",
		14: "BT.2020 10-bit",
		15: "BT.2020 12-bit",
		16: "SMPTE ST 2084 (PQ)",
		17: "SMPTE ST 428-1",
		18: "ARIB STD-B67 (HLG)",
	}

	// matrixCoefficientsNames maps MatrixCoefficients codes to short names.
	matrixCoefficientsNames = map[uint8]string{
		0:  "Identity",
		1:  "BT.709",
		2:  "Unspecified",
		4:  "FCC",
		5:  "BT.470 System B/G",
		6:  "BT.601",
		7:  "SMPTE 240M",
		8:  "YCgCo",
		9:  "BT.2020 NCL",
		10: "BT.2020 CL",
		11: "SMPTE ST 2085",
		14: "ICtCp",
	}
)

// cicpName resolves one H.273 code against its name table.
func cicpName(table map[uint8]string, code uint8) string {
	if name, ok := table[code]; ok {
		return name
	}

	return "Unknown"
}

// decodeCodePoints decodes the 4-byte cICP payload. Every numeric value is
// kept even when its name table has no entry.
func decodeCodePoints(payload []byte, _ *Header) ChunkData {
	if len(payload) < 4 {
		return nil
	}

	cp := &CodePoints{
		ColorPrimaries:     payload[0],
		TransferFunction:   payload[1],
		MatrixCoefficients: payload[2],
		VideoFullRange:     payload[3],
	}
	cp.PrimariesName = cicpName(colorPrimariesNames, cp.ColorPrimaries)
	cp.TransferName = cicpName(transferFunctionNames, cp.TransferFunction)
	cp.MatrixName = cicpName(matrixCoefficientsNames, cp.MatrixCoefficients)

	return cp
}
