// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"fmt"
	"time"

	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	signatureSize = 8         // fixed PNG signature size in bytes
	lengthSize    = 4         // declared payload length field size
	typeSize      = 4         // chunk type code size
	crcSize       = 4         // chunk CRC field size
	headerSize    = 13        // IHDR payload size
	maxChunkData  = 1<<31 - 1 // max declared payload length in a conformant stream
)

// chunkOverhead is the framing cost around one payload: the length word, the
// type code, and the CRC field.
const chunkOverhead = lengthSize + typeSize + crcSize

// pngSignature is the fixed 8-byte stream signature.
var pngSignature = [signatureSize]byte{137, 80, 78, 71, 13, 10, 26, 10}

// ColorType is the IHDR color model code.
type ColorType uint8

// PNG color model codes.
const (
	// ColorGrayscale is a single luminance channel.
	ColorGrayscale ColorType = 0
	// ColorTruecolor is three RGB channels.
	ColorTruecolor ColorType = 2
	// ColorIndexed is a palette-indexed single channel.
	ColorIndexed ColorType = 3
	// ColorGrayscaleAlpha is luminance plus alpha.
	ColorGrayscaleAlpha ColorType = 4
	// ColorTruecolorAlpha is RGB plus alpha.
	ColorTruecolorAlpha ColorType = 6
)

// String returns the canonical color model name.
func (c ColorType) String() string {
	switch c {
	case ColorGrayscale:
		return "Grayscale"
	case ColorTruecolor:
		return "RGB"
	case ColorIndexed:
		return "Indexed"
	case ColorGrayscaleAlpha:
		return "Grayscale+Alpha"
	case ColorTruecolorAlpha:
		return "RGB+Alpha"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// ChunkData is implemented by decoded payload variants. A nil ChunkData on a
// framed record means no decoder matched or decoding degraded.
type ChunkData interface {
	// chunkData restricts implementations to this package's decoders.
	chunkData()
}

// Chunk is one framed record from a PNG chunk stream.
type Chunk struct {
	// Parsed is the decoded payload variant; nil when absent.
	Parsed ChunkData `json:"parsed,omitempty" yaml:"parsed,omitempty"`
	// Type is the 4-character chunk type code.
	Type string `json:"type" yaml:"type"`
	// Data is the payload span; it aliases the parsed input buffer.
	Data []byte `json:"-" yaml:"-"`
	// Offset is the byte offset of the length word inside the stream.
	Offset int64 `json:"offset" yaml:"offset"`
	// Length is the declared payload length in bytes.
	Length uint32 `json:"length" yaml:"length"`
	// CRC is the stored checksum field read from the stream.
	CRC uint32 `json:"crc" yaml:"crc"`
}

// TotalSize returns the full framed size: declared payload length plus the
// length word, type code, and CRC field.
func (c *Chunk) TotalSize() int64 {
	return int64(c.Length) + chunkOverhead
}

// Critical reports whether the chunk type belongs to the critical set.
func (c *Chunk) Critical() bool {
	return IsCriticalType(c.Type)
}

// Ancillary reports whether the chunk can be dropped without breaking decoders.
func (c *Chunk) Ancillary() bool {
	return !IsCriticalType(c.Type)
}

// Truncated reports whether the available payload is shorter than declared.
func (c *Chunk) Truncated() bool {
	return int64(len(c.Data)) < int64(c.Length)
}

// Label returns a short description of the chunk type.
func (c *Chunk) Label() string {
	return ChunkLabel(c.Type)
}

// Header is the decoded IHDR payload and the parse session header context.
type Header struct {
	// Width is image width in pixels.
	Width uint32 `json:"width" yaml:"width"`
	// Height is image height in pixels.
	Height uint32 `json:"height" yaml:"height"`
	// BitDepth is bits per sample or per palette index.
	BitDepth uint8 `json:"bit_depth" yaml:"bit_depth"`
	// ColorType is the color model code.
	ColorType ColorType `json:"color_type" yaml:"color_type"`
	// Compression is the compression method code (0 means DEFLATE).
	Compression uint8 `json:"compression" yaml:"compression"`
	// Filter is the filter method code.
	Filter uint8 `json:"filter" yaml:"filter"`
	// Interlace is the interlace method code (0 none, 1 Adam7).
	Interlace uint8 `json:"interlace" yaml:"interlace"`
}

// TextData is a decoded tEXt payload.
type TextData struct {
	// Keyword is the Latin-1 keyword before the first NUL separator.
	// Empty when the payload has no separator.
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	// Text is the Latin-1 text after the separator, or the whole payload
	// when no separator exists.
	Text string `json:"text" yaml:"text"`
}

// CompressedTextData is a decoded zTXt payload. The compressed span stays
// opaque and is never inflated by this package.
type CompressedTextData struct {
	// Keyword is the Latin-1 keyword before the NUL separator.
	Keyword string `json:"keyword" yaml:"keyword"`
	// Compressed is the opaque compressed text span.
	Compressed []byte `json:"-" yaml:"-"`
	// CompressionMethod is the declared compression method code (0 means DEFLATE).
	CompressionMethod uint8 `json:"compression_method" yaml:"compression_method"`
}

// CompressedSize returns the size of the opaque compressed span in bytes.
func (z *CompressedTextData) CompressedSize() int {
	return len(z.Compressed)
}

// InternationalTextData is a decoded iTXt payload.
type InternationalTextData struct {
	// Keyword is the UTF-8 keyword before the first NUL separator.
	Keyword string `json:"keyword" yaml:"keyword"`
	// LanguageTag is the RFC 3066 language tag.
	LanguageTag string `json:"language_tag,omitempty" yaml:"language_tag,omitempty"`
	// TranslatedKeyword is the keyword translated to the tag language.
	TranslatedKeyword string `json:"translated_keyword,omitempty" yaml:"translated_keyword,omitempty"`
	// Text is the remaining payload bytes. Compressed when CompressionFlag
	// is set; never inflated by this package.
	Text string `json:"text" yaml:"text"`
	// CompressionFlag reports whether the text span is compressed.
	CompressionFlag uint8 `json:"compression_flag,omitempty" yaml:"compression_flag,omitempty"`
	// CompressionMethod is the declared compression method code.
	CompressionMethod uint8 `json:"compression_method,omitempty" yaml:"compression_method,omitempty"`
}

// Timestamp is a decoded tIME payload.
type Timestamp struct {
	// Year is the full four-digit year.
	Year uint16 `json:"year" yaml:"year"`
	// Month is 1-12.
	Month uint8 `json:"month" yaml:"month"`
	// Day is 1-31.
	Day uint8 `json:"day" yaml:"day"`
	// Hour is 0-23.
	Hour uint8 `json:"hour" yaml:"hour"`
	// Minute is 0-59.
	Minute uint8 `json:"minute" yaml:"minute"`
	// Second is 0-60 to allow leap seconds.
	Second uint8 `json:"second" yaml:"second"`
}

// Time converts the timestamp fields to UTC time.
func (t *Timestamp) Time() time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// PhysicalDims is a decoded pHYs payload.
type PhysicalDims struct {
	// PixelsPerUnitX is the pixel density along the X axis.
	PixelsPerUnitX uint32 `json:"pixels_per_unit_x" yaml:"pixels_per_unit_x"`
	// PixelsPerUnitY is the pixel density along the Y axis.
	PixelsPerUnitY uint32 `json:"pixels_per_unit_y" yaml:"pixels_per_unit_y"`
	// Unit is the unit specifier: 0 unknown ratio, 1 metre.
	Unit uint8 `json:"unit" yaml:"unit"`
}

// Gamma is a decoded gAMA payload.
type Gamma struct {
	// Raw is the stored fixed-point value (gamma times 100000).
	Raw uint32 `json:"raw" yaml:"raw"`
	// Gamma is the decoded gamma value.
	Gamma float64 `json:"gamma" yaml:"gamma"`
}

// Chromaticity is a decoded cHRM payload with CIE x,y pairs.
type Chromaticity struct {
	// WhiteX is the white point x coordinate.
	WhiteX float64 `json:"white_x" yaml:"white_x"`
	// WhiteY is the white point y coordinate.
	WhiteY float64 `json:"white_y" yaml:"white_y"`
	// RedX is the red primary x coordinate.
	RedX float64 `json:"red_x" yaml:"red_x"`
	// RedY is the red primary y coordinate.
	RedY float64 `json:"red_y" yaml:"red_y"`
	// GreenX is the green primary x coordinate.
	GreenX float64 `json:"green_x" yaml:"green_x"`
	// GreenY is the green primary y coordinate.
	GreenY float64 `json:"green_y" yaml:"green_y"`
	// BlueX is the blue primary x coordinate.
	BlueX float64 `json:"blue_x" yaml:"blue_x"`
	// BlueY is the blue primary y coordinate.
	BlueY float64 `json:"blue_y" yaml:"blue_y"`
}

// RenderingIntent is a decoded sRGB payload.
type RenderingIntent struct {
	// Name is the canonical intent name, or "Unknown" for out-of-range codes.
	Name string `json:"name" yaml:"name"`
	// Intent is the stored rendering intent code.
	Intent uint8 `json:"intent" yaml:"intent"`
}

// SignificantBits is a decoded sBIT payload. Populated fields depend on the
// color model from the header context.
type SignificantBits struct {
	// Gray is significant bits in the luminance channel.
	Gray uint8 `json:"gray,omitempty" yaml:"gray,omitempty"`
	// Red is significant bits in the red channel.
	Red uint8 `json:"red,omitempty" yaml:"red,omitempty"`
	// Green is significant bits in the green channel.
	Green uint8 `json:"green,omitempty" yaml:"green,omitempty"`
	// Blue is significant bits in the blue channel.
	Blue uint8 `json:"blue,omitempty" yaml:"blue,omitempty"`
	// Alpha is significant bits in the alpha channel.
	Alpha uint8 `json:"alpha,omitempty" yaml:"alpha,omitempty"`
}

// BackgroundColor is a decoded bKGD payload. Populated fields depend on the
// color model from the header context.
type BackgroundColor struct {
	// Gray is the background luminance for grayscale models.
	Gray uint16 `json:"gray,omitempty" yaml:"gray,omitempty"`
	// Red is the background red sample for truecolor models.
	Red uint16 `json:"red,omitempty" yaml:"red,omitempty"`
	// Green is the background green sample for truecolor models.
	Green uint16 `json:"green,omitempty" yaml:"green,omitempty"`
	// Blue is the background blue sample for truecolor models.
	Blue uint16 `json:"blue,omitempty" yaml:"blue,omitempty"`
	// PaletteIndex is the background palette entry for indexed models.
	PaletteIndex uint8 `json:"palette_index,omitempty" yaml:"palette_index,omitempty"`
}

// Transparency is a decoded tRNS payload. Populated fields depend on the
// color model from the header context.
type Transparency struct {
	// PaletteAlphas is one alpha byte per palette entry for indexed models.
	PaletteAlphas []uint8 `json:"palette_alphas,omitempty" yaml:"palette_alphas,omitempty"`
	// Gray is the fully transparent luminance for grayscale models.
	Gray uint16 `json:"gray,omitempty" yaml:"gray,omitempty"`
	// Red is the fully transparent red sample for truecolor models.
	Red uint16 `json:"red,omitempty" yaml:"red,omitempty"`
	// Green is the fully transparent green sample for truecolor models.
	Green uint16 `json:"green,omitempty" yaml:"green,omitempty"`
	// Blue is the fully transparent blue sample for truecolor models.
	Blue uint16 `json:"blue,omitempty" yaml:"blue,omitempty"`
}

// Palette is a decoded PLTE payload.
type Palette struct {
	// Colors lists every complete RGB triple as lowercase "#rrggbb".
	Colors []string `json:"colors" yaml:"colors"`
	// ColorCount is the number of complete triples in the payload.
	// A trailing partial triple is ignored, never an error.
	ColorCount int `json:"color_count" yaml:"color_count"`
}

// CodePoints is a decoded cICP payload.
type CodePoints struct {
	// PrimariesName is the H.273 name for ColorPrimaries, or "Unknown".
	PrimariesName string `json:"primaries_name" yaml:"primaries_name"`
	// TransferName is the H.273 name for TransferFunction, or "Unknown".
	TransferName string `json:"transfer_name" yaml:"transfer_name"`
	// MatrixName is the H.273 name for MatrixCoefficients, or "Unknown".
	MatrixName string `json:"matrix_name" yaml:"matrix_name"`
	// ColorPrimaries is the H.273 color primaries code.
	ColorPrimaries uint8 `json:"color_primaries" yaml:"color_primaries"`
	// TransferFunction is the H.273 transfer characteristics code.
	TransferFunction uint8 `json:"transfer_function" yaml:"transfer_function"`
	// MatrixCoefficients is the H.273 matrix coefficients code.
	MatrixCoefficients uint8 `json:"matrix_coefficients" yaml:"matrix_coefficients"`
	// VideoFullRange is the full-range flag byte.
	VideoFullRange uint8 `json:"video_full_range" yaml:"video_full_range"`
}

// FullRange reports whether the full-range flag byte is set.
func (c *CodePoints) FullRange() bool {
	return c.VideoFullRange == 1
}

// ExifData is a decoded eXIf payload flattened to tag summaries.
type ExifData struct {
	// Tags lists decoded tags in scan order.
	Tags []ExifTagSummary `json:"tags" yaml:"tags"`
}

// ExifTagSummary is one flattened EXIF tag.
type ExifTagSummary struct {
	// IFDPath is the IFD the tag belongs to.
	IFDPath string `json:"ifd_path" yaml:"ifd_path"`
	// Name is the registered tag name.
	Name string `json:"name" yaml:"name"`
	// Value is the formatted tag value.
	Value string `json:"value" yaml:"value"`
	// TagID is the numeric tag identifier.
	TagID uint16 `json:"tag_id" yaml:"tag_id"`
}

// Marker methods binding decoded variants to ChunkData.
func (*Header) chunkData() {}
func (*TextData) chunkData() {}
func (*CompressedTextData) chunkData() {}
func (*InternationalTextData) chunkData() {}
func (*Timestamp) chunkData() {}
func (*PhysicalDims) chunkData() {}
func (*Gamma) chunkData() {}
func (*Chromaticity) chunkData() {}
func (*RenderingIntent) chunkData() {}
func (*SignificantBits) chunkData() {}
func (*BackgroundColor) chunkData() {}
func (*Transparency) chunkData() {}
func (*Palette) chunkData() {}
func (*CodePoints) chunkData() {}
func (*ExifData) chunkData() {}

// ReaderOptions configures parse behavior.
type ReaderOptions struct {
	// SkipPayloadDecode keeps framed records only and skips structured
	// payload decoding. Rewrite flows use this mode.
	SkipPayloadDecode bool `json:"skip_payload_decode,omitempty" yaml:"skip_payload_decode,omitempty"`
	// VerifyChecksums recomputes each fully framed chunk CRC during parse
	// and fails on the first mismatch. Truncated records are not checked.
	VerifyChecksums bool `json:"verify_checksums,omitempty" yaml:"verify_checksums,omitempty"`
}

// EditOptions configures file-based stream edit flow.
type EditOptions struct {
	// StripMatcherOptions control rule matching for staged Strip operations.
	StripMatcherOptions pathrules.MatcherOptions `json:"strip_matcher_options,omitzero" yaml:"strip_matcher_options,omitzero"`
	// BackupKeep controls how many backup generations are kept after successful commit.
	// 0 means remove backup, 1 keeps only `<file>.bak`, N keeps `.bak` + `.bak.1..N-1`.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty"`
}

// RewriteResult contains stream rewrite output statistics.
type RewriteResult struct {
	// WrittenChunks is the number of chunks written to the output stream.
	WrittenChunks int `json:"written_chunks" yaml:"written_chunks"`
	// BytesWritten is the total output size including the signature.
	BytesWritten int64 `json:"bytes_written" yaml:"bytes_written"`
	// Inserted is the number of chunks added by staged operations.
	Inserted int `json:"inserted,omitempty" yaml:"inserted,omitempty"`
	// Replaced is the number of chunks whose payload was replaced.
	Replaced int `json:"replaced,omitempty" yaml:"replaced,omitempty"`
	// Removed is the number of chunks dropped by staged operations.
	Removed int `json:"removed,omitempty" yaml:"removed,omitempty"`
	// Duration is the end-to-end commit core duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// applyDefaults fills zero-valued edit options with defaults.
func (opts *EditOptions) applyDefaults() {
	// Chunk type codes are case-sensitive, so the matcher default keeps
	// CaseInsensitive off and only the unknown action is rewritten.
	if opts.StripMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.StripMatcherOptions.DefaultAction = pathrules.ActionExclude
	}

	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}
}
