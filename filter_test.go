// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"bytes"
	"errors"
	"testing"

	"github.com/woozymasta/pathrules"
)

// stripRules builds include rules from raw patterns for concise test setup.
func stripRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}

	return rules
}

func TestStripChunks_RemovesTextChunks(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.StripChunks(stripRules("tEXt", "zTXt", "iTXt"), pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("StripChunks: %v", err)
	}

	again, err := ParseWithOptions(out, ReaderOptions{VerifyChecksums: true})
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}

	wantOrder := []string{TypeHeader, TypeGamma, TypeTime, TypeImageData, TypeEnd}
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

func TestStripChunks_NeverRemovesCriticalChunks(t *testing.T) {
	t.Parallel()

	stream := append([]byte(nil), pngSignature[:]...)
	stream = appendChunk(stream, TypeHeader, headerPayload(8, 8, 8, ColorIndexed))
	stream = appendChunk(stream, TypePalette, []byte{0xff, 0x00, 0x00})
	stream = appendChunk(stream, TypeTime, []byte{0x07, 0xea, 8, 25, 10, 30, 0})
	stream = appendChunk(stream, TypeImageData, []byte{0x78, 0x9c})
	stream = appendChunk(stream, TypeEnd, nil)

	f, err := Parse(stream)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.StripChunks(stripRules("*"), pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("StripChunks: %v", err)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}

	wantOrder := []string{TypeHeader, TypePalette, TypeImageData, TypeEnd}
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

func TestStripChunks_ExcludeRuleRetains(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Include everything starting with t, then carve tIME back out.
	out, err := f.StripChunks([]pathrules.Rule{
		{Action: pathrules.ActionInclude, Pattern: "t*"},
		{Action: pathrules.ActionExclude, Pattern: "tIME"},
	}, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("StripChunks: %v", err)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}

	if _, ok := again.ChunkByType(TypeText); ok {
		t.Fatal("tEXt must be stripped by the include rule")
	}
	if _, ok := again.ChunkByType(TypeTime); !ok {
		t.Fatal("tIME must be retained by the exclude rule")
	}
}

func TestStripChunks_EmptyRulesKeepEverything(t *testing.T) {
	t.Parallel()

	data := metaPNG()
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.StripChunks(nil, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("StripChunks: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("empty rule set must keep the stream intact")
	}

	blank, err := f.StripChunks([]pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "   "}}, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("StripChunks blank pattern: %v", err)
	}
	if !bytes.Equal(blank, data) {
		t.Fatal("blank patterns must be dropped before matching")
	}
}

func TestStripChunks_CaseSensitiveByDefault(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.StripChunks(stripRules("TEXT"), pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("StripChunks: %v", err)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}
	if _, ok := again.ChunkByType(TypeText); !ok {
		t.Fatal("type codes are case-sensitive, TEXT must not match tEXt")
	}

	folded, err := f.StripChunks(stripRules("TEXT"), pathrules.MatcherOptions{CaseInsensitive: true})
	if err != nil {
		t.Fatalf("StripChunks case-insensitive: %v", err)
	}
	again, err = Parse(folded)
	if err != nil {
		t.Fatalf("Parse rewritten: %v", err)
	}
	if _, ok := again.ChunkByType(TypeText); ok {
		t.Fatal("case-insensitive matching must remove tEXt")
	}
}

func TestStripChunks_InvalidRule(t *testing.T) {
	t.Parallel()

	f, err := Parse(metaPNG())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	_, err = f.StripChunks([]pathrules.Rule{
		{Action: pathrules.ActionUnknown, Pattern: "tEXt"},
	}, pathrules.MatcherOptions{})
	if !errors.Is(err, ErrInvalidStripPattern) {
		t.Fatalf("expected ErrInvalidStripPattern, got %v", err)
	}
}

func TestApplyRemove(t *testing.T) {
	t.Parallel()

	plan := []rewriteChunk{
		{code: TypeHeader},
		{code: TypeTime},
		{code: TypeText},
		{code: TypeText},
		{code: TypeImageData},
		{code: TypeEnd},
	}

	next, removed := applyRemove(plan, []string{TypeText, TypeExif})
	if removed != 2 {
		t.Fatalf("removed=%d, want 2", removed)
	}

	wantOrder := []string{TypeHeader, TypeTime, TypeImageData, TypeEnd}
	if len(next) != len(wantOrder) {
		t.Fatalf("len(plan)=%d, want %d", len(next), len(wantOrder))
	}
	for i, want := range wantOrder {
		if next[i].code != want {
			t.Fatalf("plan[%d]=%q, want %q", i, next[i].code, want)
		}
	}
}

func TestApplyStrip_NilMatcher(t *testing.T) {
	t.Parallel()

	plan := []rewriteChunk{{code: TypeHeader}, {code: TypeText}}
	next, removed := applyStrip(plan, nil)
	if removed != 0 || len(next) != len(plan) {
		t.Fatalf("nil matcher must be a no-op, removed=%d len=%d", removed, len(next))
	}
}
