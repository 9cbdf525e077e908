// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// stripMatcher holds compiled rules for ancillary chunk strip selection.
type stripMatcher struct {
	matcher *pathrules.Matcher
}

// newStripMatcher compiles strip rules. Empty rule set disables stripping.
func newStripMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*stripMatcher, error) {
	rules = normalizeStripRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	if opts.DefaultAction == pathrules.ActionUnknown {
		opts.DefaultAction = pathrules.ActionExclude
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidStripPattern, err)
	}

	return &stripMatcher{matcher: matcher}, nil
}

// normalizeStripRules trims rule patterns and drops empty patterns.
func normalizeStripRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether an ancillary type code is selected by the rules.
// Critical type codes never match, whatever the rules say.
func (m *stripMatcher) Match(code string) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	if IsCriticalType(code) {
		return false
	}

	return m.matcher.Included(code, false)
}

// applyStrip drops planned chunks selected by the matcher.
func applyStrip(plan []rewriteChunk, matcher *stripMatcher) ([]rewriteChunk, int) {
	if matcher == nil {
		return plan, 0
	}

	retained := plan[:0]
	removed := 0
	for _, c := range plan {
		if matcher.Match(c.code) {
			removed++
			continue
		}

		retained = append(retained, c)
	}

	return retained, removed
}

// applyRemove drops planned chunks whose code matches the removal list.
func applyRemove(plan []rewriteChunk, codes []string) ([]rewriteChunk, int) {
	retained := plan[:0]
	removed := 0
	for _, c := range plan {
		drop := false
		for _, code := range codes {
			if c.code == code {
				drop = true
				break
			}
		}

		if drop {
			removed++
			continue
		}

		retained = append(retained, c)
	}

	return retained, removed
}

// StripChunks returns a new stream buffer without the ancillary chunks
// selected by the ordered rules. Critical chunks always survive.
func (f *File) StripChunks(rules []pathrules.Rule, opts pathrules.MatcherOptions) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFile
	}

	matcher, err := newStripMatcher(rules, opts)
	if err != nil {
		return nil, err
	}

	plan, _ := applyStrip(buildRewritePlan(f.chunks), matcher)
	return buildStream(plan, f.size)
}
