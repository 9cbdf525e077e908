// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pngmeta

package pngmeta

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/woozymasta/pathrules"
)

// Editor accumulates stream edit operations and applies them on Commit.
type Editor struct {
	path string
	ops  []editOperation
	opts EditOptions
}

// editOperation stores one staged editor operation.
type editOperation struct {
	code    string
	keyword string
	text    string
	payload []byte
	codes   []string
	rules   []pathrules.Rule
	kind    editOperationKind
}

// editOperationKind identifies staged edit action type.
type editOperationKind uint8

const (
	// editOperationSetChunk installs one ancillary chunk payload.
	editOperationSetChunk editOperationKind = iota + 1
	// editOperationSetText installs one tEXt keyword/text pair.
	editOperationSetText
	// editOperationRemove removes ancillary chunks by exact type code.
	editOperationRemove
	// editOperationStrip removes ancillary chunks selected by pattern rules.
	editOperationStrip
)

// OpenEditor creates staged editor for file-based stream rewrite workflow.
func OpenEditor(path string, opts EditOptions) (*Editor, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, ErrEmptyPath
	}

	opts.applyDefaults()

	return &Editor{
		path: trimmedPath,
		opts: opts,
		ops:  make([]editOperation, 0, 4),
	}, nil
}

// SetChunk schedules installing payload for one ancillary chunk type.
// The payload is copied at staging time.
func (e *Editor) SetChunk(code string, payload []byte) error {
	if e == nil {
		return ErrNilFile
	}

	if err := validateEditableType(code); err != nil {
		return err
	}

	staged := make([]byte, len(payload))
	copy(staged, payload)

	e.ops = append(e.ops, editOperation{
		kind:    editOperationSetChunk,
		code:    code,
		payload: staged,
	})

	return nil
}

// SetText schedules installing one tEXt chunk. An existing chunk with the
// same keyword is replaced, otherwise a new chunk is inserted before image
// data. Keyword rules are validated at staging time.
func (e *Editor) SetText(keyword string, text string) error {
	if e == nil {
		return ErrNilFile
	}

	if _, err := buildTextPayload(keyword, text); err != nil {
		return err
	}

	e.ops = append(e.ops, editOperation{
		kind:    editOperationSetText,
		keyword: keyword,
		text:    text,
	})

	return nil
}

// Remove schedules removal of ancillary chunks by exact type code.
// Codes without a matching chunk are silently skipped during commit.
func (e *Editor) Remove(codes ...string) error {
	if e == nil {
		return ErrNilFile
	}

	if len(codes) == 0 {
		return nil
	}

	for _, code := range codes {
		if err := validateEditableType(code); err != nil {
			return err
		}
	}

	e.ops = append(e.ops, editOperation{
		kind:  editOperationRemove,
		codes: append([]string(nil), codes...),
	})

	return nil
}

// Strip schedules rule-based removal of ancillary chunks. Rules are compiled
// at staging time so malformed patterns fail before Commit moves files.
func (e *Editor) Strip(rules ...pathrules.Rule) error {
	if e == nil {
		return ErrNilFile
	}

	if len(rules) == 0 {
		return nil
	}

	if _, err := newStripMatcher(rules, e.opts.StripMatcherOptions); err != nil {
		return err
	}

	e.ops = append(e.ops, editOperation{
		kind:  editOperationStrip,
		rules: append([]pathrules.Rule(nil), rules...),
	})

	return nil
}

// Commit applies all staged operations in one rewrite transaction.
func (e *Editor) Commit(ctx context.Context) (*RewriteResult, error) {
	if e == nil {
		return nil, ErrNilFile
	}

	if ctx == nil {
		ctx = context.Background()
	}

	backupPath := e.path + ".bak"
	if err := prepareBackupSlot(backupPath, e.opts.BackupKeep); err != nil {
		return nil, err
	}

	if err := os.Rename(e.path, backupPath); err != nil {
		return nil, fmt.Errorf("move file to backup: %w", err)
	}

	res, err := e.commitFromBackup(ctx, backupPath)
	if err != nil {
		rollbackErr := rollbackFromBackup(e.path, backupPath)
		if rollbackErr != nil {
			return nil, fmt.Errorf("%v (rollback failed: %v)", err, rollbackErr)
		}

		return nil, err
	}

	if e.opts.BackupKeep == 0 {
		if err := removeIfExists(backupPath); err != nil {
			return nil, fmt.Errorf("remove backup: %w", err)
		}
	}

	return res, nil
}

// commitFromBackup writes the edited stream from backup source.
func (e *Editor) commitFromBackup(ctx context.Context, backupPath string) (*RewriteResult, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	src, err := ParseWithOptions(data, ReaderOptions{SkipPayloadDecode: true})
	if err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}

	start := time.Now()
	plan, res, err := buildEditPlan(src.chunks, e.ops, e.opts)
	if err != nil {
		return nil, err
	}

	dstFile, err := os.OpenFile(e.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create destination file: %w", err)
	}

	written, writeErr := writeStream(ctx, dstFile, plan)
	if writeErr != nil {
		_ = dstFile.Close()
		return nil, writeErr
	}

	if err := dstFile.Sync(); err != nil {
		_ = dstFile.Close()
		return nil, fmt.Errorf("sync destination file: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return nil, fmt.Errorf("close destination file: %w", err)
	}

	res.WrittenChunks = len(plan)
	res.BytesWritten = written
	res.Duration = time.Since(start)

	return res, nil
}

// buildEditPlan applies staged operations in order to source records and
// builds the final write plan.
func buildEditPlan(chunks []Chunk, ops []editOperation, opts EditOptions) ([]rewriteChunk, *RewriteResult, error) {
	plan := buildRewritePlan(chunks)
	res := &RewriteResult{}

	for _, op := range ops {
		switch op.kind {
		case editOperationSetChunk:
			next, replaced, err := applySetChunk(plan, op.code, op.payload)
			if err != nil {
				return nil, nil, err
			}
			plan = next
			countUpsert(res, replaced)
		case editOperationSetText:
			payload, err := buildTextPayload(op.keyword, op.text)
			if err != nil {
				return nil, nil, err
			}
			next, replaced, err := applySetText(plan, op.keyword, payload)
			if err != nil {
				return nil, nil, err
			}
			plan = next
			countUpsert(res, replaced)
		case editOperationRemove:
			next, removed := applyRemove(plan, op.codes)
			plan = next
			res.Removed += removed
		case editOperationStrip:
			matcher, err := newStripMatcher(op.rules, opts.StripMatcherOptions)
			if err != nil {
				return nil, nil, err
			}
			next, removed := applyStrip(plan, matcher)
			plan = next
			res.Removed += removed
		default:
			return nil, nil, fmt.Errorf("unknown edit operation kind: %d", op.kind)
		}
	}

	return plan, res, nil
}

// countUpsert records one insert-or-replace outcome.
func countUpsert(res *RewriteResult, replaced bool) {
	if replaced {
		res.Replaced++
		return
	}

	res.Inserted++
}

// prepareBackupSlot rotates/removes existing backup generations before new commit.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	switch keep {
	case 0, 1:
		return removeIfExists(backupPath)
	default:
		oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
		if err := removeIfExists(oldest); err != nil {
			return err
		}

		for i := keep - 2; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", backupPath, i)
			to := fmt.Sprintf("%s.%d", backupPath, i+1)
			if err := renameIfExists(from, to); err != nil {
				return err
			}
		}

		return renameIfExists(backupPath, backupPath+".1")
	}
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// rollbackFromBackup restores backup on failed commit.
func rollbackFromBackup(path string, backupPath string) error {
	_ = os.Remove(path)

	if err := os.Rename(backupPath, path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return nil
}
