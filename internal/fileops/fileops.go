// Package fileops runs the filesystem mutations behind paste, delete, rename
// and create. Batch operations run off the event loop, report progress per
// item and keep going after individual failures.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrCancelled marks the items left untouched after the user cancelled.
	ErrCancelled = errors.New("operation cancelled")
	// ErrExists is returned when a rename or create target already exists.
	ErrExists = errors.New("target already exists")
	// ErrContainsSource refuses to overwrite a folder the source lives in.
	ErrContainsSource = errors.New("cannot overwrite a folder containing the source")
	// ErrInvalidName rejects empty names and names with path separators.
	ErrInvalidName = errors.New("invalid name")
)

// Decision answers a name conflict.
type Decision int

const (
	Overwrite Decision = iota
	Rename
	Skip
	Cancel
)

func (d Decision) String() string {
	switch d {
	case Overwrite:
		return "overwrite"
	case Rename:
		return "rename"
	case Skip:
		return "skip"
	}
	return "cancel"
}

// Resolution is the user's answer to a conflict prompt. ApplyToAll reuses
// the decision for the rest of the batch without asking again.
type Resolution struct {
	Decision   Decision
	ApplyToAll bool
}

// ConflictResolver decides what to do when dst already exists. It may block
// while the user answers a prompt.
type ConflictResolver func(ctx context.Context, src, dst string) Resolution

// TrashFallback asks whether path, which could not be trashed, should be
// deleted permanently instead.
type TrashFallback func(ctx context.Context, path string, trashErr error) (permanent, applyToAll bool)

// Progress is reported after every item of a batch.
type Progress struct {
	Op    string
	Path  string
	Done  int
	Total int
	Err   error
}

// ItemResult is the outcome for one source path.
type ItemResult struct {
	Source  string
	Dest    string
	Skipped bool
	Err     error
}

// Report summarises a batch.
type Report struct {
	Op        string
	Results   []ItemResult
	Cancelled bool
}

// Failures returns the results that carry an error other than cancellation.
func (r Report) Failures() []ItemResult {
	var out []ItemResult
	for _, res := range r.Results {
		if res.Err != nil && !errors.Is(res.Err, ErrCancelled) {
			out = append(out, res)
		}
	}
	return out
}

// Succeeded returns the source paths that were processed without error or
// skip.
func (r Report) Succeeded() []string {
	var out []string
	for _, res := range r.Results {
		if res.Err == nil && !res.Skipped {
			out = append(out, res.Source)
		}
	}
	return out
}

// Executor carries the collaborators a batch needs. The zero value deletes
// permanently and fails conflicting pastes.
type Executor struct {
	UseTrash bool
	Resolve  ConflictResolver
	Fallback TrashFallback
	Progress func(Progress)
	// Trash defaults to MoveToTrash.
	Trash func(path string) error
}

func (e *Executor) report(p Progress) {
	if e.Progress != nil {
		e.Progress(p)
	}
}

// RenameItem renames path to newName within its directory and returns the
// new path.
func RenameItem(path, newName string) (string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == "." || newName == ".." || strings.ContainsAny(newName, `/\`) {
		return "", fmt.Errorf("rename %s: %w", path, ErrInvalidName)
	}
	target := filepath.Join(filepath.Dir(path), newName)
	if target == path {
		return path, nil
	}
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("rename %s: %w", target, ErrExists)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return target, nil
}

// Create makes a new item below dir. A spec ending in "/" creates a
// directory; otherwise an empty file is created. Missing parents are created
// in both cases. Backslashes are accepted as separators.
func Create(dir, spec string) (string, error) {
	spec = strings.ReplaceAll(strings.TrimSpace(spec), `\`, "/")
	if spec == "" || spec == "/" {
		return "", fmt.Errorf("create: %w", ErrInvalidName)
	}
	wantDir := strings.HasSuffix(spec, "/")
	target := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(spec, "/")))
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("create %s: %w", target, ErrExists)
	}
	if wantDir {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", target, err)
		}
		return target, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}
	return target, f.Close()
}
