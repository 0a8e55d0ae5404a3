package fileops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kk-code-lab/carto/internal/clipboard"
)

// Paste copies or moves the ledger items into destDir.
func (e *Executor) Paste(ctx context.Context, items []clipboard.Item, destDir string) Report {
	rep := Report{Op: "paste"}
	var sticky *Decision

	for i, it := range items {
		res := ItemResult{Source: it.Path, Dest: filepath.Join(destDir, filepath.Base(it.Path))}
		if rep.Cancelled || ctx.Err() != nil {
			rep.Cancelled = true
			res.Err = ErrCancelled
			rep.Results = append(rep.Results, res)
			continue
		}

		res = e.pasteOne(ctx, it, res, &sticky)
		if errors.Is(res.Err, ErrCancelled) {
			rep.Cancelled = true
		}
		rep.Results = append(rep.Results, res)
		e.report(Progress{Op: rep.Op, Path: it.Path, Done: i + 1, Total: len(items), Err: res.Err})
	}
	return rep
}

func (e *Executor) pasteOne(ctx context.Context, it clipboard.Item, res ItemResult, sticky **Decision) ItemResult {
	src := it.Path
	if _, err := os.Lstat(src); err != nil {
		res.Err = fmt.Errorf("paste %s: %w", src, err)
		return res
	}
	if isWithin(res.Dest, src) && res.Dest != src {
		res.Err = fmt.Errorf("paste %s: cannot paste a folder into itself", src)
		return res
	}
	if it.Op == clipboard.Cut && res.Dest == src {
		res.Skipped = true
		return res
	}

	if _, err := os.Lstat(res.Dest); err == nil {
		var d Decision
		switch {
		case *sticky != nil:
			d = **sticky
		case e.Resolve != nil:
			r := e.Resolve(ctx, src, res.Dest)
			d = r.Decision
			if r.ApplyToAll {
				*sticky = &d
			}
		default:
			res.Err = fmt.Errorf("paste %s: %w", res.Dest, ErrExists)
			return res
		}

		switch d {
		case Cancel:
			res.Err = ErrCancelled
			return res
		case Skip:
			res.Skipped = true
			return res
		case Rename:
			res.Dest = uniqueName(res.Dest)
		case Overwrite:
			if res.Dest == src {
				// Overwriting a file with itself is a no-op.
				return res
			}
			if isWithin(src, res.Dest) {
				res.Err = fmt.Errorf("overwrite %s: %w", res.Dest, ErrContainsSource)
				return res
			}
			if err := os.RemoveAll(res.Dest); err != nil {
				res.Err = fmt.Errorf("overwrite %s: %w", res.Dest, err)
				return res
			}
		}
	}

	var err error
	if it.Op == clipboard.Cut {
		err = move(ctx, src, res.Dest)
	} else {
		err = copyTree(ctx, src, res.Dest)
	}
	if err != nil {
		res.Err = fmt.Errorf("%s %s: %w", it.Op, src, err)
	}
	return res
}

// uniqueName returns path with " (n)" inserted before the extension, for
// the smallest n that does not exist yet.
func uniqueName(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == base {
		stem, ext = base, ""
	}
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
	}
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func move(ctx context.Context, src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyTree(ctx, src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// copyTree copies src to dst, recreating symlinks rather than following
// them. ctx is checked before every entry.
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
