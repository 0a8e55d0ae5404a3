package fileops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Delete removes paths, through the trash when UseTrash is set and permanent
// is false. A failed trash move asks Fallback before deleting permanently.
func (e *Executor) Delete(ctx context.Context, paths []string, permanent bool) Report {
	rep := Report{Op: "delete"}
	trash := e.Trash
	if trash == nil {
		trash = MoveToTrash
	}
	var stickyFallback *bool

	for i, p := range paths {
		res := ItemResult{Source: p}
		if rep.Cancelled || ctx.Err() != nil {
			rep.Cancelled = true
			res.Err = ErrCancelled
			rep.Results = append(rep.Results, res)
			continue
		}

		if _, err := os.Lstat(p); err != nil {
			res.Err = fmt.Errorf("delete %s: %w", p, err)
		} else if e.UseTrash && !permanent {
			if err := trash(p); err != nil {
				slog.Warn("trash failed", "path", p, "err", err)
				res.Err = e.fallback(ctx, p, err, &stickyFallback)
			}
		} else if err := os.RemoveAll(p); err != nil {
			res.Err = fmt.Errorf("delete %s: %w", p, err)
		}

		rep.Results = append(rep.Results, res)
		e.report(Progress{Op: rep.Op, Path: p, Done: i + 1, Total: len(paths), Err: res.Err})
	}
	return rep
}

func (e *Executor) fallback(ctx context.Context, path string, trashErr error, sticky **bool) error {
	var permanent bool
	switch {
	case *sticky != nil:
		permanent = **sticky
	case e.Fallback != nil:
		var all bool
		permanent, all = e.Fallback(ctx, path, trashErr)
		if all {
			*sticky = &permanent
		}
	}
	if !permanent {
		return fmt.Errorf("trash %s: %w", path, trashErr)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
