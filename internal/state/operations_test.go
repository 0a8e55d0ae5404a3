package state

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kk-code-lab/carto/internal/jumper"
)

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestCutPasteMovesAndClearsLedger(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "dst")
	writeFile(t, filepath.Join(root, "src", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "src", "b.txt"), "b")
	h := newHarness(t, filepath.Join(root, "src"))

	h.do(ToggleAllAction{})
	h.do(CutAction{})
	if h.s.Clipboard.Len() != 2 {
		t.Fatalf("ledger has %d items", h.s.Clipboard.Len())
	}
	if h.s.Notice != "Cut 2 item(s) to the clipboard." {
		t.Fatalf("notice = %q", h.s.Notice)
	}

	h.do(GoToPathAction{Path: filepath.Join(root, "dst")})
	h.do(PasteAction{})
	if !h.s.Ops.Running {
		t.Fatal("expected a running batch")
	}
	h.pumpUntil("paste to finish", func() bool { return !h.s.Ops.Running })

	for _, n := range []string{"a.txt", "b.txt"} {
		if !exists(filepath.Join(root, "dst", n)) || exists(filepath.Join(root, "src", n)) {
			t.Fatalf("%s was not moved", n)
		}
	}
	if h.s.Clipboard.Len() != 0 {
		t.Fatalf("moved entries left in ledger: %+v", h.s.Clipboard.Items())
	}
	if h.current() != "a.txt" {
		t.Fatalf("cursor on %q after paste", h.current())
	}
}

func TestCopyPasteKeepsLedgerEntries(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "dst")
	writeFile(t, filepath.Join(root, "f.txt"), "f")
	h := newHarness(t, root)
	h.do(NavigateDownAction{})
	h.do(CopyAction{})
	h.do(GoToPathAction{Path: filepath.Join(root, "dst")})
	h.do(PasteAction{})
	h.pumpUntil("paste to finish", func() bool { return !h.s.Ops.Running })

	if !exists(filepath.Join(root, "f.txt")) || !exists(filepath.Join(root, "dst", "f.txt")) {
		t.Fatal("copy did not keep the source and create the destination")
	}
	if h.s.Clipboard.Len() != 1 {
		t.Fatalf("copy entry should stay in the ledger, have %d", h.s.Clipboard.Len())
	}
}

func TestPasteConflictPromptRename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	h := newHarness(t, root)

	h.do(CopyAction{})
	h.do(PasteAction{})
	h.pumpUntil("conflict prompt", func() bool { return h.s.Prompt != nil })
	if !strings.Contains(h.s.Prompt.Message, "a.txt already exists") {
		t.Fatalf("prompt = %q", h.s.Prompt.Message)
	}

	h.do(PromptAnswerAction{Key: 'x'})
	if h.s.Prompt == nil {
		t.Fatal("unaccepted key must not answer the prompt")
	}
	h.do(PromptAnswerAction{Key: 'r'})
	h.pumpUntil("paste to finish", func() bool { return !h.s.Ops.Running })

	if !exists(filepath.Join(root, "a (1).txt")) {
		t.Fatal("expected renamed copy")
	}
	if h.current() != "a (1).txt" {
		t.Fatalf("cursor on %q", h.current())
	}
}

func TestPasteConflictDismissCancels(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	h := newHarness(t, root)

	h.do(CopyAction{})
	h.do(PasteAction{})
	h.pumpUntil("conflict prompt", func() bool { return h.s.Prompt != nil })
	h.do(PromptDismissAction{})
	h.pumpUntil("paste to finish", func() bool { return !h.s.Ops.Running })

	if exists(filepath.Join(root, "a (1).txt")) {
		t.Fatal("dismissed prompt must not paste")
	}
	if len(h.errs) != 0 || h.s.Notice != "Paste cancelled." {
		t.Fatalf("errs=%v notice=%q", h.errs, h.s.Notice)
	}
}

func TestPermanentDelete(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	h := newHarness(t, root)
	h.s.UseTrash = false

	h.do(CopyAction{})
	h.do(DeleteAction{Permanent: true})
	h.pumpUntil("delete to finish", func() bool { return !h.s.Ops.Running })

	if exists(filepath.Join(root, "a.txt")) {
		t.Fatal("a.txt still exists")
	}
	if h.s.Clipboard.Len() != 0 {
		t.Fatal("deleted path must leave the ledger")
	}
	if h.current() != "b.txt" {
		t.Fatalf("cursor on %q", h.current())
	}
	if h.s.Notice != "Delete finished: 1 item(s)." {
		t.Fatalf("notice = %q", h.s.Notice)
	}
}

func TestOnlyOneBatchAtATime(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	h := newHarness(t, root)

	h.do(CopyAction{})
	h.do(PasteAction{})
	h.do(DeleteAction{Permanent: true})
	if h.s.Notice != "Another file operation is still running." {
		t.Fatalf("notice = %q", h.s.Notice)
	}
	h.pumpUntil("conflict prompt", func() bool { return h.s.Prompt != nil })
	h.do(PromptAnswerAction{Key: 's'})
	h.pumpUntil("paste to finish", func() bool { return !h.s.Ops.Running })
	if !exists(filepath.Join(root, "a.txt")) {
		t.Fatal("second batch must not have run")
	}
}

func TestRenameMovesCursorToNewName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "m.txt"), "m")
	h := newHarness(t, root)

	h.do(InputStartAction{Mode: InputRename})
	if h.s.Input != InputRename || h.s.InputText != "a.txt" {
		t.Fatalf("input = %v %q", h.s.Input, h.s.InputText)
	}
	h.s.InputText = "z.txt"
	h.do(InputSubmitAction{})

	if !exists(filepath.Join(root, "z.txt")) || exists(filepath.Join(root, "a.txt")) {
		t.Fatal("rename did not happen")
	}
	if h.current() != "z.txt" {
		t.Fatalf("cursor on %q", h.current())
	}
}

func TestRenameNeedsSingleSelection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	h := newHarness(t, root)

	h.do(ToggleAllAction{})
	h.do(InputStartAction{Mode: InputRename})
	if h.s.Input != InputNone {
		t.Fatal("rename must not start with two items selected")
	}
}

func TestCreateNestedHighlightsTopComponent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.txt"), "z")
	h := newHarness(t, root)

	h.do(InputStartAction{Mode: InputCreate})
	for _, r := range "new/deep/file.txt" {
		h.do(InputCharAction{Char: r})
	}
	h.do(InputSubmitAction{})

	if !exists(filepath.Join(root, "new", "deep", "file.txt")) {
		t.Fatal("nested file not created")
	}
	if h.current() != "new" {
		t.Fatalf("cursor on %q", h.current())
	}

	h.do(InputStartAction{Mode: InputCreate})
	h.s.InputText = "z.txt"
	if _, err := h.r.Reduce(h.s, InputSubmitAction{}); err == nil {
		t.Fatal("expected an error creating an existing file")
	}
}

func TestClipboardPaneSelection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	h := newHarness(t, root)

	h.do(ToggleAllAction{})
	h.do(CopyAction{})
	h.do(FocusAction{Pane: PaneClipboard})
	h.do(ToggleAllAction{}) // everything selected, so this clears it
	if _, err := h.r.Reduce(h.s, ClipboardRemoveSelectedAction{}); err == nil {
		t.Fatal("expected an error with nothing selected")
	}
	h.do(ToggleSelectAction{})
	h.do(ClipboardRemoveSelectedAction{})
	if h.s.Clipboard.Len() != 1 || filepath.Base(h.s.Clipboard.Items()[0].Path) != "b.txt" {
		t.Fatalf("ledger = %+v", h.s.Clipboard.Items())
	}
}

func TestJumperWithoutCommand(t *testing.T) {
	h := newHarness(t, t.TempDir())
	_, err := h.r.Reduce(h.s, InputStartAction{Mode: InputJumper})
	if err != jumper.ErrNotInstalled {
		t.Fatalf("err = %v", err)
	}
	if h.s.Input != InputNone {
		t.Fatal("jumper input must not open")
	}
}

func TestPromptAnswersOnce(t *testing.T) {
	p := NewPrompt("Replace?", 'n', PromptChoice{Key: 'y', Label: "yes"}, PromptChoice{Key: 'n', Label: "no"}, PromptChoice{Key: 'Y', Label: "Yes to all"})
	if got := p.Hint(); got != "[y]es [n]o [Y]es to all" {
		t.Fatalf("Hint = %q", got)
	}
	if p.Answer('q') {
		t.Fatal("q is not a choice")
	}
	if !p.Answer('Y') {
		t.Fatal("Y should be accepted")
	}
	if p.Answer('y') {
		t.Fatal("a second answer must be refused")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if key, ok := p.Wait(ctx); !ok || key != 'Y' {
		t.Fatalf("Wait = %q %v", key, ok)
	}
}

func TestPromptWaitHonoursContext(t *testing.T) {
	p := NewPrompt("?", 'n', PromptChoice{Key: 'n'})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := p.Wait(ctx); ok {
		t.Fatal("expected Wait to give up")
	}
	if got := p.Hint(); got != "[n]" {
		t.Fatalf("Hint = %q", got)
	}
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		w, h        int
		sidebar     int
		showPreview bool
	}{
		{160, 40, 28, true},
		{120, 30, 24, true},
		{100, 30, 20, true},
		{80, 24, 16, true},
		{79, 24, 0, false},
		{40, 10, 0, false},
	}
	for _, tt := range tests {
		l := ComputeLayout(tt.w, tt.h)
		if l.SidebarWidth != tt.sidebar || l.ShowPreview != tt.showPreview {
			t.Fatalf("ComputeLayout(%d,%d) = %+v", tt.w, tt.h, l)
		}
		if l.BodyHeight != tt.h-2 {
			t.Fatalf("BodyHeight = %d", l.BodyHeight)
		}
		if l.ShowPreview {
			if l.ListWidth < minListWidth || l.PreviewWidth < minPreviewWidth {
				t.Fatalf("panes too narrow: %+v", l)
			}
			if l.PreviewStart+l.PreviewWidth != tt.w {
				t.Fatalf("preview does not reach the edge: %+v", l)
			}
			if l.MetadataHeight > l.BodyHeight/2 {
				t.Fatalf("metadata too tall: %+v", l)
			}
		}
	}
}
