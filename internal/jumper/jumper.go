// Package jumper queries an external frecency directory jumper (zoxide by
// default) for ranked directory candidates.
package jumper

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/kk-code-lab/carto/internal/task"
)

// ErrNotInstalled is returned when the jumper binary cannot be found.
var ErrNotInstalled = errors.New("directory jumper not installed")

// DefaultCommand is used when no command is configured.
const DefaultCommand = "zoxide"

// Candidate is one ranked directory. Score is empty unless scores were
// requested.
type Candidate struct {
	Path  string
	Score string
}

// Result is posted for every completed search.
type Result struct {
	Generation uint64
	Query      string
	Candidates []Candidate
	Err        error
}

// Jumper runs queries against the jumper binary. Searches are single-flight:
// a new Search kills the previous subprocess.
type Jumper struct {
	argv       []string
	showScores bool
	run        func(ctx context.Context, name string, args ...string) *exec.Cmd
	slot       *task.Slot
	deliver    func(Result)
}

// New parses command with shell quoting rules and returns a jumper posting
// search results to deliver. debounce delays each search.
func New(command string, showScores bool, debounce time.Duration, deliver func(Result)) (*Jumper, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse jumper command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("parse jumper command: empty command")
	}
	return &Jumper{
		argv:       argv,
		showScores: showScores,
		run:        exec.CommandContext,
		slot:       task.NewSlot(debounce),
		deliver:    deliver,
	}, nil
}

// ShowScores reports whether candidates carry scores.
func (j *Jumper) ShowScores() bool { return j.showScores }

// Search supersedes any running search with one for query and returns its
// generation.
func (j *Jumper) Search(query string) uint64 {
	return j.slot.Schedule(func(ctx context.Context, gen uint64) {
		cands, err := j.Query(ctx, query)
		if ctx.Err() != nil {
			return
		}
		j.deliver(Result{Generation: gen, Query: query, Candidates: cands, Err: err})
	})
}

// Cancel kills any running search.
func (j *Jumper) Cancel() { j.slot.Cancel() }

// Query runs the jumper synchronously. The query is split on whitespace into
// separate terms. No output yields an empty list, not an error.
func (j *Jumper) Query(ctx context.Context, query string) ([]Candidate, error) {
	args := append([]string{}, j.argv[1:]...)
	args = append(args, "query", "--list")
	if j.showScores {
		args = append(args, "--score")
	}
	args = append(args, strings.Fields(query)...)

	var stdout, stderr bytes.Buffer
	cmd := j.run(ctx, j.argv[0], args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", j.argv[0], ErrNotInstalled)
	}
	if err != nil && stdout.Len() == 0 {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil && strings.TrimSpace(stderr.String()) == "" {
			// zoxide exits non-zero when nothing matches.
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("jumper query: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var out []Candidate
	sc := bufio.NewScanner(&stdout)
	for sc.Scan() {
		if c, ok := ParseLine(sc.Text(), j.showScores); ok {
			out = append(out, c)
		}
	}
	return out, sc.Err()
}

// Add records path as visited so it ranks higher next time.
func (j *Jumper) Add(ctx context.Context, path string) error {
	args := append(append([]string{}, j.argv[1:]...), "add", path)
	cmd := j.run(ctx, j.argv[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s: %w", j.argv[0], ErrNotInstalled)
		}
		return fmt.Errorf("jumper add: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ParseLine parses one output line. With scores the line is
// "<score> <path>", split on the first space so paths may contain spaces.
func ParseLine(line string, withScore bool) (Candidate, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Candidate{}, false
	}
	if !withScore {
		return Candidate{Path: line}, true
	}
	score, path, ok := strings.Cut(line, " ")
	if !ok {
		return Candidate{Path: line}, true
	}
	return Candidate{Path: path, Score: score}, true
}
