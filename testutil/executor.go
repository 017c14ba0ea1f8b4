package testutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// fakeScript replays a canned response through a real process so callers
// exercise the same exec.Cmd plumbing as production.
const fakeScript = `printf '%s' "$FAKE_STDOUT"; printf '%s' "$FAKE_STDERR" >&2; exit "$FAKE_EXIT"`

// Response is the canned result of a faked command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Call records one command created through the FakeExecutor.
type Call struct {
	Name string
	Args []string
}

// Line renders the call as "name arg1 arg2".
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type rule struct {
	prefix    string
	responses []Response
}

// FakeExecutor implements command.Executor by matching the rendered command
// line against registered prefixes. The longest matching prefix wins. When a
// rule has several responses they are consumed in order and the last one repeats.
// Unmatched commands exit 127.
type FakeExecutor struct {
	mu      sync.Mutex
	rules   []*rule
	calls   []Call
	Missing map[string]bool
}

// NewFakeExecutor creates an executor with no rules.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{Missing: make(map[string]bool)}
}

// On registers responses for every command line starting with prefix.
func (f *FakeExecutor) On(prefix string, responses ...Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(responses) == 0 {
		responses = []Response{{}}
	}
	f.rules = append(f.rules, &rule{prefix: prefix, responses: responses})
	return f
}

// Calls returns a copy of the recorded calls.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallLines returns the recorded calls rendered as command lines.
func (f *FakeExecutor) CallLines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.Line())
	}
	return lines
}

// Command implements command.Executor.
func (f *FakeExecutor) Command(name string, args ...string) *exec.Cmd {
	return f.CommandContext(context.Background(), name, args...)
}

// CommandContext implements command.Executor.
func (f *FakeExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	resp := f.respond(call)

	cmd := exec.CommandContext(ctx, "sh", "-c", fakeScript)
	cmd.Env = append(os.Environ(),
		"FAKE_STDOUT="+resp.Stdout,
		"FAKE_STDERR="+resp.Stderr,
		"FAKE_EXIT="+strconv.Itoa(resp.ExitCode),
	)
	return cmd
}

// LookPath implements command.Executor.
func (f *FakeExecutor) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

func (f *FakeExecutor) respond(call Call) Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
	line := call.Line()

	var best *rule
	for _, r := range f.rules {
		if strings.HasPrefix(line, r.prefix) && (best == nil || len(r.prefix) > len(best.prefix)) {
			best = r
		}
	}
	if best == nil {
		return Response{Stderr: "unexpected command: " + line, ExitCode: 127}
	}

	resp := best.responses[0]
	if len(best.responses) > 1 {
		best.responses = best.responses[1:]
	}
	return resp
}
