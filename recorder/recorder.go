// Package recorder collects predicate outcomes emitted by the verification
// tree, each tagged with a breadcrumb context, a stable name, and a
// human-readable title.
package recorder

import (
	"fmt"
	"strings"
)

// Entry is one recorded predicate outcome.
type Entry struct {
	OK      bool
	Context []string
	Name    string
	Title   string
}

// ContextPath joins the breadcrumb with " / ", the form used in audit
// trails and canonical fixture expectations.
func (e Entry) ContextPath() string {
	return strings.Join(e.Context, " / ")
}

func (e Entry) String() string {
	status := "FAIL:"
	if e.OK {
		status = "OK: "
	}
	return fmt.Sprintf("%s %s | %s: %s", status, e.ContextPath(), e.Name, e.Title)
}

// Recorder is the verification tree's single mutable collaborator: record
// one predicate outcome. The aggregate failure flag is sticky; once any
// call records a failure, Failed never reports false again.
type Recorder interface {
	Record(ok bool, context []string, name, title string)
	Failed() bool
}

// CLIRecorder prints each predicate outcome to an io.Writer as it is
// recorded rather than buffering the whole trail.
type CLIRecorder struct {
	out    writer
	failed bool
}

type writer interface {
	Write(p []byte) (int, error)
}

// NewCLIRecorder builds a recorder that writes one line per predicate to w.
func NewCLIRecorder(w writer) *CLIRecorder {
	return &CLIRecorder{out: w}
}

// Record writes one line and updates the sticky failure flag.
func (r *CLIRecorder) Record(ok bool, context []string, name, title string) {
	if !ok {
		r.failed = true
	}
	fmt.Fprintln(r.out, Entry{OK: ok, Context: context, Name: name, Title: title}.String())
}

// Failed reports whether any predicate has failed so far.
func (r *CLIRecorder) Failed() bool { return r.failed }

// CollectingRecorder appends every recorded predicate, in order, to an
// in-memory sequence; used by tests and by the --report/--json CLI paths
// that need the full trail rather than a line-oriented stream.
type CollectingRecorder struct {
	Entries []Entry
	failed  bool
}

// NewCollectingRecorder builds an empty collecting recorder.
func NewCollectingRecorder() *CollectingRecorder {
	return &CollectingRecorder{}
}

// Record appends the outcome and updates the sticky failure flag.
func (r *CollectingRecorder) Record(ok bool, context []string, name, title string) {
	if !ok {
		r.failed = true
	}
	cp := make([]string, len(context))
	copy(cp, context)
	r.Entries = append(r.Entries, Entry{OK: ok, Context: cp, Name: name, Title: title})
}

// Failed reports whether any predicate has failed so far.
func (r *CollectingRecorder) Failed() bool { return r.failed }

// Failures returns only the failing entries, in recorded order.
func (r *CollectingRecorder) Failures() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.OK {
			out = append(out, e)
		}
	}
	return out
}

// Merge appends another recorder's entries in order and propagates its
// sticky failure flag, used to fold independently-verified subtrees
// (e.g. from the bounded worker-pool extension) back into one trail
// without re-running their predicates.
func (r *CollectingRecorder) Merge(other *CollectingRecorder) {
	r.Entries = append(r.Entries, other.Entries...)
	if other.failed {
		r.failed = true
	}
}
