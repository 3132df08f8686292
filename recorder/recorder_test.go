package recorder

import (
	"bytes"
	"strings"
	"testing"
)

func TestCollectingRecorderStickyFailure(t *testing.T) {
	r := NewCollectingRecorder()
	r.Record(true, []string{"Election"}, "ThresholdTrustees", "t <= n")
	if r.Failed() {
		t.Fatal("Failed should be false after only a success")
	}
	r.Record(false, []string{"Election", "Cast Ballot #0"}, "ZeroOrOneProof", "selection #0")
	if !r.Failed() {
		t.Fatal("Failed should be true after a failure")
	}
	r.Record(true, []string{"Election"}, "JointPublicKeyCalculation", "ok")
	if !r.Failed() {
		t.Fatal("Failed must stay sticky after a later success")
	}
}

func TestCollectingRecorderFailuresOrder(t *testing.T) {
	r := NewCollectingRecorder()
	r.Record(true, nil, "A", "a")
	r.Record(false, []string{"x"}, "B", "b")
	r.Record(false, []string{"y"}, "C", "c")
	fails := r.Failures()
	if len(fails) != 2 || fails[0].Name != "B" || fails[1].Name != "C" {
		t.Fatalf("unexpected failures: %+v", fails)
	}
}

func TestCollectingRecorderMerge(t *testing.T) {
	a := NewCollectingRecorder()
	a.Record(true, []string{"A"}, "X", "x")
	b := NewCollectingRecorder()
	b.Record(false, []string{"B"}, "Y", "y")
	a.Merge(b)
	if !a.Failed() {
		t.Fatal("Merge should propagate the sticky failure flag")
	}
	if len(a.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(a.Entries))
	}
}

func TestCLIRecorderWritesLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewCLIRecorder(&buf)
	r.Record(true, []string{"Election"}, "NumPubKeys", "ok")
	r.Record(false, []string{"Election", "Cast Ballot #0"}, "ChaumPedersenProof", "ballot max selections")
	out := buf.String()
	if !strings.Contains(out, "OK:  Election | NumPubKeys: ok") {
		t.Fatalf("missing OK line, got: %s", out)
	}
	if !strings.Contains(out, "FAIL: Election / Cast Ballot #0 | ChaumPedersenProof: ballot max selections") {
		t.Fatalf("missing FAIL line, got: %s", out)
	}
	if !r.Failed() {
		t.Fatal("Failed should be true")
	}
}
