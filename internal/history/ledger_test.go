package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/cardctl/internal/history"
)

func TestLedger_AppendAndEntries(t *testing.T) {
	l, err := history.Open(filepath.Join(t.TempDir(), "ext", "history.jsonl"))
	if err != nil {
		t.Fatal(err)
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Entries on missing file = %d, want 0", len(entries))
	}

	for _, s := range []string{"failed", "complete", "incomplete"} {
		if err := l.Append(history.Entry{Attempt: s, Status: s}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err = l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].Status != "failed" {
		t.Errorf("Entries = %+v", entries)
	}
}

func TestLedger_Last(t *testing.T) {
	l, _ := history.Open(filepath.Join(t.TempDir(), "history.jsonl"))
	for _, a := range []string{"a", "b", "c"} {
		_ = l.Append(history.Entry{Attempt: a, Status: "complete"})
	}

	last, err := l.Last(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 2 || last[0].Attempt != "c" || last[1].Attempt != "b" {
		t.Errorf("Last(2) = %+v", last)
	}

	all, _ := l.Last(10)
	if len(all) != 3 {
		t.Errorf("Last(10) = %d entries, want 3", len(all))
	}
}

func TestLedger_LastNonPositive(t *testing.T) {
	l, _ := history.Open(filepath.Join(t.TempDir(), "history.jsonl"))
	_ = l.Append(history.Entry{Attempt: "a", Status: "complete"})

	for _, n := range []int{0, -1, -100} {
		got, err := l.Last(n)
		if err != nil || len(got) != 0 {
			t.Errorf("Last(%d) = %+v, %v; want no entries", n, got, err)
		}
	}
}

func TestLedger_LastSuccess(t *testing.T) {
	l, _ := history.Open(filepath.Join(t.TempDir(), "history.jsonl"))

	got, err := l.LastSuccess()
	if err != nil || got != nil {
		t.Fatalf("LastSuccess on empty = %v, %v", got, err)
	}

	_ = l.Append(history.Entry{Attempt: "1", Status: "complete", Version: "1.0"})
	_ = l.Append(history.Entry{Attempt: "2", Status: "failed"})

	got, err = l.LastSuccess()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Version != "1.0" {
		t.Errorf("LastSuccess = %+v, want version 1.0", got)
	}
}

func TestLedger_SkipsGarbageLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := os.WriteFile(path, []byte("not json\n{\"attempt\":\"x\",\"status\":\"failed\"}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	l, _ := history.Open(path)
	entries, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Attempt != "x" {
		t.Errorf("Entries = %+v", entries)
	}
}
