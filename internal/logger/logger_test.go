package logger

import (
	"testing"
)

func TestComputeLineAndColumn(t *testing.T) {
	expect := func(contents string, offset int, line int, column int) {
		t.Helper()
		lineCount, columnCount, _, _ := computeLineAndColumn(contents, offset)
		if lineCount != line || columnCount != column {
			t.Fatalf("%q at %d: got %d:%d, want %d:%d",
				contents, offset, lineCount, columnCount, line, column)
		}
	}

	expect("", 0, 0, 0)
	expect("abc", 2, 0, 2)
	expect("a\nb", 2, 1, 0)
	expect("a\r\nb", 3, 1, 0)
	expect("a\rb", 2, 1, 0)
	expect("ab\ncd\nef", 7, 2, 1)

	// Offsets past the end clamp to the end
	expect("ab", 99, 0, 2)
}

func TestDeferLogSortsMessages(t *testing.T) {
	log := NewDeferLog()
	log.AddMsg(Msg{Kind: Warning, Text: "b", Location: &MsgLocation{File: "f", Line: 2}})
	log.AddMsg(Msg{Kind: Error, Text: "a", Location: &MsgLocation{File: "f", Line: 1}})
	log.AddMsg(Msg{Kind: Error, Text: "c"})

	msgs := log.Done()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "c" || msgs[1].Text != "a" || msgs[2].Text != "b" {
		t.Fatalf("unexpected order: %q %q %q", msgs[0].Text, msgs[1].Text, msgs[2].Text)
	}
	if !log.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestSourceRangeOfString(t *testing.T) {
	source := Source{Contents: `import "module"`}
	r := source.RangeOfString(Loc{Start: 7})
	if r.Len != 8 {
		t.Fatalf("expected length 8, got %d", r.Len)
	}
	if text := source.TextForRange(r); text != `"module"` {
		t.Fatalf("unexpected text %q", text)
	}
}
