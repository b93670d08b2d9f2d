package test

import (
	"testing"

	"github.com/tslower/tslower/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", observed, expected)
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA, ok1 := observed.(string)
		stringB, ok2 := expected.(string)
		if ok1 && ok2 {
			t.Fatal("\n" + Diff(stringB, stringA, true))
		} else {
			t.Fatalf("%s != %s", observed, expected)
		}
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:          0,
		PrettyPath:     "<stdin>",
		Contents:       contents,
		IdentifierName: "stdin",
	}
}
