package sqliteutil

import "testing"

func TestPragmasApply(t *testing.T) {
	testCases := []struct {
		description string
		pragmas     Pragmas
		dsn         string
		expect      string
	}{
		{description: "memory untouched", pragmas: DefaultPragmas, dsn: ":memory:", expect: ":memory:"},
		{description: "shared memory untouched", pragmas: DefaultPragmas, dsn: "file::memory:?cache=shared", expect: "file::memory:?cache=shared"},
		{description: "all pragmas", pragmas: DefaultPragmas, dsn: "file:cache.db", expect: "file:cache.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"},
		{description: "existing query", pragmas: Pragmas{BusyTimeoutMS: 100}, dsn: "file:cache.db?mode=rwc", expect: "file:cache.db?mode=rwc&_pragma=busy_timeout(100)"},
		{description: "present pragma kept", pragmas: Pragmas{WAL: true}, dsn: "file:a.db?_pragma=journal_mode(DELETE)", expect: "file:a.db?_pragma=journal_mode(DELETE)"},
		{description: "empty", pragmas: DefaultPragmas, dsn: "", expect: ""},
	}
	for _, testCase := range testCases {
		if actual := testCase.pragmas.Apply(testCase.dsn); actual != testCase.expect {
			t.Errorf("%s: expected %q, got %q", testCase.description, testCase.expect, actual)
		}
	}
}

func TestDSN(t *testing.T) {
	if got := DSN("/tmp/x.db"); got != "file:/tmp/x.db" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := DSN("file:/tmp/x.db"); got != "file:/tmp/x.db" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := DSN(":memory:"); got != ":memory:" {
		t.Fatalf("unexpected dsn %q", got)
	}
}
