package sqliteutil

import (
	"fmt"
	"strings"
)

// Pragmas controls the connection pragmas appended to a modernc sqlite DSN.
type Pragmas struct {
	WAL           bool
	BusyTimeoutMS int
	Synchronous   string
}

// DefaultPragmas are used by the vector cache.
var DefaultPragmas = Pragmas{WAL: true, BusyTimeoutMS: 5000, Synchronous: "NORMAL"}

// Apply appends pragmas missing from dsn. In-memory databases are returned as is.
func (p Pragmas) Apply(dsn string) string {
	if dsn == "" || IsMemory(dsn) {
		return dsn
	}
	lower := strings.ToLower(dsn)
	if p.WAL && !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = addPragma(dsn, "journal_mode(WAL)")
	}
	if p.BusyTimeoutMS > 0 && !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = addPragma(dsn, fmt.Sprintf("busy_timeout(%d)", p.BusyTimeoutMS))
	}
	if p.Synchronous != "" && !strings.Contains(lower, "_pragma=synchronous") {
		dsn = addPragma(dsn, "synchronous("+p.Synchronous+")")
	}
	return dsn
}

// IsMemory reports whether dsn names an in-memory database.
func IsMemory(dsn string) bool {
	lower := strings.ToLower(dsn)
	return dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:") || strings.Contains(lower, "mode=memory")
}

// DSN turns a plain file path into a file: DSN.
func DSN(path string) string {
	if path == "" || IsMemory(path) || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path
}

func addPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}
