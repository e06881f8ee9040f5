package database

// SynchronousMode represents the available synchronous settings for SQLite
type SynchronousMode string

const (
	SynchronousOff    SynchronousMode = "OFF"
	SynchronousNormal SynchronousMode = "NORMAL"
	SynchronousFull   SynchronousMode = "FULL"
)

// JournalMode represents the available journal modes for SQLite
type JournalMode string

const (
	JournalDelete JournalMode = "DELETE"
	JournalMemory JournalMode = "MEMORY"
	JournalWAL    JournalMode = "WAL"
)

// SQLiteOptions contains configuration options for the planner database
type SQLiteOptions struct {
	// Path to the SQLite database file
	Path string

	Mode        string          // ro, rw, rwc
	Journal     JournalMode     // applied once after open, it persists in the file
	ForeignKeys bool            // per connection
	BusyTimeout int             // per connection, milliseconds
	CacheSize   int             // per connection, KB when negative pages
	Synchronous SynchronousMode // per connection
}

// NewDefaultOptions creates SQLiteOptions with recommended defaults
func NewDefaultOptions(path string) SQLiteOptions {
	return SQLiteOptions{
		Path:        path,
		Mode:        "rwc",
		Journal:     JournalWAL,
		ForeignKeys: true,
		BusyTimeout: 5000,
		CacheSize:   -2000,
		Synchronous: SynchronousNormal,
	}
}
