package zombiezen

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// busyTimeoutMillis is how long a connection waits on a locked database.
const busyTimeoutMillis = 5000

// NewPool opens a pool on the database file at dbPath, creating the file when
// missing. Every connection enforces foreign keys.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		PoolSize:    runtime.NumCPU(),
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMillis),
	}
	for _, p := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, p, nil); err != nil {
			return err
		}
	}
	return nil
}
