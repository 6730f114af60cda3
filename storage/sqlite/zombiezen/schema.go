package zombiezen

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite/sqlitex"
)

// Migrations are the embedded scripts sql/<version>_<name>.sql. The
// user_version of the database records the last one applied.
//
//go:embed sql/*.sql
var sqlFiles embed.FS

type migration struct {
	version int
	name    string
	script  string
}

func migrations() ([]migration, error) {
	entries, err := fs.ReadDir(sqlFiles, "sql")
	if err != nil {
		return nil, err
	}

	var ms []migration
	for _, e := range entries {
		prefix, _, ok := strings.Cut(e.Name(), "_")
		version, err := strconv.Atoi(prefix)
		if !ok || err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: name must start with a positive version", e.Name())
		}

		script, err := sqlFiles.ReadFile(path.Join("sql", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded sql file %s: %w", e.Name(), err)
		}
		ms = append(ms, migration{version: version, name: e.Name(), script: string(script)})
	}

	sort.Slice(ms, func(i, j int) bool { return ms[i].version < ms[j].version })
	return ms, nil
}

// Migrate applies the migrations the database has not seen yet, all in one
// savepoint, and returns the resulting schema version.
func Migrate(pool *sqlitex.Pool) (version int, err error) {
	ms, err := migrations()
	if err != nil {
		return 0, err
	}

	conn, err := pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	version, err = sqlitex.ResultInt(conn.Prep("PRAGMA user_version;"))
	if err != nil {
		return 0, err
	}

	for _, m := range ms {
		if m.version <= version {
			continue
		}

		if err = sqlitex.ExecuteScript(conn, m.script, nil); err != nil {
			return version, fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}

		// pragma values cannot be bound
		if err = sqlitex.ExecuteTransient(conn, fmt.Sprintf("PRAGMA user_version = %d;", m.version), nil); err != nil {
			return version, err
		}
		version = m.version
	}

	return version, nil
}
