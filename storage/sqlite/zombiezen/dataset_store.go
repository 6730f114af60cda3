package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/revelaction/puggle/annotation"
	"github.com/revelaction/puggle/corpus"
	"github.com/revelaction/puggle/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// DatasetStore keeps datasets in a SQLite database, one row per document
// holding its JSON form and fingerprint.
type DatasetStore struct {
	pool   *sqlitex.Pool
	limits annotation.Limits
}

var _ storage.DatasetRepository = (*DatasetStore)(nil)

// NewDatasetStore creates the schema if needed.
func NewDatasetStore(pool *sqlitex.Pool, limits annotation.Limits) (*DatasetStore, error) {
	if _, err := Migrate(pool); err != nil {
		return nil, err
	}
	return &DatasetStore{pool: pool, limits: limits}, nil
}

func (h *DatasetStore) List() ([]storage.DatasetInfo, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	infos := []storage.DatasetInfo{}
	err = sqlitex.Execute(conn, "SELECT id, name, created, num_documents FROM datasets ORDER BY name, created", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			info := storage.DatasetInfo{
				ID:        stmt.ColumnText(0),
				Name:      stmt.ColumnText(1),
				Documents: stmt.ColumnInt(3),
			}
			created, err := time.Parse(time.RFC3339Nano, stmt.ColumnText(2))
			if err != nil {
				return err
			}
			info.Created = created
			infos = append(infos, info)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// Read returns the dataset with the given ID or, when no ID matches, the most
// recent dataset with that name. Every document is checked against its
// stored fingerprint.
func (h *DatasetStore) Read(id string) (*corpus.Dataset, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	datasetID := ""
	err = sqlitex.Execute(conn, "SELECT id FROM datasets WHERE id = ? OR name = ? ORDER BY id = ? DESC, created DESC LIMIT 1", &sqlitex.ExecOptions{
		Args: []interface{}{id, id, id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			datasetID = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if datasetID == "" {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	ds := corpus.New()
	err = sqlitex.Execute(conn, "SELECT position, fingerprint, data FROM documents WHERE dataset_id = ? ORDER BY position", &sqlitex.ExecOptions{
		Args: []interface{}{datasetID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			pos := stmt.ColumnInt(0)
			data := []byte(stmt.ColumnText(2))
			if fp := annotation.Fingerprint(data); fp != stmt.ColumnText(1) {
				return fmt.Errorf("document %d: fingerprint mismatch", pos)
			}

			doc, err := annotation.DecodeDocument(data, h.limits)
			if err != nil {
				return fmt.Errorf("document %d: %w", pos, err)
			}
			ds.Add(doc)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", datasetID, err)
	}

	return ds, nil
}

func (h *DatasetStore) Write(name string, ds *corpus.Dataset, progress storage.Progress) (id string, err error) {
	if name == "" {
		return "", fmt.Errorf("dataset name must not be empty")
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return "", err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	id = uuid.New().String()
	created := time.Now().UTC().Format(time.RFC3339Nano)
	err = sqlitex.Execute(conn, "INSERT INTO datasets (id, name, created, num_documents) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{id, name, created, ds.Len()},
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert dataset: %w", err)
	}

	for i, doc := range ds.Documents {
		data, marshalErr := json.Marshal(doc)
		if marshalErr != nil {
			err = marshalErr
			return "", err
		}

		err = sqlitex.Execute(conn, "INSERT INTO documents (dataset_id, position, fingerprint, data) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{id, i, annotation.Fingerprint(data), string(data)},
		})
		if err != nil {
			return "", fmt.Errorf("failed to insert document %d: %w", i, err)
		}

		if progress != nil {
			progress(i+1, ds.Len())
		}
	}

	return id, nil
}

// Delete removes a dataset and its documents.
func (h *DatasetStore) Delete(id string) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "DELETE FROM datasets WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
	})
	if err != nil {
		return err
	}
	if conn.Changes() == 0 {
		err = fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return err
}
