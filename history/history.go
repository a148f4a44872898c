package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"m3u-mirror-failover/prober"
)

// ProbeRecord is one stored probe outcome, queryable by server.
type ProbeRecord struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	Server     string    `json:"server"`
	Path       string    `json:"path"`
	Status     string    `json:"status"`
	StatusCode int       `json:"status_code,omitempty"`
	LatencyMs  int64     `json:"latency_ms"`
	CheckedAt  time.Time `json:"checked_at"`
}

// Store keeps probe outcomes in an in-memory database for the lifetime of a
// watch-mode process. Nothing is persisted to disk.
type Store struct {
	db *memdb.MemDB
}

func NewStore() (*Store, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"probes": {
				Name: "probes",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"server": {
						Name:    "server",
						Indexer: &memdb.StringFieldIndex{Field: "Server"},
					},
					"run": {
						Name:    "run",
						Indexer: &memdb.StringFieldIndex{Field: "RunID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// RecordProbes stores every probe result of one run.
func (s *Store) RecordProbes(runID string, results []prober.Result) error {
	txn := s.db.Txn(true)

	for _, r := range results {
		record := &ProbeRecord{
			ID:         uuid.New().String(),
			RunID:      runID,
			Server:     r.Server,
			Path:       r.Path,
			Status:     string(r.Status),
			StatusCode: r.StatusCode,
			LatencyMs:  r.LatencyMs,
			CheckedAt:  r.CheckedAt,
		}
		if err := txn.Insert("probes", record); err != nil {
			txn.Abort()
			return err
		}
	}

	txn.Commit()
	return nil
}

// ProbesForServer returns every stored probe against the given server base.
func (s *Store) ProbesForServer(server string) ([]*ProbeRecord, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("probes", "server", server)
	if err != nil {
		return nil, err
	}

	var records []*ProbeRecord
	for raw := it.Next(); raw != nil; raw = it.Next() {
		records = append(records, raw.(*ProbeRecord))
	}
	return records, nil
}

// AllProbes returns every stored probe record.
func (s *Store) AllProbes() ([]*ProbeRecord, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("probes", "id")
	if err != nil {
		return nil, err
	}

	var records []*ProbeRecord
	for raw := it.Next(); raw != nil; raw = it.Next() {
		records = append(records, raw.(*ProbeRecord))
	}
	return records, nil
}
