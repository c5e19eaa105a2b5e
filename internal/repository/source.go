package repository

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/importer"
)

// FileTaskSource reads a JSON or YAML task document.
type FileTaskSource struct {
	path string
}

func NewFileTaskSource(path string) *FileTaskSource {
	return &FileTaskSource{path: path}
}

func (s *FileTaskSource) Path() string { return s.path }

func (s *FileTaskSource) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := importer.LoadFile(s.path)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Tasks: doc.Tasks, Expanded: doc.Expanded}, nil
}

// IsDatabasePath reports whether path names a SQLite task database.
func IsDatabasePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// OpenSource picks the source for path by extension. The returned closer
// releases any database handle.
func OpenSource(path string) (TaskSource, io.Closer, error) {
	if !IsDatabasePath(path) {
		return NewFileTaskSource(path), nopCloser{}, nil
	}
	database, err := db.OpenExisting(path)
	if err != nil {
		return nil, nil, err
	}
	return NewSQLiteTaskSource(db.NewSQLiteUnitOfWork(database), path), dbCloser{database}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type dbCloser struct{ db *sql.DB }

func (c dbCloser) Close() error { return c.db.Close() }
