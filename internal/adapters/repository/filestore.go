package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dubz-banking/dubz/internal/domain/report"
	"github.com/dubz-banking/dubz/pkg/logger"
	"github.com/dubz-banking/dubz/pkg/metrics"
)

// File layout constants.
const (
	DefaultRoot = "./reports"
	dateLayout  = "2006-01-02"
	dirPerm     = 0o755
	filePerm    = 0o644
)

// FileStore writes reports as indented JSON under <root>/<type>/<date>.json.
type FileStore struct {
	root  string
	clock Clock
	loc   *time.Location
	log   logger.Logger
}

// NewFileStore creates a store rooted at root. An empty root means DefaultRoot.
func NewFileStore(root string, opts ...Option) *FileStore {
	if root == "" {
		root = DefaultRoot
	}
	s := &FileStore{
		root:  root,
		clock: clockFunc(time.Now),
		loc:   time.Local,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the configured root directory.
func (s *FileStore) Root() string { return s.root }

// PathFor returns the path a report of type t would be written to at instant at.
func (s *FileStore) PathFor(t report.Type, at time.Time) string {
	return filepath.Join(s.root, string(t), at.In(s.loc).Format(dateLayout)+".json")
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, r report.Report) (string, error) {
	if r.Type == "" {
		return "", fmt.Errorf("save: %w: empty report type", ErrInvalidReport)
	}
	if err := ctx.Err(); err != nil {
		return "", wrapKind("save", ErrWrite, err)
	}

	// The file date follows the report's own timestamp.
	at := r.GeneratedAt
	if at.IsZero() {
		at = s.clock.Now()
	}
	path, err := filepath.Abs(s.PathFor(r.Type, at))
	if err != nil {
		return "", wrapKind("resolve path", ErrWrite, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		metrics.RecordErrorByComponent("repository", "mkdir")
		return "", wrapKind("create report dir", ErrWrite, err)
	}

	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		metrics.RecordErrorByComponent("repository", "marshal")
		return "", wrapKind("encode report", ErrWrite, err)
	}
	body = append(body, '\n')

	if err := writeFile(path, body); err != nil {
		metrics.RecordErrorByComponent("repository", "write")
		return "", wrapKind("write report", ErrWrite, err)
	}

	s.log.Debug(ctx, "report written",
		logger.String("report_type", r.Type.String()),
		logger.String("path", path),
		logger.Int("bytes", len(body)))
	return path, nil
}

// writeFile replaces path with body via a temp file in the same directory so
// readers never observe a half-written report.
func writeFile(path string, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
