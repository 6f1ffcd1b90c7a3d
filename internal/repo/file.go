package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"swag-shop/internal/domain"
)

// FileStore keeps the snapshot as one JSON document, the same layout the
// shop's swagData.json always had: {"swags": [...], "users": [...]}.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

// Read returns an empty snapshot when the file does not exist yet.
func (f *FileStore) Read(ctx context.Context) (*domain.Snapshot, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return normalize(nil), nil
	}
	if err != nil {
		return nil, ioErr("read "+f.Path, err)
	}
	var s domain.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, ioErr("decode "+f.Path, err)
	}
	return normalize(&s), nil
}

// Write replaces the file atomically: temp file in the same dir, fsync, rename.
func (f *FileStore) Write(ctx context.Context, s *domain.Snapshot) error {
	b, err := json.MarshalIndent(normalize(s), "", "  ")
	if err != nil {
		return ioErr("encode", err)
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioErr("mkdir "+dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return ioErr("create temp", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return ioErr("write temp", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return ioErr("sync temp", err)
	}
	if err := tmp.Close(); err != nil {
		return ioErr("close temp", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return ioErr("rename "+f.Path, err)
	}
	return nil
}
