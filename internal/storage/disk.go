package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DiskStore writes blobs under one directory with generated names.
// The original file name only contributes its extension.
type DiskStore struct {
	dir      string
	maxBytes int64
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	ref := uuid.NewString() + filepath.Ext(name)
	path := filepath.Join(s.dir, ref)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(path)
		return "", fmt.Errorf("blob exceeds %d bytes", s.maxBytes)
	}

	log.Info().Str("module", "storage.disk").Str("ref", ref).Int64("size", n).Msg("blob stored")
	return ref, nil
}
