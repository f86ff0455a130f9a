package blob

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs as flat files under a root directory. Paths handed
// out are relative to the root so they stay valid across deployments.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Store(_ context.Context, data []byte) (StoredObject, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return StoredObject{}, fmt.Errorf("blob name: %w", err)
	}
	name := hash[:16] + "_" + hex.EncodeToString(suffix)

	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return StoredObject{}, fmt.Errorf("write blob: %w", err)
	}
	return StoredObject{Path: name, SHA256: hash}, nil
}

func (s *FSStore) Fetch(_ context.Context, path string) ([]byte, error) {
	abs, err := s.abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (s *FSStore) Remove(_ context.Context, path string) error {
	abs, err := s.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// abs rejects paths that would escape the root.
func (s *FSStore) abs(path string) (string, error) {
	clean := filepath.Clean(path)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// ContentHash returns the hex sha256 of data, the same value Store would
// record for it.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
