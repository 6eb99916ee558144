// Package store defines the contracts the compiler core consumes from the
// persistent storage layer, plus a directory-backed adapter the CLI uses when
// a skill lives on local disk. The real store (CRUD, versioning, draft
// autosave) is an external collaborator; nothing here implements it.
package store

import (
	"context"

	"github.com/skillsmith/skillsmith/pkg/skill"
)

// FileIndex provides ordered snapshots of a record's bundle.
type FileIndex interface {
	// GetFileIndex returns the bundle snapshot for a record.
	GetFileIndex(ctx context.Context, recordID string) ([]skill.FileEntry, error)
	// ReadFileContent returns the current content of one bundle file.
	ReadFileContent(ctx context.Context, recordID string, path string) ([]byte, error)
}

// Applier applies a validated change-set. Implementations must apply all
// operations or none; a half-applied change-set is a storage-layer bug.
type Applier interface {
	ApplyChangeSet(ctx context.Context, recordID string, cs *skill.ChangeSet) error
}

// Store is the full collaborator contract.
type Store interface {
	FileIndex
	Applier
}
