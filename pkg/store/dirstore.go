package store

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/lint"
	"github.com/skillsmith/skillsmith/pkg/skill"
)

// DirStore adapts a skill directory on local disk to the store contracts.
// The recordID argument is ignored; the directory is the record.
type DirStore struct {
	dir    string
	ignore []string
}

// NewDirStore returns a store over the given skill directory. Ignore
// patterns are doublestar globs applied during bundle collection.
func NewDirStore(dir string, ignore []string) *DirStore {
	return &DirStore{dir: dir, ignore: ignore}
}

// GetFileIndex collects the directory's bundle snapshot.
func (s *DirStore) GetFileIndex(_ context.Context, _ string) ([]skill.FileEntry, error) {
	return skill.CollectBundle(s.dir, s.ignore)
}

// ReadFileContent reads one bundle file. The path must pass the gate first;
// this keeps the adapter from ever reading outside the skill directory.
func (s *DirStore) ReadFileContent(_ context.Context, _ string, path string) ([]byte, error) {
	if !lint.PathAllowed(path) {
		return nil, errors.Errorf("path %q is not a valid bundle path", path)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(path)))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// ApplyChangeSet applies the file operations of a gated change-set to the
// directory. Upserts are staged to temporary files and renamed into place
// only after every stage succeeded, so a failing disk leaves either the old
// tree or the new one, not a mix. Record-patch application is the record
// store's job, not the directory adapter's.
func (s *DirStore) ApplyChangeSet(_ context.Context, _ string, cs *skill.ChangeSet) error {
	if verdict := lint.ValidateChangeSet(cs); !verdict.Valid {
		return errors.Errorf("refusing to apply invalid change-set (%d problems)", len(verdict.Errors))
	}

	type staged struct {
		tmp   string
		final string
	}
	var stages []staged

	cleanup := func() {
		for _, st := range stages {
			_ = os.Remove(st.tmp)
		}
	}

	for _, op := range cs.FileOps {
		if op.Op != skill.FileOpUpsert {
			continue
		}
		final := filepath.Join(s.dir, filepath.FromSlash(op.Path))
		if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
			cleanup()
			return errors.Wrapf(err, "failed to create directory for %s", op.Path)
		}

		var content []byte
		if op.TextContent != nil {
			content = []byte(*op.TextContent)
		} else if op.BinaryContentBase64 != nil {
			decoded, err := base64.StdEncoding.DecodeString(*op.BinaryContentBase64)
			if err != nil {
				cleanup()
				return errors.Wrapf(err, "bad binary content for %s", op.Path)
			}
			content = decoded
		}

		tmp := final + ".staged"
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			cleanup()
			return errors.Wrapf(err, "failed to stage %s", op.Path)
		}
		stages = append(stages, staged{tmp: tmp, final: final})
	}

	for _, st := range stages {
		if err := os.Rename(st.tmp, st.final); err != nil {
			cleanup()
			return errors.Wrap(err, "failed to commit staged file")
		}
	}

	for _, op := range cs.FileOps {
		if op.Op != skill.FileOpDelete {
			continue
		}
		target := filepath.Join(s.dir, filepath.FromSlash(op.Path))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to delete %s", op.Path)
		}
	}

	return nil
}
