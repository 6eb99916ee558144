package skill

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// RecordFileName is the authored record file inside a skill directory.
	RecordFileName = "skill.yaml"
	// CompiledFileName is the generated document name. It is reserved and can
	// never appear in a bundle.
	CompiledFileName = "SKILL.md"
)

// LoadRecord reads and strictly decodes a skill.yaml record file. Unknown
// keys are an error so typos in authored records surface immediately.
func LoadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read record file")
	}

	rec := &Record{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(rec); err != nil {
		return nil, errors.Wrapf(err, "failed to parse record file %s", path)
	}
	return rec, nil
}

// LoadRecordFromDir loads the record file from a skill directory.
func LoadRecordFromDir(dir string) (*Record, error) {
	return LoadRecord(filepath.Join(dir, RecordFileName))
}

// CollectBundle walks a skill directory and returns its supporting files as
// an ordered snapshot. The record file, the compiled document, and dot
// entries are skipped, as is any path matching one of the ignore globs
// (doublestar patterns, matched against the slash-separated relative path).
// Entries are sorted by path so two walks of the same tree always produce
// the same snapshot.
func CollectBundle(dir string, ignore []string) ([]FileEntry, error) {
	var entries []FileEntry

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if name == RecordFileName || strings.EqualFold(name, CompiledFileName) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range ignore {
			ok, err := doublestar.Match(pattern, rel)
			if err != nil {
				return errors.Wrapf(err, "bad ignore pattern %q", pattern)
			}
			if ok {
				return nil
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read bundle file %s", rel)
		}

		entries = append(entries, FileEntry{
			Path:      rel,
			IsBinary:  looksBinary(content),
			SizeBytes: int64(len(content)),
			Content:   content,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect bundle")
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// looksBinary sniffs the first 8KB for a NUL byte, the same heuristic git uses.
func looksBinary(content []byte) bool {
	head := content
	if len(head) > 8192 {
		head = head[:8192]
	}
	return bytes.IndexByte(head, 0) != -1
}
