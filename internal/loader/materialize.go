package loader

import (
	"os"
	"path/filepath"

	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// recordKeyOrder puts the identifying keys first in staged files.
var recordKeyOrder = []string{content.KeyFilename, content.KeyTitle}

// Materialize writes the inline items of each collection as front-matter
// files under stagingRoot/_<name>/. Each collection directory is recreated,
// so stale records from an earlier build never survive. Authored collections
// without inline items are skipped; synthesized ones are always recreated,
// even empty.
func Materialize(collections []CollectionSpec, stagingRoot string) error {
	for _, cs := range collections {
		if !cs.Staged() {
			continue
		}
		dir := CollectionDir(stagingRoot, cs.Name)
		if stagingRoot == "" {
			return &MaterializationError{Collection: cs.Name, Path: dir, Err: fileutil.ErrEmptyPath}
		}

		records, err := cs.InlineRecords()
		if err != nil {
			return &MaterializationError{Collection: cs.Name, Path: dir, Err: err}
		}
		if err := fileutil.ResetDir(dir); err != nil {
			return &MaterializationError{Collection: cs.Name, Path: dir, Err: err}
		}
		for _, rec := range records {
			path := filepath.Join(dir, rec.Filename+".md")
			data, err := content.FormatRecord(rec.Meta, rec.Body, recordKeyOrder...)
			if err != nil {
				return &MaterializationError{Collection: cs.Name, Path: path, Err: err}
			}
			if err := fileutil.WriteFile(path, data); err != nil {
				return &MaterializationError{Collection: cs.Name, Path: path, Err: err}
			}
		}
	}
	return nil
}

// Cleanup removes the staging tree.
func Cleanup(stagingRoot string) error {
	if stagingRoot == "" {
		return fileutil.ErrEmptyPath
	}
	clean := filepath.Clean(stagingRoot)
	if clean == "." || filepath.Dir(clean) == clean {
		return fileutil.ErrUnsafeDirectory
	}
	return os.RemoveAll(clean)
}
