package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/site"
)

// recordExtensions are the file extensions read as collection records.
var recordExtensions = []string{".md", ".markdown"}

// IsRecordFile reports whether name has a record file extension.
func IsRecordFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range recordExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CollectionDir returns the directory holding a collection's records.
func CollectionDir(root, collection string) string {
	return filepath.Join(root, "_"+collection)
}

// LoadCollectionData builds every collection of the draft from the records
// under root/_<name>/, plus its inline items: from memory when the draft
// includes them, or from the draft's staging root. A missing directory is an
// empty collection. Failing to read a staged record is a
// *MaterializationError. Nothing is returned when any collection fails.
func LoadCollectionData(ctx context.Context, draft *SiteDataDraft, root string) (site.CollectionData, error) {
	data := make(site.CollectionData, len(draft.Collections))
	for _, cs := range draft.Collections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spec, err := cs.ContentSpec()
		if err != nil {
			return nil, &site.ConfigurationError{Collection: cs.Name, Err: err}
		}

		records, err := ReadRecords(ctx, root, cs.Name)
		if err != nil {
			if root == draft.StagingRoot {
				return nil, stagedReadError(cs.Name, root, err)
			}
			return nil, err
		}
		switch {
		case draft.IncludeInline:
			inline, err := cs.InlineRecords()
			if err != nil {
				return nil, &site.ConfigurationError{Collection: cs.Name, Err: err}
			}
			records = append(records, inline...)
		case draft.StagingRoot != "" && draft.StagingRoot != root && cs.Staged():
			staged, err := ReadRecords(ctx, draft.StagingRoot, cs.Name)
			if err != nil {
				return nil, stagedReadError(cs.Name, draft.StagingRoot, err)
			}
			records = append(records, staged...)
		}
		if err := checkIdentities(cs.Name, records); err != nil {
			return nil, err
		}

		c, err := content.NewCollection(spec, records)
		if err != nil {
			return nil, err
		}
		data[cs.Name] = c
	}
	return data, nil
}

// stagedReadError reports a staged collection that cannot be read back.
// Cancellation is passed through unchanged.
func stagedReadError(collection, stagingRoot string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &MaterializationError{Collection: collection, Path: CollectionDir(stagingRoot, collection), Err: err}
}

// ReadRecords parses every record file below root/_<collection>/, skipping
// entries whose names start with "_" or ".". Source paths are relative to
// root with forward slashes.
func ReadRecords(ctx context.Context, root, collection string) ([]content.Record, error) {
	dir := CollectionDir(root, collection)
	if !fileutil.DirExists(dir) {
		return nil, nil
	}

	var records []content.Record
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if fileutil.IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsRecordFile(d.Name()) {
			return nil
		}

		rec, err := readRecord(root, path)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading collection %q: %w", collection, err)
	}
	return records, nil
}

func readRecord(root, path string) (content.Record, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from a directory walk under the source root
	if err != nil {
		return content.Record{}, fmt.Errorf("%w: %v", ErrReadRecord, err)
	}
	meta, body, err := content.ParseFrontMatter(data)
	if err != nil {
		return content.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return content.Record{}, fmt.Errorf("%w: %v", ErrReadRecord, err)
	}
	base := filepath.Base(path)
	return content.Record{
		SourcePath: filepath.ToSlash(rel),
		Filename:   strings.TrimSuffix(base, filepath.Ext(base)),
		Meta:       meta,
		Body:       body,
	}, nil
}

func checkIdentities(collection string, records []content.Record) error {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.SourcePath] {
			return fmt.Errorf("%w: collection %q has two records at %s", ErrDuplicateRecord, collection, r.SourcePath)
		}
		seen[r.SourcePath] = true
	}
	return nil
}
