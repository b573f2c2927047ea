package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/alnah/go-md2site/internal/content"
	"github.com/alnah/go-md2site/internal/site"
)

// LoadAuthored runs the primary load: it initializes the registry from the
// config, reads every authored collection from the source tree, and folds the
// result into the build's data. With build.staging, inline items are
// materialized and read back like derived collections.
func LoadAuthored(ctx context.Context, b *site.Build) error {
	b.Registry.Initialize(b.Config.Collections)

	draft, err := LoadSiteData(b.Registry)
	if err != nil {
		return err
	}
	authored := draft.Kind(content.KindAuthored)
	if b.Config.Build.Staging {
		stagingRoot := b.Config.Build.StagingPath()
		if err := Materialize(authored.Collections, stagingRoot); err != nil {
			return err
		}
		authored = authored.Staged(stagingRoot)
	}

	data, err := LoadCollectionData(ctx, authored, b.Config.Build.Source)
	if err != nil {
		return err
	}
	if err := b.Data.AddCollectionData(data); err != nil {
		return err
	}

	for _, name := range data.Names() {
		b.Logger.Debug("collection loaded",
			zap.String("collection", name),
			zap.Int("items", data[name].Len()))
	}
	return nil
}

// Reload runs the re-entrant load of a collection already in the registry
// and folds it into the build's data. With build.staging the collection is
// materialized under the staging root and read back from disk; otherwise it
// is built in memory. Both paths produce the same collection.
func Reload(ctx context.Context, b *site.Build, name string) (*content.Collection, error) {
	if !b.Config.Build.Staging {
		entry, ok := b.Registry.Get(name)
		if !ok {
			return nil, &site.ConfigurationError{Collection: name, Err: ErrNotRegistered}
		}
		return b.Data.AddSyntheticCollection(name, entry.Config)
	}

	draft, err := LoadSiteData(b.Registry)
	if err != nil {
		return nil, err
	}
	draft = draft.Only(name)
	if len(draft.Collections) == 0 {
		return nil, &site.ConfigurationError{Collection: name, Err: ErrNotRegistered}
	}

	stagingRoot := b.Config.Build.StagingPath()
	if err := Materialize(draft.Collections, stagingRoot); err != nil {
		return nil, err
	}
	b.Logger.Debug("collection staged",
		zap.String("collection", name),
		zap.String("dir", CollectionDir(stagingRoot, name)))

	data, err := LoadCollectionData(ctx, draft.Staged(stagingRoot), stagingRoot)
	if err != nil {
		return nil, err
	}
	if err := b.Data.AddCollectionData(data); err != nil {
		return nil, err
	}
	return data[name], nil
}
