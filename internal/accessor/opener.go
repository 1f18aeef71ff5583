package accessor

import (
	"context"
	"fmt"

	"github.com/newthinker/zeno/internal/core"
	"github.com/newthinker/zeno/internal/storage/archive"
	"github.com/newthinker/zeno/internal/zeno"
)

var _ Session = (*zeno.File)(nil)

// FileOpener opens archives from the local filesystem.
func FileOpener(ctx context.Context, path string) (Session, error) {
	f, err := zeno.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// StorageOpener opens archives through a storage backend. Missing
// archives fail before any archive bytes are fetched.
func StorageOpener(storage archive.Storage) Opener {
	return func(ctx context.Context, path string) (Session, error) {
		ok, err := storage.Exists(ctx, path)
		if err != nil {
			return nil, core.WrapError(core.ErrArchiveOpen, err)
		}
		if !ok {
			return nil, core.WrapError(core.ErrArchiveOpen, fmt.Errorf("archive %s does not exist", path))
		}

		blob, err := storage.Open(ctx, path)
		if err != nil {
			return nil, core.WrapError(core.ErrArchiveOpen, err)
		}
		f, err := zeno.NewReader(blob, blob.Size(), blob)
		if err != nil {
			blob.Close()
			return nil, err
		}
		return f, nil
	}
}
