package pixelsom

import (
	"context"
	"time"

	"github.com/arklab/pixelsom/blobstore"
	"github.com/arklab/pixelsom/internal/snapshot"
)

// Save encodes grid and its training parameters and writes it to store
// under name. WithCompression and WithCodec control the encoding.
func Save(ctx context.Context, store blobstore.Store, name string, grid *Grid, opts ...Option) (err error) {
	o := applyOptions(opts)
	start := time.Now()
	size := 0
	defer func() {
		o.metricsCollector.RecordSnapshot(SnapshotSave, size, time.Since(start), err)
		o.logger.LogSnapshot(ctx, SnapshotSave, name, size, err)
	}()

	if grid == nil {
		return ErrNilGrid
	}
	p := grid.params
	data, err := snapshot.Encode(grid.g, snapshot.Meta{
		Passes:       p.Passes,
		Sigma:        p.Sigma,
		LearningRate: p.LearningRate,
		Seed:         p.Seed,
		Samples:      p.Samples,
	}, snapshot.Options{Compression: o.compression, Codec: o.codec})
	if err != nil {
		return translateError(err)
	}
	if err := store.Put(ctx, name, data); err != nil {
		return err
	}
	size = len(data)
	return nil
}

// Load reads the snapshot stored under name. A missing snapshot returns
// ErrNotFound; bytes that fail validation return ErrCorruptSnapshot.
func Load(ctx context.Context, store blobstore.Store, name string, opts ...Option) (grid *Grid, err error) {
	o := applyOptions(opts)
	start := time.Now()
	size := 0
	defer func() {
		o.metricsCollector.RecordSnapshot(SnapshotLoad, size, time.Since(start), err)
		o.logger.LogSnapshot(ctx, SnapshotLoad, name, size, err)
	}()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, translateLoadError(err)
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}
	g, meta, err := snapshot.Decode(data)
	if err != nil {
		return nil, translateLoadError(err)
	}
	size = len(data)

	return &Grid{
		g: g,
		params: Params{
			Passes:       meta.Passes,
			Sigma:        meta.Sigma,
			LearningRate: meta.LearningRate,
			Seed:         meta.Seed,
			Samples:      meta.Samples,
		},
	}, nil
}
