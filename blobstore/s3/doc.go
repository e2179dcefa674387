// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("grids/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	err = pixelsom.Save(ctx, store, "tonsil-10x10", grid)
//
// Credentials come from the default AWS chain (environment, shared config,
// instance role). Uploads go through the SDK's upload manager, which switches
// to multipart uploads for large snapshots.
package s3
