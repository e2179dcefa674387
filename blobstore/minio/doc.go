// Package minio provides a blobstore.Store backed by the MinIO client.
//
// It works against MinIO and other S3-compatible servers (Ceph, Garage,
// SeaweedFS) without pulling in the AWS SDK.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "som", "grids/")
//	err = pixelsom.Save(ctx, store, "tonsil-10x10", grid)
package minio
