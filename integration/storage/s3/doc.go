// Package s3 publishes generated site artifacts to Amazon S3 or an
// S3-compatible service (MinIO, Wasabi, R2). S3Storage implements
// storage.Storage.
//
//	pub, err := s3.New(ctx, s3.Config{
//		Bucket: "my-site",
//		Region: "eu-west-1",
//		Prefix: "www/",
//	})
//	if err != nil {
//		return err
//	}
//	err = pub.Put(ctx, "es/about.html", body, "")
//
// Credentials come from the config when both keys are set, otherwise from
// the default AWS chain. An empty content type is derived from the key
// extension. S3 failures map to the errors of package storage
// (ErrAccessDenied, ErrBucketNotFound, ErrFileNotFound, ...).
package s3
