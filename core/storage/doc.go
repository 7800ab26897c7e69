// Package storage publishes generated site artifacts.
//
// Storage is the write side used by the static build: Put stores one
// artifact under a relative slash-separated path, Remove deletes it. Dir
// writes to the local filesystem; integration/storage/s3 publishes to a
// bucket.
//
//	out, err := storage.NewDir("dist")
//	if err != nil {
//		return err
//	}
//	err = out.Put(ctx, "es/about.html", strings.NewReader(html), storage.ContentType("es/about.html"))
//
// Paths are validated with CleanPath: empty paths and paths with ".."
// segments fail with ErrInvalidPath.
package storage
