// Package filesystem provides the filesystem seam used by hasscleanup.
//
// FS is implemented by the real OS filesystem and by an afero-backed
// filesystem, which tests use with afero.NewMemMapFs. The package also
// provides the two file-level primitives the cleaner needs: CopyFile for
// backups and WriteFileAtomic for replacing a registry in one step.
package filesystem
