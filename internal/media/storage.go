package media

import "context"

// Asset identifies an externally stored media object.
type Asset struct {
	PublicID string
	URL      string
}

// UploadOptions narrow where and how an upload lands.
type UploadOptions struct {
	// Folder prefixes the storage key, e.g. "lms/avatars".
	Folder string
}

// Storage is the external media collaborator. Upload failure is always
// distinguishable from success and never leaves a partial asset behind.
type Storage interface {
	Upload(ctx context.Context, localPath string, opts UploadOptions) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}
