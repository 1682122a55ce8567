package ports

import "context"

// AssetStore persists binary assets addressed by web-root-relative paths
// such as "/images/projects/oak_table/main_1a2b3c4d.webp".
type AssetStore interface {
	Put(ctx context.Context, webPath string, data []byte) error
	Remove(ctx context.Context, webPath string) error
	// RemoveDir deletes everything stored under webDir.
	RemoveDir(ctx context.Context, webDir string) error
	Ping(ctx context.Context) error
}
