package compress

import "context"

// Archiver packages a directory tree into a single zip file.
type Archiver interface {
	CreateArchive(ctx context.Context, sourceFolder, archiveBaseName string) (string, error)
}
