package storage

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ArvinYang1925/kaiso-meow-backend/config"
)

// Uploader pushes a directory of HLS output to a content store and removes
// it again. UploadDir must upload every file before returning; if any
// single file fails, the whole call fails and nothing is reported as
// partially uploaded.
type Uploader interface {
	// UploadDir uploads every file under dir to a job-scoped prefix,
	// preserving relative layout, and returns the public address of entry
	// (a filename inside dir).
	UploadDir(ctx context.Context, prefix, dir, entry string) (string, error)

	// DeletePrefix removes every stored object under prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// ForBackend builds the uploader named by backend (gcs, s3, sftp, local),
// configured from the environment.
func ForBackend(ctx context.Context, backend string) (Uploader, error) {
	switch backend {
	case "gcs":
		return NewGCS(ctx, config.GetGCSBucket(), config.GetGCSCredentialsJSON())
	case "s3":
		return NewS3(config.GetS3Region(), config.GetS3Bucket(),
			config.GetS3AccessKey(), config.GetS3SecretKey()), nil
	case "sftp":
		return &SFTP{
			Host:     config.GetSFTPHost(),
			Port:     config.GetSFTPPort(),
			User:     config.GetSFTPUser(),
			Password: config.GetSFTPPassword(),
			BaseDir:  config.GetSFTPBaseDir(),
			BaseURL:  config.GetPublicBaseURL(),
		}, nil
	case "local":
		return &Local{
			BaseDir: config.GetLocalServeDir(),
			BaseURL: config.GetPublicBaseURL(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// contentTypeFor infers the content type from a filename. The HLS types
// are fixed explicitly; the platform mime table covers the rest.
func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	case ".mp4":
		return "video/mp4"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// listFiles returns the slash-separated relative paths of all regular
// files under dir.
func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// joinURL joins a base URL with slash-separated path elements.
func joinURL(base string, elem ...string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(elem, "/")
}
