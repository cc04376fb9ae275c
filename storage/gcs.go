package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
)

// GCS uploads HLS output to a Google Cloud Storage bucket and serves it at
// storage.googleapis.com addresses. This is the production backend.
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS builds a GCS uploader for the given bucket. If credentialsJSON is
// empty, application default credentials are used.
func NewGCS(ctx context.Context, bucket, credentialsJSON string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket not configured")
	}
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) UploadDir(ctx context.Context, prefix, dir, entry string) (string, error) {
	files, err := listFiles(dir)
	if err != nil {
		return "", fmt.Errorf("list output dir: %w", err)
	}
	for _, rel := range files {
		if err := g.uploadFile(ctx, prefix, dir, rel); err != nil {
			return "", fmt.Errorf("upload %s: %w", rel, err)
		}
	}
	logger.Infof("uploaded %d files to gs://%s/%s", len(files), g.bucket, prefix)
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, path.Join(prefix, entry)), nil
}

func (g *GCS) uploadFile(ctx context.Context, prefix, dir, rel string) error {
	src, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	defer src.Close()

	obj := g.client.Bucket(g.bucket).Object(path.Join(prefix, rel))
	w := obj.NewWriter(ctx)
	w.ContentType = contentTypeFor(rel)
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return fmt.Errorf("make public: %w", err)
	}
	return nil
}

func (g *GCS) DeletePrefix(ctx context.Context, prefix string) error {
	bucket := g.client.Bucket(g.bucket)
	it := bucket.Objects(ctx, &gcs.Query{Prefix: prefix + "/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list objects under %s: %w", prefix, err)
		}
		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil {
			return fmt.Errorf("delete %s: %w", attrs.Name, err)
		}
	}
}
