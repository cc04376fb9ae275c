package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
)

// Local copies HLS output under a directory served directly by this
// process's HTTP server. Development backend.
type Local struct {
	BaseDir string
	BaseURL string
}

func (l *Local) UploadDir(ctx context.Context, prefix, dir, entry string) (string, error) {
	files, err := listFiles(dir)
	if err != nil {
		return "", fmt.Errorf("list output dir: %w", err)
	}
	destDir := filepath.Join(l.BaseDir, prefix)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}
	for _, rel := range files {
		if err := copyFile(filepath.Join(dir, filepath.FromSlash(rel)), filepath.Join(destDir, filepath.FromSlash(rel))); err != nil {
			return "", fmt.Errorf("copy %s: %w", rel, err)
		}
	}
	logger.Infof("copied %d files into %s", len(files), destDir)
	return joinURL(l.BaseURL, prefix, entry), nil
}

func (l *Local) DeletePrefix(ctx context.Context, prefix string) error {
	return os.RemoveAll(filepath.Join(l.BaseDir, prefix))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
