package main

import (
	"context"
	"net/http"

	"github.com/ArvinYang1925/kaiso-meow-backend/config"
	"github.com/ArvinYang1925/kaiso-meow-backend/encoder"
	"github.com/ArvinYang1925/kaiso-meow-backend/job"
	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
	"github.com/ArvinYang1925/kaiso-meow-backend/routes"
	"github.com/ArvinYang1925/kaiso-meow-backend/sections"
	"github.com/ArvinYang1925/kaiso-meow-backend/storage"
	"github.com/ArvinYang1925/kaiso-meow-backend/taskqueue"
)

func main() {
	config.Load()
	logger.Init(config.GetLogLevel(), false)
	logger.Info("starting kaiso-meow backend")

	store, err := sections.Open(config.GetCatalogDBPath())
	if err != nil {
		logger.Fatalf("failed to open catalog store: %v", err)
	}
	defer store.Close()
	logger.Infof("catalog store open at %s", config.GetCatalogDBPath())

	backend := config.GetStorageBackend()
	uploader, err := storage.ForBackend(context.Background(), backend)
	if err != nil {
		logger.Fatalf("failed to build storage backend: %v", err)
	}
	logger.Infof("storage backend: %s", backend)

	engine := encoder.NewFFmpeg(config.GetFFmpegPath())
	processor := job.NewProcessor(engine, uploader, store)
	queue := taskqueue.New()

	handler := &routes.Handler{
		Catalog:   store,
		Queue:     queue,
		Tasks:     processor,
		Uploader:  uploader,
		JWTSecret: []byte(config.GetJWTSecret()),
		UploadDir: config.GetUploadTempDir(),
	}

	addr := ":" + config.GetPort()
	logger.Infof("listening on %s", addr)
	if err := http.ListenAndServe(addr, routes.NewRouter(handler)); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
