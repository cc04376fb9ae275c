package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Load reads a .env file if one is present. Missing files are not an
// error; real environment variables always win over file values.
func Load() {
	_ = godotenv.Load()
}

// GetPort returns the HTTP listen port.
func GetPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

// GetLogLevel returns the minimum log level (debug, info, warn, error).
func GetLogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// GetDataDir returns the directory holding the catalog database.
// Priority: KAISO_DATA_DIR environment variable > "./data" default.
func GetDataDir() string {
	if dir := os.Getenv("KAISO_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

// GetCatalogDBPath returns the full path to the catalog database, which
// stores sections, courses, orders and viewing progress.
func GetCatalogDBPath() string {
	return filepath.Join(GetDataDir(), "catalog.db")
}

// GetJWTSecret returns the HMAC secret used to verify instructor tokens.
func GetJWTSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "dev-secret-change-me-at-least-32-bytes!"
}

// GetFFmpegPath returns the ffmpeg binary to invoke for transcoding.
func GetFFmpegPath() string {
	if path := os.Getenv("FFMPEG_PATH"); path != "" {
		return path
	}
	return "ffmpeg"
}

// GetUploadTempDir returns the directory where uploaded videos are parked
// until the transcode job picks them up.
func GetUploadTempDir() string {
	if dir := os.Getenv("KAISO_UPLOAD_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "upload-videos")
}

// GetStorageBackend selects the object storage backend: gcs, s3, sftp or
// local. Defaults to gcs, which is what production runs on.
func GetStorageBackend() string {
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		return backend
	}
	return "gcs"
}

// GetGCSBucket returns the GCS bucket receiving HLS output.
func GetGCSBucket() string {
	return os.Getenv("GCS_BUCKET")
}

// GetGCSCredentialsJSON returns the service account key JSON, if any.
// Empty means application default credentials.
func GetGCSCredentialsJSON() string {
	return os.Getenv("GCS_SERVICE_ACCOUNT")
}

// GetS3Region returns the AWS region for the S3 backend.
func GetS3Region() string {
	return os.Getenv("S3_REGION")
}

// GetS3Bucket returns the S3 bucket for the S3 backend.
func GetS3Bucket() string {
	return os.Getenv("S3_BUCKET")
}

// GetS3AccessKey returns the S3 access key id.
func GetS3AccessKey() string {
	return os.Getenv("S3_ACCESS_KEY")
}

// GetS3SecretKey returns the S3 secret access key.
func GetS3SecretKey() string {
	return os.Getenv("S3_SECRET_KEY")
}

// GetSFTPHost returns the host for the SFTP backend.
func GetSFTPHost() string {
	return os.Getenv("SFTP_HOST")
}

// GetSFTPPort returns the port for the SFTP backend, defaulting to 22.
func GetSFTPPort() string {
	if port := os.Getenv("SFTP_PORT"); port != "" {
		return port
	}
	return "22"
}

// GetSFTPUser returns the user for the SFTP backend.
func GetSFTPUser() string {
	return os.Getenv("SFTP_USER")
}

// GetSFTPPassword returns the password for the SFTP backend.
func GetSFTPPassword() string {
	return os.Getenv("SFTP_PASSWORD")
}

// GetSFTPBaseDir returns the remote directory HLS output is written under.
func GetSFTPBaseDir() string {
	if dir := os.Getenv("SFTP_BASE_DIR"); dir != "" {
		return dir
	}
	return "/var/www/media"
}

// GetLocalServeDir returns the base directory for the local backend.
// Processed videos under it are served directly by the HTTP server.
// Defaults to "./serve" relative to the executable.
func GetLocalServeDir() string {
	if dir := os.Getenv("KAISO_SERVE_DIR"); dir != "" {
		return dir
	}
	return "./serve"
}

// GetPublicBaseURL returns the public URL prefix under which the sftp and
// local backends' files are reachable.
func GetPublicBaseURL() string {
	if url := os.Getenv("PUBLIC_BASE_URL"); url != "" {
		return url
	}
	return "https://localhost:8080/media"
}
