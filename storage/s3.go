package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
)

// S3 uploads HLS output to an S3 bucket, serving it at the bucket's
// regional https address.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	region   string
}

// NewS3 builds an S3 uploader with static credentials.
func NewS3(region, bucket, accessKey, secretKey string) *S3 {
	client := s3.New(s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
	})
	return &S3{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
	}
}

func (s *S3) UploadDir(ctx context.Context, prefix, dir, entry string) (string, error) {
	files, err := listFiles(dir)
	if err != nil {
		return "", fmt.Errorf("list output dir: %w", err)
	}
	for _, rel := range files {
		if err := s.uploadFile(ctx, prefix, dir, rel); err != nil {
			return "", fmt.Errorf("upload %s: %w", rel, err)
		}
	}
	logger.Infof("uploaded %d files to s3://%s/%s", len(files), s.bucket, prefix)
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, path.Join(prefix, entry)), nil
}

func (s *S3) uploadFile(ctx context.Context, prefix, dir, rel string) error {
	src, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path.Join(prefix, rel)),
		Body:        src,
		ContentType: aws.String(contentTypeFor(rel)),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	return err
}

func (s *S3) DeletePrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list objects under %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return fmt.Errorf("delete %s: %w", aws.ToString(obj.Key), err)
			}
		}
	}
	return nil
}
