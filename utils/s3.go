package utils

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PhotoUploader stores uploaded meal photos in S3 under per-user keys.
type PhotoUploader struct {
	client *s3.Client
	bucket string
}

func NewPhotoUploader(client *s3.Client, bucket string) *PhotoUploader {
	return &PhotoUploader{client: client, bucket: bucket}
}

// UploadMealPhoto writes the raw image bytes and returns the object URL.
func (u *PhotoUploader) UploadMealPhoto(ctx context.Context, userID uint, data []byte, contentType string) (string, error) {
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	key := fmt.Sprintf("meal-photos/%d/%s%s", userID, uuid.NewString(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
}
