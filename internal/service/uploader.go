package service

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Uploader stores evidence files in an S3-compatible bucket (MinIO in
// development) and hands back public URLs.
type Uploader struct {
	s3Client   *s3.S3
	bucketName string
	publicURL  string
}

// NewUploader creates a new evidence uploader from storage credentials.
func NewUploader(accessKey, secretKey, endpoint, region, bucketName, publicURL string) (*Uploader, error) {
	s3Config := &aws.Config{
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:    aws.String(endpoint),
		Region:      aws.String(region),
		// Path-style addressing is required for MinIO and other non-AWS S3 services
		S3ForcePathStyle: aws.Bool(true),
	}

	newSession, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return &Uploader{
		s3Client:   s3.New(newSession),
		bucketName: bucketName,
		publicURL:  publicURL,
	}, nil
}

// UploadFile uploads a multipart file to the bucket and returns its public URL.
func (u *Uploader) UploadFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Nanosecond timestamp keeps object keys unique across same-named uploads
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))

	_, err = u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(u.bucketName),
		Key:    aws.String(filename),
		Body:   src,
		ACL:    aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to bucket: %w", err)
	}

	return fmt.Sprintf("%s/%s", u.publicURL, filename), nil
}
