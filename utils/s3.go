package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Uploader stores organisation logos in a single bucket and serves
// them by public URL.
type S3Uploader struct {
	accessKey string
	secretKey string
	region    string
	bucket    string
}

func NewS3Uploader(accessKey, secretKey, region, bucket string) *S3Uploader {
	return &S3Uploader{accessKey: accessKey, secretKey: secretKey, region: region, bucket: bucket}
}

func (u *S3Uploader) client() (*s3.S3, error) {
	if u.accessKey == "" || u.secretKey == "" || u.region == "" {
		return nil, fmt.Errorf("AWS credentials or region not configured")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(u.region),
		Credentials: credentials.NewStaticCredentials(u.accessKey, u.secretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}
	return s3.New(sess), nil
}

// UploadFile stores the file under fileName and returns its public URL.
func (u *S3Uploader) UploadFile(file multipart.File, fileName string) (string, error) {
	svc, err := u.client()
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file buffer: %v", err)
	}

	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(fileName),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, fileName), nil
}

// DeleteFile removes a previously uploaded object by its public URL.
func (u *S3Uploader) DeleteFile(fileURL string) error {
	svc, err := u.client()
	if err != nil {
		return err
	}

	key := strings.TrimPrefix(fileURL,
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", u.bucket, u.region))

	_, err = svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}
	return nil
}
