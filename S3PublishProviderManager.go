package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type S3PublishProviderManager struct {
	repositoryName   string
	folderName       string
	filesToUpload    []string
	s3Config         S3Config
	awsAccountNumber string
	s3Client         *s3.Client
}

func NewS3PublishProviderManager(repositoryName string, folderName string, filesToUpload []string, s3Config S3Config) (*S3PublishProviderManager, error) {
	if repositoryName == "" {
		return nil, errors.New("repositoryName must not be empty")
	}
	if folderName == "" {
		return nil, errors.New("folderName must not be empty")
	}
	return &S3PublishProviderManager{
		repositoryName: repositoryName,
		folderName:     folderName,
		filesToUpload:  filesToUpload,
		s3Config:       s3Config,
	}, nil
}

func (s3PublishProviderManager *S3PublishProviderManager) InstantiateClient() error {
	loadOptions := []func(*config.LoadOptions) error{}
	if s3PublishProviderManager.s3Config.Region != "" {
		loadOptions = append(loadOptions, config.WithRegion(s3PublishProviderManager.s3Config.Region))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), loadOptions...)
	if err != nil {
		return errors.New("issue with getting credentials")
	}
	stsClient := sts.NewFromConfig(cfg)
	result, err := stsClient.GetCallerIdentity(context.Background(), &sts.GetCallerIdentityInput{})
	if err != nil {
		return errors.New("issue with user information")
	}
	s3PublishProviderManager.awsAccountNumber = *result.Account
	s3PublishProviderManager.s3Client = s3.NewFromConfig(cfg)
	return nil
}

// BucketName is derived from the account number so the name stays globally
// unique across users publishing same-named repositories.
func (s3PublishProviderManager S3PublishProviderManager) BucketName() string {
	return fmt.Sprintf("%s-%s-%s", s3PublishProviderManager.s3Config.BucketPrefix, s3PublishProviderManager.awsAccountNumber, s3PublishProviderManager.repositoryName)
}

func (s3PublishProviderManager *S3PublishProviderManager) VerifyRepository() (bool, error) {
	if s3PublishProviderManager.s3Client == nil {
		return false, errors.New("s3 client not instantiated")
	}
	bucketName := s3PublishProviderManager.BucketName()
	_, err := s3PublishProviderManager.s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: &bucketName,
	})
	if err != nil {
		var notFound *s3Types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("error checking bucket: %w", err)
	}
	return true, nil
}

func (s3PublishProviderManager *S3PublishProviderManager) CreateRepository() error {
	if s3PublishProviderManager.s3Client == nil {
		return errors.New("s3 client not instantiated")
	}
	bucketName := s3PublishProviderManager.BucketName()
	createBucketInput := &s3.CreateBucketInput{
		Bucket: &bucketName,
	}
	// Buckets outside us-east-1 need an explicit location constraint
	if region := s3PublishProviderManager.s3Config.Region; region != "" && region != "us-east-1" {
		createBucketInput.CreateBucketConfiguration = &s3Types.CreateBucketConfiguration{
			LocationConstraint: s3Types.BucketLocationConstraint(region),
		}
	}
	_, err := s3PublishProviderManager.s3Client.CreateBucket(context.Background(), createBucketInput)
	if err != nil {
		return fmt.Errorf("issue with creating bucket: %w", err)
	}

	_, err = s3PublishProviderManager.s3Client.PutPublicAccessBlock(context.Background(), &s3.PutPublicAccessBlockInput{
		Bucket: &bucketName,
		PublicAccessBlockConfiguration: &s3Types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(true),
			IgnorePublicAcls:      aws.Bool(true),
			BlockPublicPolicy:     aws.Bool(true),
			RestrictPublicBuckets: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("issue with setting security policy in s3 bucket: %w", err)
	}
	return nil
}

func (s3PublishProviderManager *S3PublishProviderManager) UploadFiles() (*UploadLog, error) {
	if s3PublishProviderManager.s3Client == nil {
		return nil, errors.New("s3 client not instantiated")
	}
	if s3PublishProviderManager.awsAccountNumber == "" {
		return nil, errors.New("aws account number not set; call InstantiateClient first")
	}

	ctx := context.Background()
	bucketName := s3PublishProviderManager.BucketName()
	uploadLog := NewUploadLog(len(s3PublishProviderManager.filesToUpload))
	for _, repoPath := range s3PublishProviderManager.filesToUpload {
		fullPath := filepath.Join(s3PublishProviderManager.folderName, filepath.FromSlash(repoPath))
		file, err := os.Open(fullPath)
		if err != nil {
			uploadLog.FileFailed(repoPath, fmt.Errorf("failed to open '%s': %w", fullPath, err))
			continue
		}
		fileInfo, statErr := file.Stat()
		_, putErr := s3PublishProviderManager.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: &bucketName,
			Key:    aws.String(repoPath),
			Body:   file,
		})
		closeErr := file.Close()
		if putErr != nil {
			uploadLog.FileFailed(repoPath, fmt.Errorf("failed to upload '%s': %w", repoPath, putErr))
			continue
		}
		if closeErr != nil {
			uploadLog.FileFailed(repoPath, fmt.Errorf("failed to close file '%s': %w", fullPath, closeErr))
			continue
		}
		var sizeBytes int64
		if statErr == nil {
			sizeBytes = fileInfo.Size()
		}
		uploadLog.FileUploaded(repoPath, sizeBytes)
	}
	return uploadLog, uploadLog.Err()
}

func (s3PublishProviderManager *S3PublishProviderManager) Destination() string {
	return "s3://" + s3PublishProviderManager.BucketName()
}
