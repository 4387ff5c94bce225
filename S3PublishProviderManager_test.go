package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3ManagerValidation(t *testing.T) {
	_, err := NewS3PublishProviderManager("", "folder", nil, S3Config{})
	assert.Error(t, err)
	_, err = NewS3PublishProviderManager("site", "", nil, S3Config{})
	assert.Error(t, err)
}

func TestS3BucketName(t *testing.T) {
	manager, err := NewS3PublishProviderManager("site", t.TempDir(), nil, S3Config{BucketPrefix: "shipit"})
	require.NoError(t, err)
	manager.awsAccountNumber = "123456789012"

	assert.Equal(t, "shipit-123456789012-site", manager.BucketName())
	assert.Equal(t, "s3://shipit-123456789012-site", manager.Destination())
}

func TestS3ManagerRequiresClient(t *testing.T) {
	manager, err := NewS3PublishProviderManager("site", t.TempDir(), nil, S3Config{})
	require.NoError(t, err)

	_, verifyErr := manager.VerifyRepository()
	assert.EqualError(t, verifyErr, "s3 client not instantiated")
	assert.EqualError(t, manager.CreateRepository(), "s3 client not instantiated")
	_, uploadErr := manager.UploadFiles()
	assert.EqualError(t, uploadErr, "s3 client not instantiated")
}
