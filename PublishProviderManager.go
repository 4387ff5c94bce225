package main

type PublishProviderManager interface {
	InstantiateClient() error
	VerifyRepository() (bool, error)
	CreateRepository() error
	UploadFiles() (*UploadLog, error)
	Destination() string
}
