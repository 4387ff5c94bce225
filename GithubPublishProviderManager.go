package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

type GithubPublishProviderManager struct {
	repositoryOwner string
	repositoryName  string
	folderName      string
	filesToUpload   []string
	config          *Config
	githubClient    *github.Client
}

func NewGithubPublishProviderManager(repositoryName string, folderName string, filesToUpload []string, config *Config) (*GithubPublishProviderManager, error) {
	if repositoryName == "" {
		return nil, errors.New("repositoryName must not be empty")
	}
	if folderName == "" {
		return nil, errors.New("folderName must not be empty")
	}
	return &GithubPublishProviderManager{
		repositoryName: repositoryName,
		folderName:     folderName,
		filesToUpload:  filesToUpload,
		config:         config,
	}, nil
}

func (githubPublishProviderManager *GithubPublishProviderManager) InstantiateClient() error {
	token := githubPublishProviderManager.config.ResolveToken()
	if token == "" {
		return errors.New("GITHUB_TOKEN not set")
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	githubPublishProviderManager.githubClient = github.NewClient(tc)
	// Determine the authenticated user's login to use as repository owner
	user, _, err := githubPublishProviderManager.githubClient.Users.Get(context.Background(), "")
	if err != nil || user == nil || user.Login == nil || *user.Login == "" {
		return fmt.Errorf("failed to determine authenticated user login: %w", err)
	}
	githubPublishProviderManager.repositoryOwner = *user.Login
	return nil
}

func (githubPublishProviderManager *GithubPublishProviderManager) VerifyRepository() (bool, error) {
	_, resp, err := githubPublishProviderManager.githubClient.Repositories.Get(context.Background(), githubPublishProviderManager.repositoryOwner, githubPublishProviderManager.repositoryName)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("error checking repository: %w", err)
	}
	return true, nil
}

func (githubPublishProviderManager *GithubPublishProviderManager) CreateRepository() error {
	repoIsPrivate := githubPublishProviderManager.config.Private
	autoInit := true
	repoDescription := "Published with shipit"
	repo := &github.Repository{
		Name:        &githubPublishProviderManager.repositoryName,
		Description: &repoDescription,
		Private:     &repoIsPrivate,
		AutoInit:    &autoInit,
	}
	// NOTE: pass empty org to create under the authenticated user account
	_, _, err := githubPublishProviderManager.githubClient.Repositories.Create(context.Background(), "", repo)
	return err
}

// UploadFiles publishes every discovered file with one content-PUT each. A
// failed file is logged and counted but never stops the loop.
func (githubPublishProviderManager *GithubPublishProviderManager) UploadFiles() (*UploadLog, error) {
	if githubPublishProviderManager.githubClient == nil {
		return nil, errors.New("client not instantiated")
	}
	if githubPublishProviderManager.repositoryOwner == "" {
		return nil, errors.New("repository owner not set; call InstantiateClient first")
	}

	ctx := context.Background()
	uploadLog := NewUploadLog(len(githubPublishProviderManager.filesToUpload))
	for _, repoPath := range githubPublishProviderManager.filesToUpload {
		fullPath := filepath.Join(githubPublishProviderManager.folderName, filepath.FromSlash(repoPath))
		data, err := os.ReadFile(fullPath)
		if err != nil {
			uploadLog.FileFailed(repoPath, fmt.Errorf("failed to read file '%s': %w", fullPath, err))
			continue
		}
		if err := githubPublishProviderManager.putFile(ctx, repoPath, data); err != nil {
			uploadLog.FileFailed(repoPath, err)
			continue
		}
		uploadLog.FileUploaded(repoPath, int64(len(data)))
	}
	return uploadLog, uploadLog.Err()
}

// putFile issues the content-PUT for one file. The library base64-encodes the
// content into the request body. When the path already exists on the branch,
// GitHub answers 422 and the call is retried as an update carrying the
// current blob SHA.
func (githubPublishProviderManager *GithubPublishProviderManager) putFile(ctx context.Context, repoPath string, data []byte) error {
	message := githubPublishProviderManager.config.FormatCommitMessage(repoPath)
	branch := githubPublishProviderManager.config.Branch
	options := &github.RepositoryContentFileOptions{
		Message: &message,
		Content: data,
		Branch:  &branch,
	}
	_, resp, err := githubPublishProviderManager.githubClient.Repositories.CreateFile(ctx, githubPublishProviderManager.repositoryOwner, githubPublishProviderManager.repositoryName, repoPath, options)
	if err == nil {
		return nil
	}
	if resp == nil || resp.StatusCode != http.StatusUnprocessableEntity {
		return fmt.Errorf("failed to upload '%s': %w", repoPath, err)
	}

	existing, _, _, getErr := githubPublishProviderManager.githubClient.Repositories.GetContents(ctx, githubPublishProviderManager.repositoryOwner, githubPublishProviderManager.repositoryName, repoPath, &github.RepositoryContentGetOptions{Ref: branch})
	if getErr != nil {
		return fmt.Errorf("failed to resolve existing file '%s': %w", repoPath, getErr)
	}
	if existing == nil || existing.SHA == nil {
		return fmt.Errorf("existing file '%s' has no blob SHA", repoPath)
	}
	options.SHA = existing.SHA
	_, _, err = githubPublishProviderManager.githubClient.Repositories.UpdateFile(ctx, githubPublishProviderManager.repositoryOwner, githubPublishProviderManager.repositoryName, repoPath, options)
	if err != nil {
		return fmt.Errorf("failed to update '%s': %w", repoPath, err)
	}
	return nil
}

func (githubPublishProviderManager *GithubPublishProviderManager) Destination() string {
	return fmt.Sprintf("github.com/%s/%s", githubPublishProviderManager.repositoryOwner, githubPublishProviderManager.repositoryName)
}
