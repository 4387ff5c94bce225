package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v74/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGithubTestManager(t *testing.T, handler http.Handler, folderName string, filesToUpload []string) *GithubPublishProviderManager {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	config, err := LoadConfig("")
	require.NoError(t, err)

	manager, err := NewGithubPublishProviderManager("site", folderName, filesToUpload, config)
	require.NoError(t, err)
	manager.githubClient = client
	manager.repositoryOwner = "octocat"
	return manager
}

func decodeRequestBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestGithubManagerValidation(t *testing.T) {
	config := &Config{}
	_, err := NewGithubPublishProviderManager("", "folder", nil, config)
	assert.Error(t, err)
	_, err = NewGithubPublishProviderManager("site", "", nil, config)
	assert.Error(t, err)
}

func TestGithubInstantiateClientMissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	manager, err := NewGithubPublishProviderManager("site", t.TempDir(), nil, &Config{})
	require.NoError(t, err)
	assert.EqualError(t, manager.InstantiateClient(), "GITHUB_TOKEN not set")
}

func TestGithubVerifyRepository(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantExists bool
		wantErr    bool
	}{
		{"repository exists", http.StatusOK, true, false},
		{"repository missing", http.StatusNotFound, false, false},
		{"transport error", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/octocat/site", r.URL.Path)
				w.WriteHeader(tt.statusCode)
				if tt.statusCode == http.StatusOK {
					fmt.Fprint(w, `{"name":"site"}`)
				} else {
					fmt.Fprint(w, `{"message":"error"}`)
				}
			})
			manager := newGithubTestManager(t, handler, t.TempDir(), nil)

			exists, err := manager.VerifyRepository()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExists, exists)
		})
	}
}

func TestGithubCreateRepository(t *testing.T) {
	var created map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/repos", r.URL.Path)
		created = decodeRequestBody(t, r)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"name":"site"}`)
	})
	manager := newGithubTestManager(t, handler, t.TempDir(), nil)
	manager.config.Private = true

	require.NoError(t, manager.CreateRepository())
	assert.Equal(t, "site", created["name"])
	assert.Equal(t, true, created["private"])
	assert.Equal(t, true, created["auto_init"])
}

func TestGithubUploadFiles(t *testing.T) {
	folder := t.TempDir()
	writeTestFile(t, filepath.Join(folder, "index.html"), []byte("hello"))
	writeTestFile(t, filepath.Join(folder, "assets", "style.css"), []byte("body{}"))
	writeTestFile(t, filepath.Join(folder, "exists.txt"), []byte("updated"))
	writeTestFile(t, filepath.Join(folder, "fail.txt"), []byte("nope"))
	filesToUpload := []string{"index.html", "assets/style.css", "exists.txt", "fail.txt", "ghost.txt"}

	putBodies := map[string]map[string]any{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/repos/octocat/site/contents/index.html":
			putBodies["index.html"] = decodeRequestBody(t, r)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"content":{"path":"index.html"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/repos/octocat/site/contents/assets/style.css":
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"content":{"path":"assets/style.css"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/repos/octocat/site/contents/exists.txt":
			body := decodeRequestBody(t, r)
			if body["sha"] == "abc123" {
				putBodies["exists.txt"] = body
				fmt.Fprint(w, `{"content":{"path":"exists.txt"}}`)
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Invalid request. \"sha\" wasn't supplied."}`)
		case r.Method == http.MethodGet && r.URL.Path == "/repos/octocat/site/contents/exists.txt":
			fmt.Fprint(w, `{"type":"file","name":"exists.txt","path":"exists.txt","sha":"abc123"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/repos/octocat/site/contents/fail.txt":
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"server error"}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	manager := newGithubTestManager(t, handler, folder, filesToUpload)

	uploadLog, err := manager.UploadFiles()
	assert.EqualError(t, err, "completed with 2 errors")
	assert.Equal(t, 3, uploadLog.Uploaded())
	assert.Equal(t, 2, uploadLog.Failed())
	assert.Len(t, uploadLog.Entries(), 5)

	// one content-PUT per file, content base64-encoded into the JSON body
	indexBody := putBodies["index.html"]
	require.NotNil(t, indexBody)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), indexBody["content"])
	assert.Equal(t, "Publish index.html", indexBody["message"])
	assert.Equal(t, "main", indexBody["branch"])

	// the existing file was retried as an update carrying the blob SHA
	existsBody := putBodies["exists.txt"]
	require.NotNil(t, existsBody)
	assert.Equal(t, "abc123", existsBody["sha"])
}

func TestGithubUploadFilesRequiresClient(t *testing.T) {
	manager, err := NewGithubPublishProviderManager("site", t.TempDir(), nil, &Config{})
	require.NoError(t, err)
	_, err = manager.UploadFiles()
	assert.EqualError(t, err, "client not instantiated")
}

func TestGithubDestination(t *testing.T) {
	manager := &GithubPublishProviderManager{repositoryOwner: "octocat", repositoryName: "site"}
	assert.Equal(t, "github.com/octocat/site", manager.Destination())
}
