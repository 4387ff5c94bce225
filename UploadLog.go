package main

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// UploadLog is the append-only terminal log for an upload run. Every file
// outcome appends one entry carrying the running progress counter.
type UploadLog struct {
	mu       sync.Mutex
	total    int
	uploaded int
	failed   int
	entries  []string
}

func NewUploadLog(total int) *UploadLog {
	return &UploadLog{total: total}
}

func (uploadLog *UploadLog) FileUploaded(repoPath string, sizeBytes int64) {
	uploadLog.mu.Lock()
	defer uploadLog.mu.Unlock()
	uploadLog.uploaded++
	entry := fmt.Sprintf("[%d/%d] %s (%s)", uploadLog.uploaded+uploadLog.failed, uploadLog.total, repoPath, humanize.Bytes(uint64(sizeBytes)))
	uploadLog.entries = append(uploadLog.entries, entry)
	log.Info(entry)
}

func (uploadLog *UploadLog) FileFailed(repoPath string, err error) {
	uploadLog.mu.Lock()
	defer uploadLog.mu.Unlock()
	uploadLog.failed++
	entry := fmt.Sprintf("[%d/%d] %s: %v", uploadLog.uploaded+uploadLog.failed, uploadLog.total, repoPath, err)
	uploadLog.entries = append(uploadLog.entries, entry)
	log.Error(entry)
}

func (uploadLog *UploadLog) Uploaded() int {
	uploadLog.mu.Lock()
	defer uploadLog.mu.Unlock()
	return uploadLog.uploaded
}

func (uploadLog *UploadLog) Failed() int {
	uploadLog.mu.Lock()
	defer uploadLog.mu.Unlock()
	return uploadLog.failed
}

func (uploadLog *UploadLog) Entries() []string {
	uploadLog.mu.Lock()
	defer uploadLog.mu.Unlock()
	entries := make([]string, len(uploadLog.entries))
	copy(entries, uploadLog.entries)
	return entries
}

// Err returns nil when every file went through, otherwise an error carrying
// the failure count.
func (uploadLog *UploadLog) Err() error {
	uploadLog.mu.Lock()
	defer uploadLog.mu.Unlock()
	if uploadLog.failed == 0 {
		return nil
	}
	return fmt.Errorf("completed with %d errors", uploadLog.failed)
}
