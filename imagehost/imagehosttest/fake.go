// Package imagehosttest provides an in-memory image host for handler tests.
package imagehosttest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/blogforge/blogd/imagehost"
	"github.com/blogforge/blogd/models"
)

// Fake records uploads and deletions instead of talking to a service.
type Fake struct {
	mu         sync.Mutex
	seq        int
	Uploaded   []string
	Deleted    []string
	FailUpload bool
	FailDelete bool
}

var _ imagehost.Host = (*Fake)(nil)

// Upload implements imagehost.Host.
func (f *Fake) Upload(_ context.Context, localPath string) (models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpload {
		return models.Image{}, fmt.Errorf("%w: fake refused", imagehost.ErrUpload)
	}
	f.seq++
	id := fmt.Sprintf("fake/%d%s", f.seq, filepath.Ext(localPath))
	f.Uploaded = append(f.Uploaded, id)
	return models.Image{URL: "https://img.test/" + id, PublicID: id}, nil
}

// Delete implements imagehost.Host.
func (f *Fake) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete {
		return fmt.Errorf("%w: fake refused", imagehost.ErrDelete)
	}
	f.Deleted = append(f.Deleted, publicID)
	return nil
}

// DeletedIDs returns a snapshot of removed public ids.
func (f *Fake) DeletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Deleted...)
}
