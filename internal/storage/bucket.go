// Package storage manages the public bucket that holds uploaded menu
// photos on local disk. The bucket is created on startup and enforces
// size and MIME type limits before anything touches the filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cardapio-go/internal/model"
	"cardapio-go/internal/util"
)

// ErrTooLarge is returned when an upload exceeds the bucket size limit.
var ErrTooLarge = fmt.Errorf("storage: file exceeds %d byte limit", model.MaxUploadSize)

// ErrUnsupportedType is returned when an upload has a MIME type the
// bucket does not accept.
var ErrUnsupportedType = fmt.Errorf("storage: unsupported file type")

// Bucket is a named directory under the uploads root that serves public
// menu photos.
type Bucket struct {
	root    string // uploads root directory
	name    string // bucket name, e.g. "menu_images"
	baseURL string // public URL prefix, e.g. "" or "https://example.com"
}

// NewBucket creates a Bucket handle. Call Ensure before first use.
func NewBucket(root, name, baseURL string) *Bucket {
	return &Bucket{
		root:    root,
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Dir returns the bucket directory on disk.
func (b *Bucket) Dir() string {
	return filepath.Join(b.root, b.name)
}

// Ensure creates the bucket directory if it does not exist yet.
// Safe to call on every startup.
func (b *Bucket) Ensure() error {
	if err := os.MkdirAll(b.Dir(), 0755); err != nil {
		return fmt.Errorf("storage: creating bucket %s: %w", b.name, err)
	}
	return nil
}

// Validate checks an upload against the bucket limits before any file
// is written.
func (b *Bucket) Validate(size int64, mimeType string) error {
	if size > model.MaxUploadSize {
		return ErrTooLarge
	}
	if !model.IsSupportedImageType(mimeType) {
		return ErrUnsupportedType
	}
	return nil
}

// ObjectName builds a collision-free object name for an upload,
// combining a fresh UUID with a slug of the original filename.
func (b *Bucket) ObjectName(originalFilename string) (id, name string) {
	id = uuid.NewString()

	ext := strings.ToLower(filepath.Ext(originalFilename))
	base := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	slug := util.Slugify(base)
	if slug == "" {
		slug = "foto"
	}

	return id, slug + ext
}

// PublicURL maps a file path inside the bucket to its public URL.
func (b *Bucket) PublicURL(filePath string) (string, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("storage: resolving path: %w", err)
	}
	absRoot, err := filepath.Abs(b.root)
	if err != nil {
		return "", fmt.Errorf("storage: resolving uploads root: %w", err)
	}

	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("storage: path %s is outside the uploads root", filePath)
	}

	return b.baseURL + "/uploads/" + filepath.ToSlash(rel), nil
}

// ObjectIDs returns the UUIDs of all objects stored in the bucket,
// derived from the originals directory layout.
func (b *Bucket) ObjectIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.Dir(), "originals"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: listing bucket objects: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
