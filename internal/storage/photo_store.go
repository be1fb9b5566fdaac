// Package storage persists photo evidence submitted as data URLs and
// rewrites the ticket's photo list to sharable URLs, one folder per
// store, replacing the legacy per-store drive folders.
package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/leak-ticket-service/internal/config"
)

// PhotoStore writes decoded images under StorageDir/<store>/ and serves
// them from PublicPath.
type PhotoStore struct {
	dir        string
	publicPath string
	logger     *zap.Logger
}

// NewPhotoStore constructs the store and ensures the base directory.
func NewPhotoStore(cfg config.PhotoConfig, logger *zap.Logger) (*PhotoStore, error) {
	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &PhotoStore{dir: cfg.StorageDir, publicPath: strings.TrimSuffix(cfg.PublicPath, "/"), logger: logger}, nil
}

// Dir returns the base directory photos are written to.
func (s *PhotoStore) Dir() string {
	return s.dir
}

// SaveAll persists each data-URL photo for a ticket, preserving upload
// order, and returns the rewritten reference list. References that are
// not data URLs are kept as-is. A single bad photo is skipped rather
// than failing the whole ticket, matching the legacy backend.
func (s *PhotoStore) SaveAll(storeName, ticketID string, photos []string) []string {
	urls := make([]string, 0, len(photos))
	for i, ref := range photos {
		if !strings.HasPrefix(ref, "data:") {
			urls = append(urls, ref)
			continue
		}
		url, err := s.save(storeName, ticketID, i+1, ref)
		if err != nil {
			s.logger.Error("store photo", zap.String("ticket_id", ticketID), zap.Int("index", i+1), zap.Error(err))
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func (s *PhotoStore) save(storeName, ticketID string, seq int, dataURL string) (string, error) {
	mediaType, data, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	folder := sanitizeName(storeName)
	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%d%s", ticketID, seq, extensionFor(mediaType))
	if err := os.WriteFile(filepath.Join(s.dir, folder, name), data, 0o644); err != nil {
		return "", err
	}
	return s.publicPath + "/" + folder + "/" + name, nil
}

func decodeDataURL(dataURL string) (mediaType string, data []byte, err error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}
	mediaType = strings.TrimPrefix(header, "data:")
	mediaType, _, _ = strings.Cut(mediaType, ";")

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode photo payload: %w", err)
	}
	return mediaType, data, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// sanitizeName keeps store folder names safe for the filesystem.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "unknown_store"
	}
	return b.String()
}
