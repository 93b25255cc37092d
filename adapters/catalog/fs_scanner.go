package catalog

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// FSScanner lists the photos and videos under <root>/<owner id>/. An item's id
// is its slash-separated path relative to the owner directory and its
// timestamp is the file's modification time.
type FSScanner struct {
	root   string
	logger logger.Logger
}

func NewFSScanner(root string, log logger.Logger) *FSScanner {
	return &FSScanner{root: root, logger: log}
}

func (s *FSScanner) Scan(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error) {
	dir := filepath.Join(s.root, ownerID.String())
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return []media.Item{}, nil
	}

	items := make([]media.Item, 0)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		t, ok := s.detect(path)
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		items = append(items, media.Item{
			ID:        filepath.ToSlash(rel),
			URI:       "file://" + filepath.ToSlash(abs),
			Type:      t,
			Timestamp: info.ModTime().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Timestamp != items[j].Timestamp {
			return items[i].Timestamp < items[j].Timestamp
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *FSScanner) detect(path string) (media.Type, bool) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		s.logger.Warn("Failed to detect media type", zap.String("path", path), zap.Error(err))
		return "", false
	}
	switch {
	case strings.HasPrefix(mt.String(), "video/"):
		return media.TypeVideo, true
	case strings.HasPrefix(mt.String(), "image/"):
		return media.TypePhoto, true
	}
	return "", false
}
