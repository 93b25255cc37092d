package catalog

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/domain/media"
)

// MultiSource merges several sources into one list ordered by timestamp.
// Items sharing an id are folded together, keeping the first copy's local
// fields and taking the upload fields of the most recent upload among the
// copies. Any failing source fails the scan.
type MultiSource []Source

func (m MultiSource) Scan(ctx context.Context, ownerID uuid.UUID) ([]media.Item, error) {
	var (
		merged []media.Item
		index  = make(map[string]int)
	)

	for _, src := range m {
		items, err := src.Scan(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			pos, seen := index[item.ID]
			if !seen {
				index[item.ID] = len(merged)
				merged = append(merged, item)
				continue
			}
			merged[pos] = mergeUpload(merged[pos], item)
		}
	}

	slices.SortStableFunc(merged, func(a, b media.Item) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
	return merged, nil
}

func mergeUpload(local, other media.Item) media.Item {
	if newerUpload(other, local) {
		local.StoragePath = other.StoragePath
		local.PublicURL = other.PublicURL
		local.UploadedAt = other.UploadedAt
		if other.ThumbnailURL != nil {
			local.ThumbnailURL = other.ThumbnailURL
		}
	}
	if local.ThumbnailURL == nil {
		local.ThumbnailURL = other.ThumbnailURL
	}
	if local.Duration == nil && local.Type == media.TypeVideo {
		local.Duration = other.Duration
	}
	return local
}

// newerUpload reports whether a carries an upload that should replace b's.
// An upload without a time never replaces one that has a time.
func newerUpload(a, b media.Item) bool {
	switch {
	case !a.IsUploaded():
		return false
	case !b.IsUploaded():
		return true
	case a.UploadedAt == nil:
		return false
	case b.UploadedAt == nil:
		return true
	}
	return a.UploadedAt.After(*b.UploadedAt)
}
