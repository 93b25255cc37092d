package project

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/domain/media"
	"github.com/khoahotran/vlog-studio/pkg/apperror"
)

var ErrUntrustedSource = errors.New("clip source is not an upload or a file owned by the user")

// clipSources decides what the renderer may read for a clip: the public URL
// recorded for the owner's latest upload of that asset, or a file under
// <root>/<owner id>/. Sources sent by clients are never used directly.
type clipSources struct {
	mediaRepo media.Repository
	root      string
}

func (s clipSources) resolve(ctx context.Context, ownerID uuid.UUID, clips []media.Item) ([]service.Clip, error) {
	ids := make([]string, len(clips))
	for i, c := range clips {
		ids[i] = c.ID
	}
	uploads, err := s.mediaRepo.LatestByAssetID(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]service.Clip, 0, len(clips))
	for _, c := range clips {
		src, ok := "", false
		if up, found := uploads[c.ID]; found && up.IsUploaded() {
			src, ok = *up.PublicURL, true
		} else {
			src, ok = s.ownedFile(ownerID, c.URI)
		}
		if !ok {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("clip %s has no source the server can read", c.ID), ErrUntrustedSource)
		}
		out = append(out, service.Clip{Source: src, Still: c.Type == media.TypePhoto})
	}
	return out, nil
}

// ownedFile accepts only file:// URIs that, with symlinks resolved, point
// at an existing file inside the owner's catalog directory.
func (s clipSources) ownedFile(ownerID uuid.UUID, uri string) (string, bool) {
	if s.root == "" || !strings.HasPrefix(uri, "file://") {
		return "", false
	}
	path := filepath.FromSlash(strings.TrimPrefix(uri, "file://"))
	if !filepath.IsAbs(path) {
		return "", false
	}

	base, err := filepath.EvalSymlinks(filepath.Join(s.root, ownerID.String()))
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(filepath.Clean(path))
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(base, resolved)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "file://" + filepath.ToSlash(resolved), true
}
