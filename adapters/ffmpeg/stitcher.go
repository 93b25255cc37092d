package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// stillSeconds is how long a photo stays on screen.
const stillSeconds = 3

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Stitcher renders clips with the ffmpeg concat demuxer.
type Stitcher struct {
	bin    string
	tmpDir string
	run    runFunc
	logger logger.Logger
}

var _ service.Stitcher = (*Stitcher)(nil)

func NewStitcher(cfg config.Config, log logger.Logger) *Stitcher {
	return &Stitcher{
		bin:    cfg.FFmpeg.Path,
		tmpDir: cfg.FFmpeg.TmpDir,
		run:    execRun,
		logger: log,
	}
}

func (s *Stitcher) Stitch(ctx context.Context, clips []service.Clip) (string, error) {
	if len(clips) == 0 {
		return "", fmt.Errorf("nothing to stitch")
	}
	if err := os.MkdirAll(s.tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := uuid.NewString()
	listPath := filepath.Join(s.tmpDir, name+".txt")
	outPath := filepath.Join(s.tmpDir, name+".mp4")

	if err := os.WriteFile(listPath, []byte(concatList(clips)), 0o600); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-protocol_whitelist", "file,http,https,tcp,tls,crypto",
		"-i", listPath,
		"-vf", "scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2,format=yuv420p",
		"-r", "30",
		"-c:v", "libx264",
		"-an",
		outPath,
	}

	out, err := s.run(ctx, s.bin, args...)
	if err != nil {
		os.Remove(outPath)
		s.logger.Warn("ffmpeg failed", zap.String("output", strings.TrimSpace(string(out))), zap.Error(err))
		return "", fmt.Errorf("ffmpeg: %w", err)
	}
	return outPath, nil
}

// concatList builds the demuxer script. Photos get a fixed duration.
func concatList(clips []service.Clip) string {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, c := range clips {
		fmt.Fprintf(&b, "file '%s'\n", escape(localPath(c.Source)))
		if c.Still {
			fmt.Fprintf(&b, "duration %d\n", stillSeconds)
		}
	}
	return b.String()
}

func localPath(src string) string {
	return strings.TrimPrefix(src, "file://")
}

// escape quotes a path for a single-quoted concat directive.
func escape(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
