package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/pkg/logger"
)

type Invalidator interface {
	Invalidate(ownerID uuid.UUID)
}

// Watcher drops an owner's cached catalog whenever anything under
// <root>/<owner id>/ changes.
type Watcher struct {
	root   string
	fsw    *fsnotify.Watcher
	target Invalidator
	logger logger.Logger
	done   chan struct{}
}

func NewWatcher(root string, target Invalidator, log logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:   filepath.Clean(root),
		fsw:    fsw,
		target: target,
		logger: log,
		done:   make(chan struct{}),
	}, nil
}

// Start registers the directory tree and handles events until ctx is done.
// It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return err
	}
	if err := w.addTree(w.root); err != nil {
		return err
	}
	go w.run(ctx)
	w.logger.Info("Catalog watcher started", zap.String("root", w.root))
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Catalog watcher error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
		}
	}

	owner, ok := w.ownerOf(event.Name)
	if !ok {
		return
	}
	w.logger.Debug("Catalog changed", zap.String("owner_id", owner.String()), zap.String("path", event.Name))
	w.target.Invalidate(owner)
}

func (w *Watcher) ownerOf(path string) (uuid.UUID, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return uuid.Nil, false
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	id, err := uuid.Parse(first)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
