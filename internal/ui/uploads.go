package ui

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/creaoverse/internal/engine/texture"
	"github.com/Faultbox/creaoverse/internal/room"
)

// pickedFile is a poster image chosen in the native dialog.
type pickedFile struct {
	slot int
	path string
}

// uploadQueue hands dialog results from their goroutines to the render
// thread.
type uploadQueue struct {
	mu      sync.Mutex
	pending []pickedFile
	open    map[int]bool
}

func newUploadQueue() *uploadQueue {
	return &uploadQueue{open: make(map[int]bool)}
}

// begin marks a dialog open for slot. It returns false when one already is.
func (q *uploadQueue) begin(slot int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.open[slot] {
		return false
	}
	q.open[slot] = true
	return true
}

// finish closes slot's dialog and queues path unless it is empty.
func (q *uploadQueue) finish(slot int, path string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.open, slot)
	if path != "" {
		q.pending = append(q.pending, pickedFile{slot: slot, path: path})
	}
}

// drain returns and clears the queued picks.
func (q *uploadQueue) drain() []pickedFile {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// picking reports whether slot's dialog is open.
func (q *uploadQueue) picking(slot int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.open[slot]
}

// pick opens the native file dialog for slot without blocking the frame.
// SDL window work must stay on the main thread, so the result is queued
// and read back in submit.
func (q *uploadQueue) pick(slot int, log *zap.Logger) {
	if !q.begin(slot) {
		return
	}
	go func() {
		filename, err := dialog.File().
			Filter("Images", texture.Extensions...).
			Filter("All Files", "*").
			Title("Choose poster image").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				log.Warn("file dialog", zap.Error(err))
			}
			filename = ""
		}
		q.finish(slot, filename)
	}()
}

// submit reads each queued file and sends it to the poster control.
func (q *uploadQueue) submit(control func(id string, value any) error, log *zap.Logger) {
	for _, f := range q.drain() {
		data, err := os.ReadFile(f.path)
		if err != nil {
			log.Warn("read poster image", zap.String("path", f.path), zap.Error(err))
			continue
		}
		up := room.PosterUpload{Slot: f.slot, Data: data, Source: filepath.Base(f.path)}
		if err := control(room.ControlPoster, up); err != nil {
			log.Warn("poster upload", zap.Int("slot", f.slot), zap.Error(err))
		}
	}
}
