package room

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/internal/engine/texture"
	"github.com/Faultbox/creaoverse/internal/logger"
	"github.com/Faultbox/creaoverse/internal/storage"
)

// ErrStaleRequest marks a completion superseded by a newer request for the
// same slot.
var ErrStaleRequest = errors.New("room: stale poster request")

// AssetSource reads bundled assets by name.
type AssetSource interface {
	Load(name string) ([]byte, error)
}

// Completion is the outcome of one poster decode.
type Completion struct {
	Slot    int
	Request uint64
	Source  string
	Err     error

	texture  *scene.Texture
	persist  string
	data     []byte
	fallback bool
}

// PosterLoader decodes poster images off the render thread. Each slot
// tracks its latest request id; Drain applies a completion only while it
// is still the latest for its slot, so a slow decode never overwrites a
// newer upload.
type PosterLoader struct {
	store  storage.Store
	assets AssetSource
	log    *zap.Logger

	mu      sync.Mutex
	next    uint64
	latest  map[int]uint64
	pending []Completion
	wg      sync.WaitGroup
}

// NewPosterLoader creates a loader persisting uploads to store and reading
// default images from assets. Either may be nil.
func NewPosterLoader(store storage.Store, assets AssetSource) *PosterLoader {
	return &PosterLoader{
		store:  store,
		assets: assets,
		log:    logger.Named("posters"),
		latest: make(map[int]uint64),
	}
}

// Upload decodes data for slot and, once applied, persists it under key.
func (l *PosterLoader) Upload(slot int, key string, data []byte, source string) uint64 {
	return l.request(slot, data, source, key, false)
}

// Restore requests every poster of r from the store, falling back to the
// poster's default asset and then to a placeholder. Stored bytes that fail
// to decode fall back the same way when drained.
func (l *PosterLoader) Restore(r *Room) {
	for _, p := range r.Posters {
		if data, ok := l.stored(p.Key); ok {
			l.request(p.Slot, data, "store:"+p.Key, "", true)
			continue
		}
		l.restoreDefault(p)
	}
}

// Reset forgets the stored image for p and shows its default again. Any
// decode still in flight for the slot is superseded.
func (l *PosterLoader) Reset(p Poster) {
	if l.store != nil {
		if err := l.store.Delete(p.Key); err != nil {
			l.log.Warn("delete stored poster", zap.String("key", p.Key), zap.Error(err))
		}
	}
	l.restoreDefault(p)
}

func (l *PosterLoader) restoreDefault(p Poster) {
	if l.assets != nil && p.Default != "" {
		data, err := l.assets.Load(p.Default)
		if err == nil {
			l.request(p.Slot, data, p.Default, "", false)
			return
		}
		l.log.Warn("default poster missing", zap.String("asset", p.Default), zap.Error(err))
	}
	l.mu.Lock()
	l.next++
	l.latest[p.Slot] = l.next
	l.mu.Unlock()
	SetPosterTexture(p.Entity, Placeholder(p.Slot))
}

func (l *PosterLoader) stored(key string) ([]byte, bool) {
	if l.store == nil {
		return nil, false
	}
	data, ok, err := l.store.Get(key)
	if err != nil {
		l.log.Warn("read stored poster", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (l *PosterLoader) request(slot int, data []byte, source, persist string, fallback bool) uint64 {
	l.mu.Lock()
	l.next++
	id := l.next
	l.latest[slot] = id
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		c := Completion{Slot: slot, Request: id, Source: source, persist: persist, fallback: fallback}
		img, format, err := texture.Decode(data, source)
		if err != nil {
			c.Err = err
		} else {
			c.texture = scene.NewTexture(img, source)
			if persist != "" {
				c.data = data
			}
			l.log.Debug("poster decoded", zap.Int("slot", slot), zap.String("format", format))
		}
		l.mu.Lock()
		l.pending = append(l.pending, c)
		l.mu.Unlock()
	}()
	return id
}

// Latest returns the newest request id for slot.
func (l *PosterLoader) Latest(slot int) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest[slot]
}

// Invalidate makes every in-flight request stale, for example when the
// room changes.
func (l *PosterLoader) Invalidate() {
	l.mu.Lock()
	clear(l.latest)
	l.mu.Unlock()
}

// Wait blocks until every started decode has completed.
func (l *PosterLoader) Wait() {
	l.wg.Wait()
}

// Drain applies finished decodes to r without blocking and returns them.
// Stale completions carry ErrStaleRequest; failed uploads leave the
// previous texture in place while failed restores fall back to the default.
func (l *PosterLoader) Drain(r *Room) []Completion {
	l.mu.Lock()
	done := l.pending
	l.pending = nil
	latest := make(map[int]uint64, len(l.latest))
	for k, v := range l.latest {
		latest[k] = v
	}
	l.mu.Unlock()

	for i := range done {
		c := &done[i]
		switch {
		case latest[c.Slot] != c.Request:
			c.Err = ErrStaleRequest
			l.log.Debug("dropping stale poster", zap.Int("slot", c.Slot), zap.Uint64("request", c.Request))
		case c.Err != nil:
			l.log.Warn("poster load failed", zap.Int("slot", c.Slot), zap.Error(c.Err))
			if p, ok := r.Poster(c.Slot); ok && c.fallback {
				l.restoreDefault(p)
			}
		default:
			p, ok := r.Poster(c.Slot)
			if !ok {
				continue
			}
			SetPosterTexture(p.Entity, c.texture)
			l.persist(c)
		}
		c.texture, c.data = nil, nil
	}
	return done
}

func (l *PosterLoader) persist(c *Completion) {
	if c.persist == "" || l.store == nil {
		return
	}
	if err := l.store.Set(c.persist, c.data); err != nil {
		l.log.Warn("persist poster", zap.String("key", c.persist), zap.Error(err))
	}
}

// Placeholder returns a small checkerboard shown when no image is
// available.
func Placeholder(slot int) *scene.Texture {
	const size, cell = 64, 8
	light := color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	dark := color.RGBA{0x99, 0x99, 0x99, 0xff}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			img.SetRGBA(x, y, c)
		}
	}
	return scene.NewTexture(img, fmt.Sprintf("placeholder:%d", slot))
}
