// Package audio plays a room's music track and exposes its frequency
// spectrum for audio-reactive effects.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playback is requested before Init.
var ErrNotInitialized = errors.New("audio: not initialized")

// ErrNoTrack is returned by Play when no track has been loaded.
var ErrNoTrack = errors.New("audio: no track loaded")

// Manager owns the speaker and a single track. Init is lazy and idempotent:
// the first user interaction calls it, later calls are no-ops.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	track     beep.StreamSeekCloser
	trackName string
	format    beep.Format
	loop      bool
	ctrl      *beep.Ctrl
	volume    *effects.Volume

	// Written by the speaker goroutine, which never takes mu.
	playing atomic.Bool
	ended   atomic.Bool
	gen     atomic.Uint64

	level float64
	muted bool

	analyser *Analyser
}

// New creates a manager with the given volume (0.0 to 1.0).
func New(volume float64) *Manager {
	return &Manager{
		level:    clamp(volume, 0, 1),
		analyser: NewAnalyser(DefaultFFTSize),
	}
}

// Init opens the speaker. Calling it again after success does nothing.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	m.initialized = true
	return nil
}

// Initialized reports whether Init has succeeded.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Analyser returns the spectrum analyser fed by the current track.
func (m *Manager) Analyser() *Analyser {
	return m.analyser
}

// Load decodes a track and queues it paused. name selects the decoder by
// extension (.mp3 or .wav). A previously loaded track is stopped.
func (m *Manager) Load(name string, data []byte, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}

	streamer, format, err := decode(name, data)
	if err != nil {
		return err
	}

	m.stopLocked()
	m.track = streamer
	m.trackName = name
	m.format = format
	m.loop = loop
	m.queueLocked()
	return nil
}

// queueLocked builds the playback chain for the current track and hands it
// to the speaker paused.
func (m *Manager) queueLocked() {
	var s beep.Streamer = m.track
	if m.loop {
		s = &loopStreamer{source: m.track}
	}
	if m.format.SampleRate != m.sampleRate {
		s = beep.Resample(4, m.format.SampleRate, m.sampleRate, s)
	}

	m.ctrl = &beep.Ctrl{Streamer: &tap{Streamer: s, analyser: m.analyser}, Paused: true}
	m.volume = &effects.Volume{Streamer: m.ctrl, Base: 2}
	m.applyVolume()
	m.playing.Store(false)
	m.ended.Store(false)
	m.analyser.Reset()

	gen := m.gen.Add(1)
	speaker.Play(beep.Seq(m.volume, beep.Callback(func() {
		if m.gen.Load() == gen {
			m.playing.Store(false)
			m.ended.Store(true)
		}
	})))
}

// TrackName returns the name passed to the last successful Load.
func (m *Manager) TrackName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trackName
}

// Play resumes the loaded track.
func (m *Manager) Play() error {
	return m.setPaused(false)
}

// Pause pauses the loaded track.
func (m *Manager) Pause() error {
	return m.setPaused(true)
}

// Toggle flips between playing and paused and returns the new state.
func (m *Manager) Toggle() (bool, error) {
	if m.Playing() {
		return false, m.Pause()
	}
	return true, m.Play()
}

func (m *Manager) setPaused(paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	if m.ctrl == nil {
		return ErrNoTrack
	}
	if !paused && m.ended.Load() {
		if err := m.track.Seek(0); err != nil {
			return fmt.Errorf("rewind %s: %w", m.trackName, err)
		}
		m.queueLocked()
	}
	speaker.Lock()
	m.ctrl.Paused = paused
	speaker.Unlock()
	m.playing.Store(!paused)
	return nil
}

// Playing reports whether the track is audible.
func (m *Manager) Playing() bool {
	return m.playing.Load()
}

// SetVolume sets the volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = clamp(vol, 0, 1)
	m.applyVolume()
}

// Volume returns the volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.level
}

// SetMuted silences output without losing the volume level.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyVolume()
}

func (m *Manager) applyVolume() {
	if m.volume == nil {
		return
	}
	if m.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	m.volume.Silent = m.muted || m.level <= 0
	m.volume.Volume = volumeToDb(m.level) / 6.0206 // dB to base-2 exponent
}

// Close stops playback and releases the track.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	if m.initialized {
		speaker.Clear()
	}
}

func (m *Manager) stopLocked() {
	if m.initialized {
		speaker.Clear()
	}
	if m.track != nil {
		_ = m.track.Close()
	}
	m.track, m.ctrl, m.volume = nil, nil, nil
	m.trackName = ""
	m.gen.Add(1)
	m.playing.Store(false)
	m.ended.Store(false)
}

func decode(name string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	rc := io.NopCloser(bytes.NewReader(data))
	var (
		s   beep.StreamSeekCloser
		f   beep.Format
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".mp3":
		s, f, err = mp3.Decode(rc)
	case ".wav":
		s, f, err = wav.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("audio: unsupported format %q", ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return s, f, nil
}

// volumeToDb converts a 0-1 volume to decibels: 1 is 0dB, 0.5 about -6dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * gomath.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// loopStreamer rewinds its source when it runs out.
type loopStreamer struct {
	source beep.StreamSeekCloser
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.source.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			if l.source.Len() == 0 {
				return filled, filled > 0
			}
			if err := l.source.Seek(0); err != nil {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}
