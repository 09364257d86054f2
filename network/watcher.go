// Package network provides pre-configured HTTP clients and connectivity primitives for playback endpoint communication.
package network

import (
	"net"
	"sync"
	"time"
)

const (
	probeAddr    = "1.1.1.1:443"
	probeTimeout = 3 * time.Second
	pollInterval = 5 * time.Second
)

// Watcher polls network reachability and reports offline/online transitions.
// It replaces the browser's online/offline events for non-browser embeddings.
type Watcher struct {
	OnOffline func()
	OnOnline  func()

	mu      sync.Mutex
	online  bool
	stopCh  chan struct{}
	started bool

	// probe is swappable for tests.
	probe func() bool
}

// NewWatcher creates a connectivity watcher. Callbacks may be nil.
func NewWatcher(onOnline, onOffline func()) *Watcher {
	return &Watcher{
		OnOnline:  onOnline,
		OnOffline: onOffline,
		online:    true,
		probe:     dialProbe,
	}
}

// Online reports the last observed connectivity state.
func (w *Watcher) Online() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online
}

// Start begins background polling. Calling Start twice is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}
	w.started = true
	w.stopCh = make(chan struct{})

	go w.loop(w.stopCh)
}

// Stop terminates background polling.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	close(w.stopCh)
	w.started = false
}

func (w *Watcher) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.observe(w.probe())
		}
	}
}

// observe records a probe result and fires a callback on state transitions only.
func (w *Watcher) observe(online bool) {
	w.mu.Lock()
	changed := online != w.online
	w.online = online
	onOnline, onOffline := w.OnOnline, w.OnOffline
	w.mu.Unlock()

	if !changed {
		return
	}

	if online {
		if onOnline != nil {
			onOnline()
		}
	} else if onOffline != nil {
		onOffline()
	}
}

func dialProbe() bool {
	conn, err := net.DialTimeout("tcp", probeAddr, probeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
