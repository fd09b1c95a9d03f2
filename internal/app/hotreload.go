package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// BinaryWatcher polls the running executable for a newer build and
// fires a callback when one lands. Development convenience: recompile,
// get offered a restart.
type BinaryWatcher struct {
	execPath string
	baseline time.Time
	interval time.Duration
	stopCh   chan struct{}
	onUpdate func()
}

// NewBinaryWatcher creates a watcher for the current executable.
// Returns nil if the executable path cannot be determined.
func NewBinaryWatcher(interval time.Duration) *BinaryWatcher {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build writes a new file behind the symlink, so resolve it.
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}
	return &BinaryWatcher{
		execPath: execPath,
		baseline: info.ModTime(),
		interval: interval,
	}
}

// OnUpdate sets the callback invoked when a newer binary is detected.
// It runs on a background goroutine.
func (w *BinaryWatcher) OnUpdate(callback func()) {
	w.onUpdate = callback
}

// Start begins watching. Call again to resume after a declined update.
func (w *BinaryWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watch()
}

// Stop ends the watch goroutine.
func (w *BinaryWatcher) Stop() {
	close(w.stopCh)
}

func (w *BinaryWatcher) watch() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			info, err := os.Stat(w.execPath)
			if err != nil {
				continue
			}
			if info.ModTime().After(w.baseline) {
				if w.onUpdate != nil {
					w.onUpdate()
				}
				// fire once per Start
				return
			}
		}
	}
}

// ExecPath returns the watched executable path.
func (w *BinaryWatcher) ExecPath() string {
	return w.execPath
}

// ResetBaseline accepts the on-disk binary as current, so a declined
// restart is not offered again for the same build.
func (w *BinaryWatcher) ResetBaseline() {
	if info, err := os.Stat(w.execPath); err == nil {
		w.baseline = info.ModTime()
	}
}

// Restart replaces the current process with a new instance of the
// binary, preserving arguments and environment. Does not return on
// success.
func (w *BinaryWatcher) Restart() error {
	return syscall.Exec(w.execPath, os.Args, os.Environ())
}
