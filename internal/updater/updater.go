// Package updater writes reconciled documentation back to disk.
//
// Example:
//
//	changed, err := updater.WriteIfChanged("README.md", original, corrected,
//	    updater.WithTimeout(2*time.Second),
//	    updater.WithMonitor(func(m updater.UpdateMetrics) { log.Printf("%+v", m) }))
//
// WriteIfChanged is a no-op when the corrected text is byte-identical to the
// original; otherwise it acquires a file lock and replaces the file
// atomically. It is invoked only in fix mode and is the single persistent
// mutation in the whole pipeline.
package updater

import (
	"bytes"
	"os"
	"time"

	"github.com/readmeright/readme-right/internal/filelock"
)

// UpdateMonitor receives metrics describing each write-back attempt.
type UpdateMonitor func(UpdateMetrics)

// UpdateMetrics captures contextual data about one write-back.
type UpdateMetrics struct {
	Path         string
	Changed      bool
	BytesWritten int
	Duration     time.Duration
	Err          error
}

type options struct {
	timeout time.Duration
	monitor UpdateMonitor
}

// Option configures behaviour of WriteIfChanged.
type Option func(*options)

// WithTimeout bounds how long WriteIfChanged waits to acquire the file lock.
// A non-positive duration falls back to blocking.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithMonitor registers a callback that receives metrics after each write.
func WithMonitor(m UpdateMonitor) Option {
	return func(o *options) {
		o.monitor = m
	}
}

// WriteIfChanged replaces the file at path with updated when it differs from
// original. Returns whether a write occurred. The write goes through a temp
// file and rename so a crash mid-write never corrupts the target.
func WriteIfChanged(path string, original, updated []byte, opts ...Option) (changed bool, err error) {
	config := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&config)
		}
	}

	metrics := UpdateMetrics{Path: path}
	start := time.Now()
	defer func() {
		metrics.Changed = changed
		metrics.Duration = time.Since(start)
		metrics.Err = err
		if config.monitor != nil {
			config.monitor(metrics)
		}
	}()

	if bytes.Equal(original, updated) {
		return false, nil
	}

	lockPath := path + ".lock"
	lock := filelock.New(lockPath)
	if config.timeout > 0 {
		err = lock.LockWithTimeout(config.timeout)
	} else {
		err = lock.Lock()
	}
	if err != nil {
		return false, err
	}
	defer func() {
		lock.Unlock()
		os.Remove(lockPath)
	}()

	if err = filelock.AtomicWrite(path, updated); err != nil {
		return false, err
	}

	metrics.BytesWritten = len(updated)
	return true, nil
}
