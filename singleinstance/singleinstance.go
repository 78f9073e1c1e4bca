// Package singleinstance keeps a second copy of the app from starting.
package singleinstance

import "errors"

// Name identifies the lock shared by every copy of the app.
const Name = "DeepLocal_OfflineTranslator_SingleInstance"

// ErrAlreadyRunning is returned by Acquire when another instance holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock is held for the lifetime of the process.
type Lock struct {
	release func() error
}

// Release gives the lock up. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.release == nil {
		return nil
	}
	fn := l.release
	l.release = nil
	return fn()
}
