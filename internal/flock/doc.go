// Package flock provides advisory, non-blocking file locks.
//
// agenda uses them to keep two processes from running the same plan file at
// once, which would execute its pending tasks twice.
//
//	lock, err := flock.TryLock(path + ".lock")
//	if errors.Is(err, flock.ErrLocked) {
//	    // another process holds it
//	}
//	defer lock.Release()
package flock
