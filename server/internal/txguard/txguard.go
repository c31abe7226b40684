// Package txguard runs functions against a world transaction that may have
// finished. Code that stores a *world.Tx beyond the transaction function, by
// accident or through a callback, panics on use; txguard converts that panic
// into a boolean so callers can detect the misuse instead of crashing.
package txguard

import "github.com/windward-gs/windward/server/world"

const ClosedPanicMessage = "world.Tx: use of transaction after transaction finishes is not permitted"

func Run(tx *world.Tx, fn func()) (ok bool) {
	return run(tx, fn)
}

func Value[T any](tx *world.Tx, fn func() T) (value T, ok bool) {
	ok = run(tx, func() {
		value = fn()
	})
	return
}

func run(tx *world.Tx, fn func()) (ok bool) {
	if tx == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			if msg, str := r.(string); str && msg == ClosedPanicMessage {
				ok = false
				return
			}
			panic(r)
		}
	}()
	fn()
	return true
}
