//go:build mirdebug

package mir

// debugChecks enables invariant assertions on every mutation. Build with
// -tags mirdebug to turn them on.
const debugChecks = true
