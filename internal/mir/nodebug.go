//go:build !mirdebug

package mir

const debugChecks = false
