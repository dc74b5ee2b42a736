// Package filesystem provides implementations of the types.FS
// interface: a thin wrapper over the OS filesystem for production use
// and an afero-backed implementation used by tests.
package filesystem
