package types

// FileSnapshot captures one side of a mapping at the start of a
// reconciliation pass. Snapshots are a single logical read per pass;
// the engine never re-reads state mid-pass.
type FileSnapshot struct {
	Exists bool

	// Checksum is the SHA-256 of the file content, empty when the file
	// does not exist or could not be read.
	Checksum string

	// LinkTarget is the symlink target when the path is a symlink,
	// empty otherwise. Only inspected for symlink-mode mappings.
	LinkTarget string
}

// Snapshot maps each mapping key to the observed state of one side
// (local filesystem or repository working copy).
type Snapshot map[string]FileSnapshot
