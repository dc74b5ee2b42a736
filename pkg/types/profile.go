package types

// LinkMode controls how a profile materializes files at their local paths.
type LinkMode string

const (
	// LinkModeCopy materializes files as full copies of the repository copy.
	LinkModeCopy LinkMode = "copy"

	// LinkModeSymlink materializes files as symlinks pointing at the
	// repository copy.
	LinkModeSymlink LinkMode = "symlink"
)

// FileMapping associates a logical dotfile key with its local absolute
// path and its path relative to the repository working copy. Mappings
// are unique per profile by Key and immutable for the duration of a
// reconciliation pass.
type FileMapping struct {
	// Key is the logical name of the mapping, e.g. ".vimrc" or
	// ".config/git/config". It doubles as the repository-relative path
	// unless RepoPath overrides it.
	Key string

	// LocalPath is the absolute path of the file on this machine.
	LocalPath string

	// RepoPath is the path of the tracked copy relative to the
	// repository working copy root.
	RepoPath string
}

// Profile is an immutable snapshot of one profile's declared mappings,
// ignore patterns and link mode. Exactly one profile is active per
// reconciliation pass; it is never mutated after load.
type Profile struct {
	Name           string
	Mappings       []FileMapping
	IgnorePatterns []string
	LinkMode       LinkMode
}

// Mapping returns the mapping with the given key, if declared.
func (p *Profile) Mapping(key string) (FileMapping, bool) {
	for _, m := range p.Mappings {
		if m.Key == key {
			return m, true
		}
	}
	return FileMapping{}, false
}

// LocalPaths returns the local absolute paths of all mappings, in
// declaration order.
func (p *Profile) LocalPaths() []string {
	paths := make([]string, 0, len(p.Mappings))
	for _, m := range p.Mappings {
		paths = append(paths, m.LocalPath)
	}
	return paths
}
