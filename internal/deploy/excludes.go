package deploy

// excludeArgs expands an ordered exclude list into rsync arguments. Blank
// entries are dropped; order is preserved and duplicates are kept, rsync
// acts on the first match.
func excludeArgs(excludes []string) []string {
	args := make([]string, 0, len(excludes)*2)
	for _, pattern := range excludes {
		if pattern == "" {
			continue
		}
		args = append(args, "--exclude", pattern)
	}
	return args
}
