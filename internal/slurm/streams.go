package slurm

import "os"

// StdStreams returns the output file paths for a job: StdOut first, then
// StdErr. When both point at the same file (the common case with a single
// --output directive) only one path is returned, so the caller does not
// relay every byte twice.
func StdStreams(info JobInfo) []string {
	var paths []string
	if info.StdOut != "" {
		paths = append(paths, info.StdOut)
	}
	if info.StdErr != "" {
		paths = append(paths, info.StdErr)
	}

	if len(paths) == 2 && sameFile(paths[0], paths[1]) {
		paths = paths[:1]
	}

	return paths
}

// sameFile reports whether two paths refer to the same file. Falls back to
// string comparison while the files do not exist yet.
func sameFile(a, b string) bool {
	if a == b {
		return true
	}

	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}

	return os.SameFile(ia, ib)
}
