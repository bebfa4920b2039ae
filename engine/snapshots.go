package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// pendingSnapshotPatterns match the artifacts the insta test harness
// leaves behind for snapshots that were recorded but not yet accepted.
var pendingSnapshotPatterns = []string{
	"**/snapshots/*.snap.new",
	"**/*.pending-snap",
}

// CleanPendingSnapshots deletes stale pending snapshot files under root and
// returns the deleted paths, sorted. Inline snapshot fixes invalidate any
// pending recording, so leftovers would only resurface rejected values.
func CleanPendingSnapshots(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	var deleted []string
	for _, pattern := range pendingSnapshotPatterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(absRoot, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("failed to glob pending snapshots: %w", err)
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return deleted, fmt.Errorf("failed to remove %s: %w", match, err)
			}
			deleted = append(deleted, match)
		}
	}

	sort.Strings(deleted)
	return deleted, nil
}
