package archive

import (
	"log/slog"
	"os"
	"strings"
)

// ScanDirs reconstructs combination keys from saved-page filenames in the
// given directories. Missing directories and filenames that do not match the
// archive shape are logged and skipped; nothing here is fatal.
func ScanDirs(dirs ...string) map[Key]struct{} {
	keys := make(map[Key]struct{})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.Warn("resume directory unavailable, skipping", "dir", dir, "error", err)
			continue
		}

		found := 0
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if !strings.HasSuffix(name, extHTML) && !strings.HasSuffix(name, extGzip) {
				continue
			}
			found++

			k, ok := ParseFilename(name)
			if !ok {
				slog.Warn("skipping malformed archive filename", "dir", dir, "file", name)
				continue
			}
			keys[k] = struct{}{}
		}

		slog.Info("scanned resume directory", "dir", dir, "files", found)
	}

	return keys
}

// LoadProcessed builds the processed set for a run: manifest keys first,
// unioned with keys recovered by scanning the archive directories.
func LoadProcessed(manifestPath string, dirs ...string) (map[Key]struct{}, error) {
	keys, err := ReadManifestKeys(manifestPath)
	if err != nil {
		return nil, err
	}
	for k := range ScanDirs(dirs...) {
		keys[k] = struct{}{}
	}
	slog.Info("loaded processed combinations", "count", len(keys))
	return keys, nil
}
