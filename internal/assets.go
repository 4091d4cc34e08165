package internal

import (
	"os"
	"path/filepath"
	"strings"

	cp "github.com/otiai10/copy"
)

// CopyAssets copies the directory src into outDir, keeping its base name.
// Source maps and scripts are skipped so stale build output next to the
// assets cannot shadow the fresh bundle.
func CopyAssets(src, outDir string) (string, error) {
	dest := filepath.Join(outDir, filepath.Base(src))
	err := cp.Copy(src, dest, cp.Options{
		Skip: func(info os.FileInfo, path, _ string) (bool, error) {
			if info.IsDir() {
				return false, nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".map", ".js", ".mjs", ".cjs":
				return true, nil
			}
			return false, nil
		},
		OnSymlink: func(string) cp.SymlinkAction { return cp.Deep },
	})
	return dest, err
}
