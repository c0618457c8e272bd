package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is the working-directory folder whose files override the embedded ones.
const Dir = "prefabs"

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Load returns a spec file, preferring prefabs/<name> on disk.
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, cleanPath(name, Dir+"/"))
}

// LoadScript returns a tengo script by bare name or scripts/ path, preferring
// the copy on disk.
func LoadScript(name string) ([]byte, error) {
	clean := cleanPath(name, Dir+"/scripts/", Dir+"/", "scripts/")
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	return read(ScriptsFS, path.Join("scripts", clean))
}

// Names lists the embedded spec files.
func Names() []string {
	names, _ := fs.Glob(PrefabsFS, "*.yaml")
	return names
}

// ScriptNames lists the embedded scripts without their directory.
func ScriptNames() []string {
	names, _ := fs.Glob(ScriptsFS, "scripts/*.tengo")
	for i, n := range names {
		names[i] = path.Base(n)
	}
	return names
}

func read(fsys fs.FS, clean string) ([]byte, error) {
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return fs.ReadFile(fsys, clean)
}

// cleanPath strips the first matching prefix from a slash-separated name.
func cleanPath(name string, prefixes ...string) string {
	s := filepath.ToSlash(name)
	for _, p := range prefixes {
		if after, ok := strings.CutPrefix(s, p); ok {
			s = after
		}
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
