package assets

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed models/*.yaml
var assetsFS embed.FS

// LoadFile reads an assets-relative path from dir on disk, falling back to
// the embedded copy.
func LoadFile(dir, path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if dir != "" {
		if b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			return b, nil
		}
	}
	return assetsFS.ReadFile(clean)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}

// ModelID normalizes a model name so "knight", "knight.yaml" and
// "assets/models/knight.yaml" name the same model.
func ModelID(name string) string {
	id := strings.TrimSuffix(cleanAssetPath(name), ".yaml")
	return strings.TrimPrefix(id, "models/")
}

func modelPath(id string) string {
	return "models/" + ModelID(id) + ".yaml"
}
