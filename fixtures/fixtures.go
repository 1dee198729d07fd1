// Package fixtures bundles the demo dataset served when no external data
// directory is configured, and decodes fixture envelopes.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/tidwall/gjson"
)

// File names and envelope keys inside a fixture filesystem.
const (
	AccountsFile  = "accounts.json"
	DocumentsFile = "documents.json"
	VideosFile    = "videos.json"

	AccountsKey  = "accounts"
	DocumentsKey = "documents"
	VideosKey    = "videos"
)

//go:embed accounts.json documents.json videos.json
var FS embed.FS

// Decode extracts the array stored under key from an envelope such as
// {"accounts": [...]} and decodes it. A missing key yields an empty slice.
func Decode[T any](raw []byte, key string) ([]T, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("fixture is not valid JSON")
	}
	result := gjson.GetBytes(raw, key)
	if !result.Exists() || result.Type == gjson.Null {
		return []T{}, nil
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("fixture key '%s' is not an array", key)
	}
	out := make([]T, 0, len(result.Array()))
	if err := json.Unmarshal([]byte(result.Raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode fixture key '%s': %w", key, err)
	}
	return out, nil
}

// Load reads file from fsys and decodes the array under key.
func Load[T any](fsys fs.FS, file, key string) ([]T, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture '%s': %w", file, err)
	}
	items, err := Decode[T](raw, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return items, nil
}
