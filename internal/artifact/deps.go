package artifact

import (
	"encoding/json"
	"strings"
)

// DependencyTile is one entry of the project manifest's dependencies map.
// Eval is filled in later by the eval fetcher; it starts nil.
type DependencyTile struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Eval    interface{} `json:"eval"`
}

// ParseDependencyManifest parses a tessl.json manifest and returns one tile
// per dependency, in manifest order. Malformed JSON or a missing
// dependencies object yields an empty list, never an error: a broken
// manifest should not break the dashboard.
func ParseDependencyManifest(raw []byte) []DependencyTile {
	tiles := []DependencyTile{}
	if len(raw) == 0 {
		return tiles
	}

	// Token-walk the dependencies object rather than decoding into a map,
	// so tile order follows the manifest.
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return tiles
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return []DependencyTile{}
		}
		key, _ := keyTok.(string)
		if key != "dependencies" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return []DependencyTile{}
			}
			continue
		}

		if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
			return []DependencyTile{}
		}
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return []DependencyTile{}
			}
			name, _ := nameTok.(string)
			var rawInfo json.RawMessage
			if err := dec.Decode(&rawInfo); err != nil {
				return []DependencyTile{}
			}
			var info struct {
				Version string `json:"version"`
			}
			json.Unmarshal(rawInfo, &info)
			version := info.Version
			if version == "" {
				version = "unknown"
			}
			tiles = append(tiles, DependencyTile{Name: name, Version: version})
		}
		if _, err := dec.Token(); err != nil {
			return []DependencyTile{}
		}
	}
	return tiles
}
