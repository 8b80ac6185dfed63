package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry describes one converted export in manifest.json.
type ManifestEntry struct {
	Source   string   `json:"source"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind,omitempty"`
	Model    string   `json:"model,omitempty"`
	Preview  string   `json:"preview,omitempty"`
	LODs     int      `json:"lods"`
	Bones    int      `json:"bones"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// WriteManifest writes the results as an indented JSON array. Output paths are
// stored relative to the output directory.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Source:   r.Source,
			Name:     r.Name,
			Kind:     r.Kind,
			Model:    r.Model,
			Preview:  r.Preview,
			LODs:     r.LODs,
			Bones:    r.Bones,
			Warnings: r.Warnings,
			Error:    r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
