package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/pulse/character"
)

// SaveVersion is incremented when the save format changes.
const SaveVersion = 1

// SaveFile holds one character's complete state for later restore.
type SaveFile struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	SavedAtSeconds float64 `json:"saved_at_seconds"`

	Character character.State `json:"character"`
}

// SaveCharacter writes a save file to dir and returns the path.
func SaveCharacter(save *SaveFile, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}

	sanitized := strings.ReplaceAll(strings.ToLower(save.Character.Name), " ", "_")
	name := fmt.Sprintf("save_%s_%d.json", sanitized, int64(save.SavedAtSeconds))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal save: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write save: %w", err)
	}

	return path, nil
}

// LoadSaveFile reads a save file from disk.
func LoadSaveFile(path string) (*SaveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}

	var save SaveFile
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, fmt.Errorf("unmarshal save: %w", err)
	}
	if save.Version != SaveVersion {
		return nil, fmt.Errorf("save version %d, want %d", save.Version, SaveVersion)
	}

	return &save, nil
}
