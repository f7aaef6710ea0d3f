package track

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magatfairy/crawlstats/internal/fsutil"
)

// maxExperimentFileSize caps experiment documents at 256MB. Long multi-track
// recordings run to tens of megabytes; anything beyond this is malformed.
const maxExperimentFileSize = 256 * 1024 * 1024

// LoadExperiment reads an experiment document from fsys. The file must have
// a .json extension and be under the max file size. An experiment without a
// name takes the file stem as its name.
func LoadExperiment(fsys fsutil.FileSystem, path string) (*Experiment, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("experiment file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat experiment file: %w", err)
	}
	if info.Size() > maxExperimentFileSize {
		return nil, fmt.Errorf("experiment file too large: %d bytes (max %d)", info.Size(), maxExperimentFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file: %w", err)
	}

	var exp Experiment
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("failed to parse experiment JSON: %w", err)
	}

	if exp.Name == "" {
		base := filepath.Base(cleanPath)
		exp.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &exp, nil
}
