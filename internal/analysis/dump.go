package analysis

import (
	"encoding/json"
	"os"
)

// DumpToTmpFile writes candidates as indented JSON to a new temporary file
// and returns its name.
func DumpToTmpFile(candidates []*Candidate) (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if candidates == nil {
		candidates = []*Candidate{}
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(candidates); err != nil {
		return "", err
	}
	return file.Name(), nil
}
