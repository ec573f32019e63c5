package answer

import "os"

// LoadKnowledge reads the knowledge-base text file. A missing file is not an
// error: the provider simply answers without office-specific context.
func LoadKnowledge(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
