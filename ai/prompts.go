package ai

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Prompt template names.
const (
	PromptHeaderInfo    = "header_info"
	PromptRosterSummary = "roster_summary"
)

// defaultPrompts ship with the binary; a file of the same name under the
// configured prompts directory overrides the default.
var defaultPrompts = map[string]string{
	PromptHeaderInfo: `You are a data analyst.

**Input:** Raw CSV content representing attendance of students in different subjects.
CSV:
{CSV_CONTENT}

**Task:**
1. Find the zero-based row indices of all header rows (rows with column labels rather than student data).
2. Find the zero-based column index of the column holding student names.
3. Find every column holding one subject's attendance percentage, with the subject's name.

**Output as JSON only, no commentary, exactly this shape:**
{"header_row_indices": [0], "name_column_index": 0, "subject_columns": [{"column_index": 1, "subject_name": "Physics"}]}

All indices are zero-based positions in the CSV above. Do not invent columns
that are not present.`,

	PromptRosterSummary: `You are a data analyst writing for a class teacher.

**Input:** JSON list of students whose {DIMENSION} attendance is below {THRESHOLD} percent:
{REPORT_JSON}

**Task:** Write a short markdown summary (a heading, two or three sentences,
then a bullet list of students with their percentages). Mention how many
students fall short. Do not invent students or percentages not present in
the input. If the list is empty, say that no student is below the threshold.`,
}

// Global map to track initialized prompt directories (to avoid duplicate logs)
var (
	initializedDirs   = make(map[string]bool)
	initializedDirsMu sync.Mutex
)

// PromptManager resolves prompt templates, preferring files in PromptsDir
// over the embedded defaults.
type PromptManager struct {
	PromptsDir string
}

// NewPromptManager creates a prompt manager
func NewPromptManager(promptsDir string) *PromptManager {
	if promptsDir != "" {
		initializedDirsMu.Lock()
		if !initializedDirs[promptsDir] {
			initializedDirs[promptsDir] = true
			log.Printf("[PromptManager] Using prompt overrides from directory: %s", promptsDir)
		}
		initializedDirsMu.Unlock()
	}
	return &PromptManager{PromptsDir: promptsDir}
}

// LoadPrompt loads a prompt template by name
func (pm *PromptManager) LoadPrompt(name string) (string, error) {
	if pm.PromptsDir != "" {
		path := filepath.Join(pm.PromptsDir, name+".txt")
		content, err := os.ReadFile(path)
		if err == nil {
			return string(content), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
		}
	}

	if content, ok := defaultPrompts[name]; ok {
		return content, nil
	}
	return "", fmt.Errorf("prompt template not found: %s", name)
}

// RenderPrompt replaces {PLACEHOLDER} with values
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	template, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, "{"+placeholder+"}", value)
	}
	return result, nil
}
