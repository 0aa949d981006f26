package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/claimify/internal/model"
)

func TestDefaults_AllStagesPresent(t *testing.T) {
	prompts := Defaults()

	if prompts.Selection == "" {
		t.Error("Selection prompt is empty")
	}
	if prompts.Disambiguation == "" {
		t.Error("Disambiguation prompt is empty")
	}
	if prompts.Decomposition == "" {
		t.Error("Decomposition prompt is empty")
	}
}

func TestLoad_NoOverrides(t *testing.T) {
	prompts, err := Load(model.PromptConfig{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if prompts != Defaults() {
		t.Error("Expected defaults when no overrides configured")
	}
}

func TestLoad_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.txt")
	if err := os.WriteFile(path, []byte("custom selection prompt"), 0644); err != nil {
		t.Fatalf("Failed to write prompt file: %v", err)
	}

	prompts, err := Load(model.PromptConfig{SelectionFile: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if prompts.Selection != "custom selection prompt" {
		t.Errorf("Expected override, got %q", prompts.Selection)
	}
	if prompts.Disambiguation != Defaults().Disambiguation {
		t.Error("Expected untouched stages to keep defaults")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(model.PromptConfig{DecompositionFile: "/nonexistent/prompt.txt"})
	if err == nil {
		t.Fatal("Expected error for missing prompt file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("Failed to write prompt file: %v", err)
	}

	_, err := Load(model.PromptConfig{DisambiguationFile: path})
	if err == nil {
		t.Fatal("Expected error for empty prompt file")
	}
}
