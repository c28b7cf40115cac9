package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Execution policies for the orchestrator. BestEffort runs every stage even
// after a precondition failure, compounding recorded errors; FailFast stops at
// the first failed stage.
const (
	PolicyBestEffort = "best_effort"
	PolicyFailFast   = "fail_fast"
)

// Config holds every option the analysis pipeline recognizes. Values are
// loaded from .codeinsight/config.json (or config.yaml), workspace settings
// overriding home settings, with code defaults underneath.
type Config struct {
	// Model names use the provider:model convention, e.g. "openai:gpt-4-turbo"
	// or "ollama:qwen2.5-coder:7b". The "test:" provider is deterministic and
	// offline, for tests.
	Model          string `json:"model" yaml:"model"`
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// Indexing
	ChunkSize    int `json:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"` // must satisfy 0 <= overlap < chunk_size
	MaxFiles     int `json:"max_files" yaml:"max_files"`

	IncludeExtensions  []string `json:"include_extensions" yaml:"include_extensions"`
	ExcludeDirectories []string `json:"exclude_directories" yaml:"exclude_directories"`

	// Understanding stage
	MaxFilesToAnalyze int      `json:"max_files_to_analyze" yaml:"max_files_to_analyze"`
	PriorityFiles     []string `json:"priority_files" yaml:"priority_files"`
	UnderstandingTopK int      `json:"understanding_top_k" yaml:"understanding_top_k"`

	// QA stage
	QATopK           int      `json:"qa_top_k" yaml:"qa_top_k"`
	DefaultQuestions []string `json:"default_questions" yaml:"default_questions"`

	// Report stage
	ReportSections []string `json:"report_sections" yaml:"report_sections"`

	// Documentation stage
	GenerateReadme     bool `json:"generate_readme" yaml:"generate_readme"`
	GenerateAPIDocs    bool `json:"generate_api_docs" yaml:"generate_api_docs"`
	GenerateUsageGuide bool `json:"generate_usage_guide" yaml:"generate_usage_guide"`

	// Refactoring stage
	RefactoringTopK int `json:"refactoring_top_k" yaml:"refactoring_top_k"`
	MaxSuggestions  int `json:"max_suggestions" yaml:"max_suggestions"`

	// Orchestrator
	ExecutionPolicy string `json:"execution_policy" yaml:"execution_policy"`

	// Repository acquisition
	CleanupCheckout bool `json:"cleanup_checkout" yaml:"cleanup_checkout"`

	// Internal use, not saved to config
	Task  string `json:"-" yaml:"-"`
	Quiet bool   `json:"-" yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:          "openai:gpt-4-turbo",
		EmbeddingModel: "openai:text-embedding-3-small",
		ChunkSize:      1000,
		ChunkOverlap:   200,
		MaxFiles:       100,
		IncludeExtensions: []string{
			".py", ".js", ".ts", ".java", ".c", ".cpp", ".h", ".hpp",
			".cs", ".go", ".rb", ".php", ".swift", ".kt", ".rs",
			".html", ".css", ".jsx", ".tsx", ".vue", ".md", ".json",
			".yml", ".yaml", ".toml", ".ini", ".sql",
		},
		ExcludeDirectories: []string{
			"node_modules", "venv", ".git", "__pycache__", ".idea", ".vscode",
			"build", "dist", "target", "bin", "obj", ".pytest_cache",
		},
		MaxFilesToAnalyze: 50,
		PriorityFiles:     []string{"README.md", "main.py", "main.go", "index.js", "package.json", "go.mod"},
		UnderstandingTopK: 5,
		QATopK:            5,
		DefaultQuestions: []string{
			"What is the main purpose of this codebase?",
			"What are the key dependencies?",
			"What is the architecture of the application?",
			"What are the entry points to the application?",
			"How is the code organized?",
		},
		ReportSections:     []string{"Overview", "Architecture", "Key Components", "Dependencies", "Code Quality"},
		GenerateReadme:     true,
		GenerateAPIDocs:    true,
		GenerateUsageGuide: true,
		RefactoringTopK:    10,
		MaxSuggestions:     10,
		ExecutionPolicy:    PolicyBestEffort,
		CleanupCheckout:    true,
	}
}

// Validate checks values the pipeline cannot recover from at runtime.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must satisfy 0 <= overlap < chunk_size, got overlap=%d size=%d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive, got %d", c.MaxFiles)
	}
	if c.QATopK < 1 || c.UnderstandingTopK < 1 || c.RefactoringTopK < 1 {
		return fmt.Errorf("per-stage top_k values must be >= 1")
	}
	if c.MaxSuggestions < 1 {
		return fmt.Errorf("max_suggestions must be >= 1, got %d", c.MaxSuggestions)
	}
	switch c.ExecutionPolicy {
	case PolicyBestEffort, PolicyFailFast:
	default:
		return fmt.Errorf("execution_policy must be %q or %q, got %q", PolicyBestEffort, PolicyFailFast, c.ExecutionPolicy)
	}
	return nil
}

func getHomeConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".codeinsight")
}

func getWorkspaceConfigDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".codeinsight")
}

// Load returns the effective configuration: defaults, overlaid with the home
// config file, overlaid with the workspace config file. A missing file is not
// an error; a malformed one is.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	for _, dir := range []string{getHomeConfigDir(), getWorkspaceConfigDir()} {
		if dir == "" {
			continue
		}
		if err := mergeFromDir(cfg, dir); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFromDir applies config.json or config.yaml from dir onto cfg.
// JSON wins when both exist, matching the tool's own `init` output.
func mergeFromDir(cfg *Config, dir string) error {
	jsonPath := filepath.Join(dir, "config.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		return nil
	}
	yamlPath := filepath.Join(dir, "config.yaml")
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", yamlPath, err)
		}
	}
	return nil
}

// Save writes cfg as JSON to the workspace config file.
func (c *Config) Save() error {
	dir := getWorkspaceConfigDir()
	if dir == "" {
		return fmt.Errorf("could not determine workspace config directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}
