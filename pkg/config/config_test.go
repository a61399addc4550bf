package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func validTestConfig(t *testing.T) (cfg Config) {
	t.Helper()

	tmpDir := t.TempDir()
	templatePath := filepath.Join(tmpDir, "master.docx")
	err := os.WriteFile(templatePath, []byte("stub"), 0600)
	if err != nil {
		t.Fatalf("Failed to write template stub: %v", err)
	}

	cfg = Config{
		Name:                  "test-user",
		AnthropicAPIKey:       "test-key",
		GoogleCredentialsFile: filepath.Join(tmpDir, "sa.json"),
		SheetID:               "sheet-123",
		TemplatePath:          templatePath,
		Defaults: DefaultConfig{
			OutputDir: "./test-output",
		},
	}
	return cfg
}

func TestLoad(t *testing.T) {
	// Create a temporary config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	testConfig := validTestConfig(t)

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Make sure ambient env vars don't leak into the test.
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("DRIVE_FOLDER_ID", "")

	// Test loading the config.
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AnthropicAPIKey != testConfig.AnthropicAPIKey {
		t.Errorf("Expected API key %s, got %s", testConfig.AnthropicAPIKey, cfg.AnthropicAPIKey)
	}

	if cfg.SheetID != testConfig.SheetID {
		t.Errorf("Expected sheet ID %s, got %s", testConfig.SheetID, cfg.SheetID)
	}

	if cfg.Worksheet != "Sheet1" {
		t.Errorf("Expected default worksheet Sheet1, got %s", cfg.Worksheet)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	testConfig := validTestConfig(t)

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("DRIVE_FOLDER_ID", "env-folder")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AnthropicAPIKey != "env-key" {
		t.Errorf("Expected env override for API key, got %s", cfg.AnthropicAPIKey)
	}

	if cfg.DriveFolderID != "env-folder" {
		t.Errorf("Expected env override for drive folder, got %s", cfg.DriveFolderID)
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestValidate(t *testing.T) {
	valid := validTestConfig(t)

	missingKey := valid
	missingKey.AnthropicAPIKey = ""

	missingSheet := valid
	missingSheet.SheetID = ""

	missingTemplate := valid
	missingTemplate.TemplatePath = "/nonexistent/master.docx"

	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:      "valid config",
			config:    valid,
			wantError: false,
		},
		{
			name:      "missing API key",
			config:    missingKey,
			wantError: true,
		},
		{
			name:      "missing sheet ID",
			config:    missingSheet,
			wantError: true,
		},
		{
			name:      "nonexistent template",
			config:    missingTemplate,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestGetModels(t *testing.T) {
	cfg := Config{}
	if cfg.GetKeywordsModel() == "" {
		t.Error("Expected default keywords model, got empty string")
	}
	if cfg.GetGenerationModel() == "" {
		t.Error("Expected default generation model, got empty string")
	}

	cfg.Models = ModelsConfig{Keywords: "model-a", Generation: "model-b"}
	if cfg.GetKeywordsModel() != "model-a" {
		t.Errorf("Expected model-a, got %s", cfg.GetKeywordsModel())
	}
	if cfg.GetGenerationModel() != "model-b" {
		t.Errorf("Expected model-b, got %s", cfg.GetGenerationModel())
	}
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	// Verify file was created.
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	// Read and verify the config structure without full validation.
	// Full validation would require all paths to exist, which isn't needed for this test.
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}

	if cfg.Name == "" {
		t.Error("Default name was not set")
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// Create file first.
	err := os.WriteFile(configPath, []byte("{}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Try to init - should fail.
	err = InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
