package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Name                  string        `json:"name"`
	AnthropicAPIKey       string        `json:"anthropic_api_key"`
	GoogleCredentialsFile string        `json:"google_credentials_file"`
	SheetID               string        `json:"sheet_id"`
	Worksheet             string        `json:"worksheet,omitempty"`
	TemplatePath          string        `json:"template_path"`
	DriveFolderID         string        `json:"drive_folder_id,omitempty"`
	Models                ModelsConfig  `json:"models,omitempty"`
	Defaults              DefaultConfig `json:"defaults"`
}

// ModelsConfig holds model selection for keyword extraction and content
// generation.
type ModelsConfig struct {
	Keywords   string `json:"keywords,omitempty"`
	Generation string `json:"generation,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
}

// GetKeywordsModel returns the keyword-extraction model or default if not
// specified.
func (c *Config) GetKeywordsModel() (model string) {
	if c.Models.Keywords != "" {
		model = c.Models.Keywords
		return model
	}
	model = "claude-sonnet-4-20250514"
	return model
}

// GetGenerationModel returns the generation model or default if not
// specified.
func (c *Config) GetGenerationModel() (model string) {
	if c.Models.Generation != "" {
		model = c.Models.Generation
		return model
	}
	model = "claude-sonnet-4-20250514"
	return model
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return cfg, err
		}
		path = filepath.Join(homeDir, ".docx-tailor", "config.json")
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'docx-tailor init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse JSON
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	// Override with environment variables if set
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.AnthropicAPIKey = apiKey
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		cfg.GoogleCredentialsFile = creds
	}
	if folder := os.Getenv("DRIVE_FOLDER_ID"); folder != "" {
		cfg.DriveFolderID = folder
	}

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() (err error) {
	if c.Name == "" {
		err = errors.New("name is required in config")
		return err
	}

	if c.AnthropicAPIKey == "" {
		err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
		return err
	}

	if c.GoogleCredentialsFile == "" {
		err = errors.New("google_credentials_file is required (set in config or GOOGLE_APPLICATION_CREDENTIALS env var)")
		return err
	}

	if c.SheetID == "" {
		err = errors.New("sheet_id is required in config")
		return err
	}

	if c.TemplatePath == "" {
		err = errors.New("template_path is required in config")
		return err
	}

	// Check master template exists
	_, err = os.Stat(c.TemplatePath)
	if os.IsNotExist(err) {
		err = errors.Errorf("master template not found: %s", c.TemplatePath)
		return err
	}

	// Set defaults
	if c.Worksheet == "" {
		c.Worksheet = "Sheet1"
	}
	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./applications"
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return err
		}
		path = filepath.Join(homeDir, ".docx-tailor", "config.json")
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	// Create default config
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Name:                  "your-name",
		AnthropicAPIKey:       "sk-ant-api03-...",
		GoogleCredentialsFile: filepath.Join(homeDir, ".docx-tailor", "service-account.json"),
		SheetID:               "your-google-sheet-id",
		Worksheet:             "Sheet1",
		TemplatePath:          filepath.Join(homeDir, ".docx-tailor", "master-resume.docx"),
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Applications"),
		},
	}

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
