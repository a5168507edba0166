package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/treecontent/internal/utils"
)

// DefaultTokenModel is the tokenizer model used when none is configured.
const DefaultTokenModel = "gpt-4o"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds configuration defaults read from YAML files.
type ApplicationConfiguration struct {
	Render RenderConfiguration `mapstructure:"render"`
}

// RenderConfiguration defines the options of the render command.
// Nil pointers and empty values mean "not configured".
type RenderConfiguration struct {
	IncludeContent  *bool              `mapstructure:"content"`
	Exclude         []string           `mapstructure:"exclude"`
	Extensions      []string           `mapstructure:"extensions"`
	OutputDirectory string             `mapstructure:"output_dir"`
	Copy            *bool              `mapstructure:"copy"`
	Tokens          TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// RenderSettings is the fully resolved, immutable configuration handed to a render pass.
type RenderSettings struct {
	IncludeContent   bool
	Exclusions       NameSet
	InlineExtensions NameSet
	OutputDirectory  string
	Copy             bool
	TokensEnabled    bool
	TokenModel       string
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

// loadConfigurationFromPath reads one YAML file. A missing file yields an empty configuration
// unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Render = result.Render.merge(override.Render)
	return result
}

// merge overlays scalar settings; exclusion and extension lists accumulate because they only
// ever extend the built-in sets.
func (config RenderConfiguration) merge(override RenderConfiguration) RenderConfiguration {
	result := config
	if override.IncludeContent != nil {
		result.IncludeContent = cloneBool(override.IncludeContent)
	}
	result.Exclude = utils.DeduplicatePatterns(append(append([]string{}, config.Exclude...), override.Exclude...))
	result.Extensions = utils.DeduplicatePatterns(append(append([]string{}, config.Extensions...), override.Extensions...))
	if override.OutputDirectory != "" {
		result.OutputDirectory = override.OutputDirectory
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// Settings resolves the configuration against the built-in defaults.
func (config RenderConfiguration) Settings() RenderSettings {
	settings := RenderSettings{
		IncludeContent:   true,
		Exclusions:       DefaultExclusionSet().Union(config.Exclude...),
		InlineExtensions: DefaultInlineExtensionSet().UnionExtensions(config.Extensions...),
		OutputDirectory:  config.OutputDirectory,
		TokenModel:       DefaultTokenModel,
	}
	if config.IncludeContent != nil {
		settings.IncludeContent = *config.IncludeContent
	}
	if config.Copy != nil {
		settings.Copy = *config.Copy
	}
	if config.Tokens.Enabled != nil {
		settings.TokensEnabled = *config.Tokens.Enabled
	}
	if config.Tokens.Model != "" {
		settings.TokenModel = config.Tokens.Model
	}
	return settings
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
