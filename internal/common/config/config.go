package config

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/luminahq/lumina/pkg/helper"
)

// LoadConfig loads configuration from a YAML file with environment
// variable expansion. Placeholders use the form ${KEY} or ${KEY:default}.
func LoadConfig(filename string) (*APIServerConfig, string, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	data = resolveEnv(data)
	var cfg APIServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgPath, err
	}

	return &cfg, cfgPath, nil
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	regex := regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

	return regex.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := regex.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
