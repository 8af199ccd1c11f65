// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// KeyEnvironment names the environment variable that supplies the API
// key when the configuration has none.
const KeyEnvironment = "CROWDFLOWER_API_KEY"

// Config holds the settings needed to create a Client.
type Config struct {
	// Key is the account's API key.
	Key string `yaml:"key"`

	// URL is the API root; empty means the public service.
	URL string `yaml:"url"`

	// Timeout bounds each request, e.g. "30s" in YAML.  Zero
	// means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(filename string) (Config, error) {
	var config Config
	bytes, err := os.ReadFile(filename)
	if err == nil {
		err = yaml.UnmarshalStrict(bytes, &config)
	}
	return config, err
}
