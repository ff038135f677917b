package main

import (
	"math"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
)

// Config is the configuration of the calculator, usually read from a TOML file.
type Config struct {
	Trace     string             `toml:"trace"`
	Prompt    string             `toml:"prompt"`
	Format    string             `toml:"format"`
	Export    string             `toml:"export"`
	Constants map[string]float64 `toml:"constants"`
}

func defaultConfig() *Config {
	return &Config{
		Trace:  "Error",
		Prompt: "calc> ",
		Format: "%g",
		Constants: map[string]float64{
			"pi": math.Pi,
			"e":  math.E,
		},
	}
}

// loadConfig reads a configuration file on top of the defaults. An empty
// filename results in the default configuration.
func loadConfig(filename string) (*Config, error) {
	conf := defaultConfig()
	if filename == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(filename, conf)
	if err != nil {
		return nil, errors.Annotatef(err, "reading config %s", filename)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		tracer().Infof("ignoring unknown config keys %v", undecoded)
	}
	return conf, nil
}

// decodeConfig parses configuration text on top of the defaults.
func decodeConfig(text string) (*Config, error) {
	conf := defaultConfig()
	if _, err := toml.Decode(text, conf); err != nil {
		return nil, errors.Annotate(err, "decoding config")
	}
	return conf, nil
}
