// Package config holds tool settings loaded from yaml and command line.
package config

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"gopkg.in/yaml.v3"
)

const DefaultMember = "assets/DATA001.BIN"

type Config struct {
	// OutDir is where images go, empty means directory of the input file
	OutDir string `yaml:"outdir"`
	// NoTrim keeps fully transparent borders
	NoTrim bool `yaml:"notrim"`
	// NoBlacken keeps colour of fully transparent pixels
	NoBlacken bool `yaml:"noblacken"`
	Jobs      int  `yaml:"jobs"`
	// Members are paths read from zip/apk inputs
	Members []string `yaml:"members"`
	// NameEncoding of record names inside containers
	NameEncoding string `yaml:"name_encoding"`
	// Serve is listen address of browse mode, empty disables it
	Serve string `yaml:"serve"`
	Dump  bool   `yaml:"dump"`
}

func Default() *Config {
	return &Config{
		Jobs:         4,
		Members:      []string{DefaultMember},
		NameEncoding: "utf-8",
	}
}

// Load reads yaml file over default values
func Load(path string) (*Config, error) {
	c := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open config")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return nil, errors.Wrapf(err, "Cannot decode config %q", path)
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return errors.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	if len(c.Members) == 0 {
		return errors.Errorf("no archive members configured")
	}
	if _, err := ResolveEncoding(c.NameEncoding); err != nil {
		return err
	}
	return nil
}

func (c *Config) Encoding() encoding.Encoding {
	enc, err := ResolveEncoding(c.NameEncoding)
	if err != nil {
		panic(err)
	}
	return enc
}
