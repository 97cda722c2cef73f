package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML configuration. Unset fields keep their defaults.
type File struct {
	API       string `yaml:"api"`
	Theme     string `yaml:"theme"`
	HideRules *bool  `yaml:"hide_rules"`
	Lockfile  string `yaml:"lockfile"`
	LogLevel  string `yaml:"log_level"`

	Server struct {
		DataDir     string `yaml:"data_dir"`
		Addr        string `yaml:"addr"`
		PublicURL   string `yaml:"public_url"`
		BuildCommit string `yaml:"build_commit"`
	} `yaml:"server"`
}

// LoadFile parses the YAML config at path. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// IsNotExist reports whether a LoadFile error means the file is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (f *File) apply(e *NixdleEnv) {
	setString(&e.APIURL, f.API)
	setString(&e.Theme, f.Theme)
	if f.HideRules != nil {
		e.HideRules = *f.HideRules
	}
	setString(&e.Lockfile, f.Lockfile)
	setString(&e.LogLevel, f.LogLevel)
	setString(&e.DataDir, f.Server.DataDir)
	setString(&e.Addr, f.Server.Addr)
	setString(&e.PublicURL, f.Server.PublicURL)
	setString(&e.BuildCommit, f.Server.BuildCommit)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
