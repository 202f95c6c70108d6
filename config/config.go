// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the root-level settings struct, a mix of defaults
// and settings passed through the command line
type Config struct {
	// the length of kmer to use for minimizers
	KmerSize int `mapstructure:"kmer-size"`

	// the length of window to use for minimizers
	WindowSize int `mapstructure:"window-size"`

	// the number of reads per window index batch
	IndexSize int `mapstructure:"index-size"`
}

// New returns a new Config struct populated by Viper settings
// bound from command line arguments
func New() Config {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return c
}
