// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml file. Values are
// read with viper and checked with validator struct tags before use.
package config
