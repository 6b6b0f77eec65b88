package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	dff "github.com/lemonyte/dff/pkg"
)

// options holds the values of the root command's flags
type options struct {
	excludes        []string
	excludeFile     string
	compareMethod   string
	outputFormat    string
	failOnDuplicate bool
	configPath      string
	hashAlgorithm   string
	chunkSize       string
	workers         int
	verbose         int
	debug           string
	ignoreCase      string
	symlinks        string
	noProgress      bool
	overrides       []string
}

func newOptions() *options {
	return &options{}
}

// bindFlags registers the flags on cmd. Flag defaults mirror the config defaults for
// help output only; a flag overrides the config file only when it was set.
func (o *options) bindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&o.excludes, "exclude", "e", nil, "glob pattern of paths to skip (repeatable)")
	flags.StringVar(&o.excludeFile, "exclude-file", "", "file of exclude patterns, one per line")
	flags.StringVarP(&o.compareMethod, "compare-method", "c", dff.MethodHash, "how far to compare files: size, partial-hash or hash")
	flags.StringVarP(&o.outputFormat, "output-format", "o", dff.FormatJSON, "output format: json, list, yaml or fdupes")
	flags.BoolVarP(&o.failOnDuplicate, "fail-on-duplicate", "f", false, "exit with status 1 when duplicates are found")
	flags.StringVar(&o.hashAlgorithm, "hash-algorithm", dff.DefaultHashAlgorithm, "hash algorithm: md5, sha1, sha256 or sha512")
	flags.StringVar(&o.chunkSize, "chunk-size", "64K", "sample size for partial hashing")
	flags.IntVarP(&o.workers, "workers", "j", dff.DefaultHashWorkers, "concurrent hash workers")
	flags.StringVar(&o.ignoreCase, "ignore-case", "auto", "case-insensitive exclude matching: auto, true or false")
	flags.StringVar(&o.symlinks, "symlinks", dff.SymlinkNone, "follow symlinks: none, contained or all")
	flags.BoolVar(&o.noProgress, "no-progress", false, "do not draw progress bars")
	flags.StringArrayVarP(&o.overrides, "override", "O", nil, "config override as key:value (repeatable)")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&o.configPath, "config", "", "config file (default ./"+dff.DefaultConfigFile+" or ~/"+dff.DefaultConfigFile+")")
	persistent.CountVarP(&o.verbose, "verbose", "v", "increase verbosity (repeatable)")
	persistent.StringVar(&o.debug, "debug", "", "comma-separated debug flags (hash, exclude, scan, all)")
}

// flagOverrides converts flags the user set explicitly into config overrides,
// followed by any raw -O overrides
func (o *options) flagOverrides(flags *pflag.FlagSet) []string {
	var overrides []string
	add := func(flag, key, value string) {
		if flags.Changed(flag) {
			overrides = append(overrides, key+":"+value)
		}
	}

	add("compare-method", "method", o.compareMethod)
	add("output-format", "format", o.outputFormat)
	add("hash-algorithm", "default", o.hashAlgorithm)
	add("chunk-size", "chunk_size", o.chunkSize)
	add("workers", "hash_workers", strconv.Itoa(o.workers))
	add("ignore-case", "ignore_case", o.ignoreCase)
	add("symlinks", "mode", o.symlinks)
	add("exclude-file", "exclude_file", o.excludeFile)
	add("verbose", "level", strconv.Itoa(min(o.verbose, 3)))
	add("debug", "debug", o.debug)

	return append(overrides, o.overrides...)
}

// resolveConfigPath picks the config file: the --config value, else the first of
// ./.dff.ini and ~/.dff.ini that exists, else ./.dff.ini
func (o *options) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if _, err := os.Stat(dff.DefaultConfigFile); err == nil {
		return dff.DefaultConfigFile
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, dff.DefaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return dff.DefaultConfigFile
}

// loadConfig loads the config file, applies flag overrides and validates the result
func (o *options) loadConfig(flags *pflag.FlagSet) (*dff.Config, error) {
	cfg, err := dff.LoadConfig(o.resolveConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(o.flagOverrides(flags)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
