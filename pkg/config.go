package dff

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dff configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// CompareConfig represents how far files are compared
type CompareConfig struct {
	Method    string // size, partial-hash, hash
	ChunkSize string // partial hash sample size, human readable
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // json, list, yaml, fdupes
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // 0=quiet, 1=stage summaries, 2=detailed, 3=trace
	Debug string // comma-separated debug flags
}

// SymlinkConfig represents symlink handling configuration
type SymlinkConfig struct {
	Mode string // none, contained, all
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Number of concurrent hash workers (default: 4)
	HashBuffer  string // Read buffer for full hashing (default: "2M")
}

// ExcludeConfig represents exclusion patterns
type ExcludeConfig struct {
	Patterns []string
	File     string
}

// MatchConfig represents path matching policy
type MatchConfig struct {
	IgnoreCase string // auto, true, false
}

// AllConfig represents all configuration options
type AllConfig struct {
	Compare     *CompareConfig
	Hash        *HashConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Symlink     *SymlinkConfig
	Performance *PerformanceConfig
	Exclude     *ExcludeConfig
	Match       *MatchConfig
}

// defaultValues lists every section/key with its default, in file order
var defaultValues = []struct{ section, key, value string }{
	{"compare", "method", MethodHash},
	{"compare", "chunk_size", "64K"},
	{"filehash", "default", DefaultHashAlgorithm},
	{"output", "format", FormatJSON},
	{"verbose", "level", "0"},
	{"verbose", "debug", ""},
	{"symlink", "mode", SymlinkNone},
	{"performance", "hash_workers", strconv.Itoa(DefaultHashWorkers)},
	{"performance", "hash_buffer", DefaultHashBuffer},
	{"exclude", "patterns", ""},
	{"exclude", "file", ""},
	{"match", "ignore_case", "auto"},
}

// overrideKeys maps override names to their section/key
var overrideKeys = map[string][2]string{
	"method":       {"compare", "method"},
	"chunk_size":   {"compare", "chunk_size"},
	"default":      {"filehash", "default"},
	"format":       {"output", "format"},
	"level":        {"verbose", "level"},
	"debug":        {"verbose", "debug"},
	"mode":         {"symlink", "mode"},
	"hash_workers": {"performance", "hash_workers"},
	"hash_buffer":  {"performance", "hash_buffer"},
	"exclude":      {"exclude", "patterns"},
	"exclude_file": {"exclude", "file"},
	"ignore_case":  {"match", "ignore_case"},
}

// DefaultConfig returns an in-memory configuration holding the defaults
func DefaultConfig(configPath string) *Config {
	cfg := &Config{configPath: configPath, ini: ini.Empty()}
	cfg.setDefaults()
	return cfg
}

// LoadConfig loads configuration from path. A missing file yields the defaults;
// nothing is written to disk.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(configPath), nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(configPath), nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return &Config{configPath: configPath, ini: iniFile}, nil
}

// setDefaults fills in every key that is not already present
func (c *Config) setDefaults() {
	for _, d := range defaultValues {
		section := c.ini.Section(d.section)
		if !section.HasKey(d.key) {
			section.Key(d.key).SetValue(d.value)
		}
	}
}

// value returns the configured value, falling back to the default
func (c *Config) value(section, key string) string {
	if c.ini.HasSection(section) {
		s := c.ini.Section(section)
		if s.HasKey(key) {
			return strings.TrimSpace(s.Key(key).String())
		}
	}
	for _, d := range defaultValues {
		if d.section == section && d.key == key {
			return d.value
		}
	}
	return ""
}

func (c *Config) intValue(section, key string, fallback int) int {
	if n, err := strconv.Atoi(c.value(section, key)); err == nil {
		return n
	}
	return fallback
}

// GetCompareConfig returns the compare configuration
func (c *Config) GetCompareConfig() *CompareConfig {
	return &CompareConfig{
		Method:    c.value("compare", "method"),
		ChunkSize: c.value("compare", "chunk_size"),
	}
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	return &HashConfig{Default: c.value("filehash", "default")}
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	return &OutputConfig{Format: c.value("output", "format")}
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	return &VerboseConfig{
		Level: c.intValue("verbose", "level", 0),
		Debug: c.value("verbose", "debug"),
	}
}

// GetSymlinkConfig returns the symlink configuration
func (c *Config) GetSymlinkConfig() *SymlinkConfig {
	return &SymlinkConfig{Mode: strings.ToLower(c.value("symlink", "mode"))}
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	return &PerformanceConfig{
		HashWorkers: c.intValue("performance", "hash_workers", DefaultHashWorkers),
		HashBuffer:  c.value("performance", "hash_buffer"),
	}
}

// GetExcludeConfig returns the exclusion configuration
func (c *Config) GetExcludeConfig() *ExcludeConfig {
	var patterns []string
	for _, p := range strings.Split(c.value("exclude", "patterns"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return &ExcludeConfig{Patterns: patterns, File: c.value("exclude", "file")}
}

// GetMatchConfig returns the matching configuration
func (c *Config) GetMatchConfig() *MatchConfig {
	return &MatchConfig{IgnoreCase: c.value("match", "ignore_case")}
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Compare:     c.GetCompareConfig(),
		Hash:        c.GetHashConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Symlink:     c.GetSymlinkConfig(),
		Performance: c.GetPerformanceConfig(),
		Exclude:     c.GetExcludeConfig(),
		Match:       c.GetMatchConfig(),
	}
}

// Path returns the file the configuration was loaded from or will be saved to
func (c *Config) Path() string {
	return c.configPath
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config path set")
	}
	return c.ini.SaveTo(c.configPath)
}

// WriteTo writes the configuration in INI form
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	return c.ini.WriteTo(w)
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "method:size", "format:json", "level:2", "exclude:*.tmp"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		target, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: %s)", key, strings.Join(OverrideKeys(), ", "))
		}

		k := c.ini.Section(target[0]).Key(target[1])
		if key == "exclude" && k.String() != "" {
			value = k.String() + "," + value
		}
		k.SetValue(value)
	}

	return nil
}

// OverrideKeys returns the accepted override names in file order
func OverrideKeys() []string {
	var keys []string
	for _, d := range defaultValues {
		for name, target := range overrideKeys {
			if target[0] == d.section && target[1] == d.key {
				keys = append(keys, name)
			}
		}
	}
	return keys
}

// Validate checks every value, returning a *ConfigError for the first bad one
func (c *Config) Validate() error {
	all := c.GetAllConfig()
	checks := []struct {
		key   string
		value string
		err   error
	}{
		{"compare.method", all.Compare.Method, ValidateCompareMethod(all.Compare.Method)},
		{"compare.chunk_size", all.Compare.ChunkSize, validateSize(all.Compare.ChunkSize)},
		{"filehash.default", all.Hash.Default, ValidateHashAlgorithm(all.Hash.Default)},
		{"output.format", all.Output.Format, ValidateOutputFormat(all.Output.Format)},
		{"verbose.level", c.value("verbose", "level"), validateVerboseValue(c.value("verbose", "level"))},
		{"symlink.mode", all.Symlink.Mode, ValidateSymlinkMode(all.Symlink.Mode)},
		{"performance.hash_workers", c.value("performance", "hash_workers"), validateWorkersValue(c.value("performance", "hash_workers"))},
		{"performance.hash_buffer", all.Performance.HashBuffer, validateSize(all.Performance.HashBuffer)},
		{"match.ignore_case", all.Match.IgnoreCase, ValidateIgnoreCase(all.Match.IgnoreCase)},
	}
	for _, check := range checks {
		if check.err != nil {
			return &ConfigError{Key: check.key, Value: check.value, Err: check.err}
		}
	}
	return nil
}

// MatchOptions returns the path matching policy, resolving "auto" for the host
func (c *Config) MatchOptions() MatchOptions {
	switch strings.ToLower(c.GetMatchConfig().IgnoreCase) {
	case "true", "yes", "on", "1":
		return MatchOptions{CaseInsensitive: true}
	case "false", "no", "off", "0":
		return MatchOptions{CaseInsensitive: false}
	default:
		return DefaultMatchOptions()
	}
}

// CompareDepth returns the configured depth
func (c *Config) CompareDepth() (CompareDepth, error) {
	return ParseCompareDepth(c.GetCompareConfig().Method)
}

// NewHasher builds a hasher from the filehash, compare and performance sections
func (c *Config) NewHasher() (*Hasher, error) {
	algorithm, err := GetHashAlgorithm(c.GetHashConfig().Default)
	if err != nil {
		return nil, &ConfigError{Key: "filehash.default", Value: c.GetHashConfig().Default, Err: err}
	}
	chunk, err := ParseHumanSize(c.GetCompareConfig().ChunkSize)
	if err != nil {
		return nil, &ConfigError{Key: "compare.chunk_size", Value: c.GetCompareConfig().ChunkSize, Err: err}
	}
	buffer, err := ParseHumanSize(c.GetPerformanceConfig().HashBuffer)
	if err != nil {
		return nil, &ConfigError{Key: "performance.hash_buffer", Value: c.GetPerformanceConfig().HashBuffer, Err: err}
	}
	return NewHasher(algorithm, int64(chunk), buffer), nil
}

// NewExcludeSet compiles the configured patterns, the exclude file if any, then extra
func (c *Config) NewExcludeSet(extra []string) (*ExcludeSet, error) {
	excludeConfig := c.GetExcludeConfig()
	es, err := NewExcludeSet(excludeConfig.Patterns, c.MatchOptions())
	if err != nil {
		return nil, err
	}
	if excludeConfig.File != "" {
		if err := es.LoadExcludeFile(excludeConfig.File); err != nil {
			return nil, err
		}
	}
	for _, pattern := range extra {
		if err := es.AddPattern(pattern); err != nil {
			return nil, err
		}
	}
	return es, nil
}

// ValidateCompareMethod validates that a compare method is supported
func ValidateCompareMethod(method string) error {
	_, err := ParseCompareDepth(method)
	return err
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	switch strings.ToLower(algorithm) {
	case "md5", "sha1", "sha256", "sha512":
		return nil
	default:
		return fmt.Errorf("unsupported hash algorithm: %s (supported: md5, sha1, sha256, sha512)", algorithm)
	}
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, FormatList, FormatYAML, FormatFdupes:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: json, list, yaml, fdupes)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateSymlinkMode validates that a symlink mode is supported
func ValidateSymlinkMode(mode string) error {
	switch strings.ToLower(mode) {
	case SymlinkNone, SymlinkContained, SymlinkAll:
		return nil
	default:
		return fmt.Errorf("unsupported symlink mode: %s (supported: none, contained, all)", mode)
	}
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}

// ValidateIgnoreCase validates the case matching policy
func ValidateIgnoreCase(value string) error {
	switch strings.ToLower(value) {
	case "auto", "true", "false", "yes", "no", "on", "off", "1", "0":
		return nil
	default:
		return fmt.Errorf("unsupported ignore_case value: %s (supported: auto, true, false)", value)
	}
}

func validateVerboseValue(value string) error {
	level, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	return ValidateVerboseLevel(level)
}

func validateWorkersValue(value string) error {
	workers, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	return ValidateHashWorkers(workers)
}

func validateSize(value string) error {
	_, err := ParseHumanSize(value)
	return err
}
