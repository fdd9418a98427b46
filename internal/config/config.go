package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the per-repository config file name.
const ProjectFile = ".spotreview.yaml"

// DefaultReportFile is where the Android Gradle plugin writes the release
// SpotBugs report.
const DefaultReportFile = "app/build/reports/spotbugs/release.xml"

// Config represents the spotreview configuration.
type Config struct {
	GradleTask     string       `json:"gradleTask" yaml:"gradleTask"`
	SkipGradleTask bool         `json:"skipGradleTask" yaml:"skipGradleTask"`
	RootPath       string       `json:"rootPath,omitempty" yaml:"rootPath,omitempty"`
	ReportFiles    []string     `json:"reportFiles" yaml:"reportFiles"`
	InlineMode     bool         `json:"inlineMode" yaml:"inlineMode"`
	Format         string       `json:"format" yaml:"format"`
	FailOn         string       `json:"failOn" yaml:"failOn"`
	Sink           string       `json:"sink" yaml:"sink"`
	BaseRef        string       `json:"baseRef,omitempty" yaml:"baseRef,omitempty"`
	GitHub         GitHubConfig `json:"github" yaml:"github"`
}

// GitHubConfig locates the pull request host.
type GitHubConfig struct {
	Owner  string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Repo   string `json:"repo,omitempty" yaml:"repo,omitempty"`
	APIURL string `json:"apiURL,omitempty" yaml:"apiURL,omitempty"`
}

// fileConfig mirrors Config with pointer bools so an explicit false in a
// file overrides a true default.
type fileConfig struct {
	GradleTask     string       `json:"gradleTask" yaml:"gradleTask"`
	SkipGradleTask *bool        `json:"skipGradleTask" yaml:"skipGradleTask"`
	RootPath       string       `json:"rootPath" yaml:"rootPath"`
	ReportFiles    []string     `json:"reportFiles" yaml:"reportFiles"`
	InlineMode     *bool        `json:"inlineMode" yaml:"inlineMode"`
	Format         string       `json:"format" yaml:"format"`
	FailOn         string       `json:"failOn" yaml:"failOn"`
	Sink           string       `json:"sink" yaml:"sink"`
	BaseRef        string       `json:"baseRef" yaml:"baseRef"`
	GitHub         GitHubConfig `json:"github" yaml:"github"`
}

var (
	validFormats = []string{"text", "json", "markdown", "sarif"}
	validFailOn  = []string{"none", "warning", "failure"}
	validSinks   = []string{"console", "github", "actions"}
)

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		GradleTask:  "spotbugsRelease",
		ReportFiles: []string{DefaultReportFile},
		InlineMode:  true,
		Format:      "text",
		FailOn:      "none",
		Sink:        "console",
	}
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spotreview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "spotreview"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "spotreview"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "spotreview"), nil
	default:
		return filepath.Join(home, ".config", "spotreview"), nil
	}
}

// ConfigPath returns the full path to the user config file. An existing
// config.json is preferred over the default config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	jsonPath := filepath.Join(dir, "config.json")
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// loadFile reads a YAML or JSON config file. A missing file yields a zero
// fileConfig and nil error.
func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	return parse(data, filepath.Ext(path))
}

// parse decodes by extension, or by content when the extension is unknown.
func parse(data []byte, ext string) (fileConfig, error) {
	var fc fileConfig
	ext = strings.ToLower(ext)
	if ext == ".json" || (ext != ".yaml" && ext != ".yml" && strings.HasPrefix(strings.TrimSpace(string(data)), "{")) {
		if err := json.Unmarshal(data, &fc); err != nil {
			return fileConfig{}, fmt.Errorf("parsing config json: %w", err)
		}
		return fc, nil
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parsing config yaml: %w", err)
	}
	return fc, nil
}

// Save writes the config to the user config file as YAML, or JSON when an
// existing config.json is in use.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	var data []byte
	if filepath.Ext(path) == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadUser returns the defaults merged with the user file only, as the
// starting point for editing that file.
func LoadUser() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	fc, err := loadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	mergeFile(&cfg, fc)
	return cfg, nil
}

// Load builds the effective config by merging:
// defaults <- user file <- project file <- env <- overrides.
// The overrides map comes from CLI flags and is keyed like SetField.
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	for _, p := range []string{path, ProjectFile} {
		fc, err := loadFile(p)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", p, err)
		}
		mergeFile(&cfg, fc)
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(dst *Config, src fileConfig) {
	if src.GradleTask != "" {
		dst.GradleTask = src.GradleTask
	}
	if src.SkipGradleTask != nil {
		dst.SkipGradleTask = *src.SkipGradleTask
	}
	if src.RootPath != "" {
		dst.RootPath = src.RootPath
	}
	if len(src.ReportFiles) > 0 {
		dst.ReportFiles = src.ReportFiles
	}
	if src.InlineMode != nil {
		dst.InlineMode = *src.InlineMode
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if src.Sink != "" {
		dst.Sink = src.Sink
	}
	if src.BaseRef != "" {
		dst.BaseRef = src.BaseRef
	}
	if src.GitHub.Owner != "" {
		dst.GitHub.Owner = src.GitHub.Owner
	}
	if src.GitHub.Repo != "" {
		dst.GitHub.Repo = src.GitHub.Repo
	}
	if src.GitHub.APIURL != "" {
		dst.GitHub.APIURL = src.GitHub.APIURL
	}
}

// envKeys maps environment variables onto SetField keys.
var envKeys = []struct{ env, key string }{
	{"SPOTREVIEW_GRADLE_TASK", "gradleTask"},
	{"SPOTREVIEW_SKIP_GRADLE_TASK", "skipGradleTask"},
	{"SPOTREVIEW_ROOT_PATH", "rootPath"},
	{"SPOTREVIEW_REPORT_FILES", "reportFiles"},
	{"SPOTREVIEW_INLINE_MODE", "inlineMode"},
	{"SPOTREVIEW_FORMAT", "format"},
	{"SPOTREVIEW_FAIL_ON", "failOn"},
	{"SPOTREVIEW_SINK", "sink"},
	{"SPOTREVIEW_BASE_REF", "baseRef"},
	{"SPOTREVIEW_GITHUB_OWNER", "github.owner"},
	{"SPOTREVIEW_GITHUB_REPO", "github.repo"},
	{"SPOTREVIEW_GITHUB_API_URL", "github.apiURL"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists the keys accepted by SetField.
var Keys = []string{
	"gradleTask", "skipGradleTask", "rootPath", "reportFiles", "inlineMode",
	"format", "failOn", "sink", "baseRef",
	"github.owner", "github.repo", "github.apiURL",
}

// SetField sets a single config field by key name. Returns error if key is
// unknown or the value does not parse. reportFiles takes a comma-separated
// list.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "gradleTask":
		cfg.GradleTask = value
	case "skipGradleTask":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("skipGradleTask must be a boolean: %w", err)
		}
		cfg.SkipGradleTask = b
	case "rootPath":
		cfg.RootPath = value
	case "reportFiles":
		var files []string
		for _, f := range strings.Split(value, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
		cfg.ReportFiles = files
	case "inlineMode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("inlineMode must be a boolean: %w", err)
		}
		cfg.InlineMode = b
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "sink":
		cfg.Sink = value
	case "baseRef":
		cfg.BaseRef = value
	case "github.owner":
		cfg.GitHub.Owner = value
	case "github.repo":
		cfg.GitHub.Repo = value
	case "github.apiURL":
		cfg.GitHub.APIURL = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// GetField returns the value of one key in the form SetField accepts.
func GetField(cfg Config, key string) (string, error) {
	switch key {
	case "gradleTask":
		return cfg.GradleTask, nil
	case "skipGradleTask":
		return strconv.FormatBool(cfg.SkipGradleTask), nil
	case "rootPath":
		return cfg.RootPath, nil
	case "reportFiles":
		return strings.Join(cfg.ReportFiles, ","), nil
	case "inlineMode":
		return strconv.FormatBool(cfg.InlineMode), nil
	case "format":
		return cfg.Format, nil
	case "failOn":
		return cfg.FailOn, nil
	case "sink":
		return cfg.Sink, nil
	case "baseRef":
		return cfg.BaseRef, nil
	case "github.owner":
		return cfg.GitHub.Owner, nil
	case "github.repo":
		return cfg.GitHub.Repo, nil
	case "github.apiURL":
		return cfg.GitHub.APIURL, nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Validate checks enumerated fields and required values.
func (c Config) Validate() error {
	if !contains(validFormats, c.Format) {
		return fmt.Errorf("invalid format %q (want one of %s)", c.Format, strings.Join(validFormats, ", "))
	}
	if !contains(validFailOn, c.FailOn) {
		return fmt.Errorf("invalid failOn %q (want one of %s)", c.FailOn, strings.Join(validFailOn, ", "))
	}
	if !contains(validSinks, c.Sink) {
		return fmt.Errorf("invalid sink %q (want one of %s)", c.Sink, strings.Join(validSinks, ", "))
	}
	if !c.SkipGradleTask && c.GradleTask == "" {
		return fmt.Errorf("gradleTask must not be empty unless skipGradleTask is set")
	}
	if len(c.ReportFiles) == 0 {
		return fmt.Errorf("reportFiles must list at least one pattern")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
