package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything psum reads from its config file. Immutable
// after Load; CLI flags override the boolean knobs before the report runs.
type Config struct {
	Projects        []string          `mapstructure:"projects"`
	Ignore          []string          `mapstructure:"ignore"`
	SkipBranches    bool              `mapstructure:"skip_branches"`
	Fetch           bool              `mapstructure:"fetch"`
	Pull            bool              `mapstructure:"pull"`
	AppveyorAccount string            `mapstructure:"appveyor_account"`
	JenkinsURL      string            `mapstructure:"jenkins_url"`
	JenkinsJobs     []string          `mapstructure:"jenkins_jobs"`
	PypiNameMap     map[string]string `mapstructure:"pypi_name_map"`
	Footer          string            `mapstructure:"footer"`
	PythonVersions  []string          `mapstructure:"python_versions"`
}

// JenkinsJobConfig pairs a job name template with a column title.
// The template's {name} placeholder is replaced with the computed job name.
type JenkinsJobConfig struct {
	NameTemplate string
	Title        string
}

// DefaultJenkinsJob is the implicit single-job configuration.
var DefaultJenkinsJob = JenkinsJobConfig{NameTemplate: "{name}"}

// JobName formats the actual Jenkins job identifier for a project name.
func (j JenkinsJobConfig) JobName(name string) string {
	return strings.ReplaceAll(j.NameTemplate, "{name}", name)
}

// SetDefaults registers the config defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("projects", []string{})
	v.SetDefault("ignore", []string{})
	v.SetDefault("skip_branches", false)
	v.SetDefault("fetch", false)
	v.SetDefault("pull", false)
	v.SetDefault("appveyor_account", "")
	v.SetDefault("jenkins_url", "")
	v.SetDefault("jenkins_jobs", []string{"{name}"})
	v.SetDefault("pypi_name_map", map[string]string{})
	v.SetDefault("footer",
		`Generated by <a href="https://github.com/joescharf/psum">psum</a>.`)
	v.SetDefault("python_versions",
		[]string{"2.7", "3.6", "3.7", "3.8", "3.9", "PyPy"})
}

// Load decodes the merged viper state into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.JenkinsURL = strings.TrimRight(cfg.JenkinsURL, "/")
	return &cfg, nil
}

// Jobs parses the jenkins_jobs lines into job configurations.
// No Jenkins URL means no Jenkins columns at all.
func (c *Config) Jobs() []JenkinsJobConfig {
	if c.JenkinsURL == "" {
		return nil
	}
	var jobs []JenkinsJobConfig
	for _, line := range c.JenkinsJobs {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		job := JenkinsJobConfig{NameTemplate: fields[0]}
		if len(fields) > 1 {
			job.Title = strings.Join(fields[1:], " ")
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Ignored reports whether a project name is on the ignore list.
func (c *Config) Ignored(name string) bool {
	for _, n := range c.Ignore {
		if n == name {
			return true
		}
	}
	return false
}

// PypiName maps a project name to its PyPI package name.
func (c *Config) PypiName(name string) string {
	if mapped, ok := c.PypiNameMap[name]; ok {
		return mapped
	}
	return name
}
