package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, yaml string) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	if yaml != "" {
		path := filepath.Join(t.TempDir(), "psum.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadConfig(t, "")
	assert.Empty(t, cfg.Projects)
	assert.Empty(t, cfg.Ignore)
	assert.False(t, cfg.SkipBranches)
	assert.False(t, cfg.Fetch)
	assert.False(t, cfg.Pull)
	assert.Equal(t, "", cfg.AppveyorAccount)
	assert.Equal(t, "", cfg.JenkinsURL)
	assert.Nil(t, cfg.Jobs())
	assert.Contains(t, cfg.Footer, "psum")
	assert.Equal(t, []string{"2.7", "3.6", "3.7", "3.8", "3.9", "PyPy"},
		cfg.PythonVersions)
}

func TestLoad_Projects(t *testing.T) {
	cfg := loadConfig(t, "projects:\n  - foo\n  - bar\n")
	assert.Equal(t, []string{"foo", "bar"}, cfg.Projects)
}

func TestLoad_JenkinsURLStripsTrailingSlash(t *testing.T) {
	cfg := loadConfig(t, "jenkins_url: https://jenkins.example.com/\n")
	assert.Equal(t, "https://jenkins.example.com", cfg.JenkinsURL)
}

func TestJobs_Default(t *testing.T) {
	cfg := loadConfig(t, "jenkins_url: https://jenkins.example.com\n")
	assert.Equal(t, []JenkinsJobConfig{{NameTemplate: "{name}"}}, cfg.Jobs())
}

func TestJobs_Multiple(t *testing.T) {
	cfg := loadConfig(t, `
jenkins_url: https://jenkins.example.com
jenkins_jobs:
  - "{name}-on-linux    Linux"
  - "{name}-on-windows  Windows"
`)
	assert.Equal(t, []JenkinsJobConfig{
		{NameTemplate: "{name}-on-linux", Title: "Linux"},
		{NameTemplate: "{name}-on-windows", Title: "Windows"},
	}, cfg.Jobs())
}

func TestJobs_NoJenkinsURL(t *testing.T) {
	cfg := loadConfig(t, "jenkins_jobs:\n  - \"{name}-matrix\"\n")
	assert.Nil(t, cfg.Jobs())
}

func TestJenkinsJobConfig_JobName(t *testing.T) {
	job := JenkinsJobConfig{NameTemplate: "{name}-on-linux"}
	assert.Equal(t, "psum-on-linux", job.JobName("psum"))
}

func TestPypiName(t *testing.T) {
	cfg := loadConfig(t, "pypi_name_map:\n  foo: bar\n")
	assert.Equal(t, "bar", cfg.PypiName("foo"))
	assert.Equal(t, "baz", cfg.PypiName("baz"))
}

func TestIgnored(t *testing.T) {
	cfg := loadConfig(t, "ignore:\n  - foo\n")
	assert.True(t, cfg.Ignored("foo"))
	assert.False(t, cfg.Ignored("bar"))
}

func TestToSeconds(t *testing.T) {
	cases := []struct {
		input    string
		expected int
	}{
		{"30", 30},
		{"30s", 30},
		{"30 sec", 30},
		{"30 seconds", 30},
		{"1 second", 1},
		{"5m", 5 * 60},
		{"5 min", 5 * 60},
		{"5 minutes", 5 * 60},
		{"1 minute", 60},
		{"2h", 2 * 60 * 60},
		{"2 hours", 2 * 60 * 60},
		{"1 hour", 60 * 60},
		{"15M", 15 * 60},
	}
	for _, tc := range cases {
		got, err := ToSeconds(tc.input)
		assert.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, got, tc.input)
	}
}

func TestToSeconds_Error(t *testing.T) {
	_, err := ToSeconds("uhh")
	assert.Error(t, err)
	_, err = ToSeconds("5 fortnights")
	assert.Error(t, err)
}
