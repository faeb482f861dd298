package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "report.yaml")

	content := `
input: out/report.json
output: out/stakeholders.html
title: Nightly YouTube Checks
chartScriptUrl: https://cdn.example.com/chart.js
deepLinkBase: ../playwright-report/index.html
allureDir: out/allure-results
logFile: out/report.log
logLevel: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "out/report.json", cfg.Input)
	assert.Equal(t, "out/stakeholders.html", cfg.Output)
	assert.Equal(t, "Nightly YouTube Checks", cfg.Title)
	assert.Equal(t, "https://cdn.example.com/chart.js", cfg.ChartScriptURL)
	assert.Equal(t, "../playwright-report/index.html", cfg.DeepLinkBase)
	assert.Equal(t, "out/allure-results", cfg.AllureDir)
	assert.Equal(t, "out/report.log", cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/report.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "report.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte(`title: [invalid yaml`), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoad_EmptyConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "report.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte(``), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.Title)
	assert.Empty(t, cfg.Input)
}

func TestLoadFromDir_ReportYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.yaml"), []byte(`title: from yaml`), 0644))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "from yaml", cfg.Title)
}

func TestLoadFromDir_ReportYml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.yml"), []byte(`title: from yml`), 0644))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "from yml", cfg.Title)
}

func TestLoadFromDir_NoConfig(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFromDir_PrefersYamlOverYml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.yaml"), []byte(`title: yaml`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.yml"), []byte(`title: yml`), 0644))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Title)
}

func TestConfig_DefaultPaths(t *testing.T) {
	ResetHome()
	defer ResetHome()
	t.Setenv(envHome, "/work")

	cfg := &Config{}
	assert.Equal(t, filepath.Join("/work", "test-results", "report.json"), cfg.InputPath())
	assert.Equal(t, filepath.Join("/work", "test-results", "customReport.html"), cfg.OutputPath())

	cfg = &Config{Input: "a.json", Output: "b.html"}
	assert.Equal(t, "a.json", cfg.InputPath())
	assert.Equal(t, "b.html", cfg.OutputPath())
}
