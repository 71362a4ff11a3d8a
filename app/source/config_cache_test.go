package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://seekingalpha.com/author/sa-transcripts/analysis"
feed_url: "https://seekingalpha.com/author/sa-transcripts.xml"

settings:
  enabled: true
  max_links: 500
  batch_size: 50
  timeout: 15
  refresh_interval: 7200
  min_delay: 3
  max_delay: 8
  salvage_failed: true
`

	err := os.WriteFile(filepath.Join(tempDir, "sa-transcripts.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 config, got %d", configCache.GetConfigCount())
	}

	sourceConfig, err := configCache.GetConfig("sa-transcripts")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Name != "sa-transcripts" {
		t.Errorf("Expected name 'sa-transcripts', got '%s'", sourceConfig.Name)
	}
	if sourceConfig.URL != "https://seekingalpha.com/author/sa-transcripts/analysis" {
		t.Errorf("Unexpected URL: '%s'", sourceConfig.URL)
	}
	if sourceConfig.FeedURL != "https://seekingalpha.com/author/sa-transcripts.xml" {
		t.Errorf("Unexpected feed URL: '%s'", sourceConfig.FeedURL)
	}
	if sourceConfig.Settings.MaxLinks != 500 {
		t.Errorf("Expected max links 500, got %d", sourceConfig.Settings.MaxLinks)
	}
	if sourceConfig.Settings.BatchSize != 50 {
		t.Errorf("Expected batch size 50, got %d", sourceConfig.Settings.BatchSize)
	}
	if sourceConfig.Settings.RefreshInterval != 7200 {
		t.Errorf("Expected refresh interval 7200, got %d", sourceConfig.Settings.RefreshInterval)
	}
	if !sourceConfig.Settings.SalvageFailed {
		t.Error("Expected salvage_failed to be true")
	}
}

func TestConfigCacheLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://seekingalpha.com/author/sa-transcripts/analysis"

settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	sourceConfig, err := configCache.GetConfig("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Settings.BatchSize != 100 {
		t.Errorf("Expected default batch size 100, got %d", sourceConfig.Settings.BatchSize)
	}
	if sourceConfig.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", sourceConfig.Settings.Timeout)
	}
	if sourceConfig.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", sourceConfig.Settings.RefreshInterval)
	}
	if sourceConfig.Settings.MinDelay != 2 || sourceConfig.Settings.MaxDelay != 5 {
		t.Errorf("Expected default delay bounds 2..5, got %d..%d",
			sourceConfig.Settings.MinDelay, sourceConfig.Settings.MaxDelay)
	}
	if sourceConfig.Settings.MaxLinks != 0 {
		t.Errorf("Expected max links to default to unlimited, got %d", sourceConfig.Settings.MaxLinks)
	}
	if sourceConfig.Settings.SalvageFailed {
		t.Error("Expected salvage_failed to default to false")
	}
}

func TestConfigCacheInvalidConfig(t *testing.T) {
	tempDir := t.TempDir()

	// Missing required URL
	content := `
settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "broken.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err == nil {
		t.Error("Expected error for config without URL")
	}
}

func TestConfigCacheDelayBoundsValidation(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://seekingalpha.com/author/sa-transcripts/analysis"

settings:
  enabled: true
  min_delay: 10
  max_delay: 4
`

	err := os.WriteFile(filepath.Join(tempDir, "delays.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err == nil {
		t.Error("Expected error when max delay is below min delay")
	}
}

func TestConfigCacheGetEnabledConfigs(t *testing.T) {
	tempDir := t.TempDir()

	enabled := `
url: "https://seekingalpha.com/author/active/analysis"
settings:
  enabled: true
`
	disabled := `
url: "https://seekingalpha.com/author/paused/analysis"
settings:
  enabled: false
`

	if err := os.WriteFile(filepath.Join(tempDir, "active.yml"), []byte(enabled), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "paused.yml"), []byte(disabled), 0644); err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 2 {
		t.Errorf("Expected 2 configs, got %d", configCache.GetConfigCount())
	}

	enabledConfigs := configCache.GetEnabledConfigs()
	if len(enabledConfigs) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabledConfigs))
	}
	if _, ok := enabledConfigs["active"]; !ok {
		t.Error("Expected 'active' source to be enabled")
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	configCache := NewConfigCache(filepath.Join(t.TempDir(), "absent"))
	if err := configCache.Run(); err != nil {
		t.Errorf("Expected missing sources directory to be tolerated, got %v", err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs, got %d", configCache.GetConfigCount())
	}
}

func TestConfigCacheGetConfigNotFound(t *testing.T) {
	configCache := NewConfigCache(t.TempDir())
	if _, err := configCache.GetConfig("unknown"); err == nil {
		t.Error("Expected error for unknown source name")
	}
}
