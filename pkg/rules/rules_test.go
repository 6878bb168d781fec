package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tempDir)
	defer os.Chdir(oldWd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ArchiveSuffix != "cdc.gov" {
		t.Errorf("ArchiveSuffix = %q", cfg.ArchiveSuffix)
	}
	if cfg.PrimaryHost != "www.restoredcdc.org" {
		t.Errorf("PrimaryHost = %q", cfg.PrimaryHost)
	}
	if cfg.HomeDomain != "www.cdc.gov" {
		t.Errorf("HomeDomain = %q", cfg.HomeDomain)
	}
	if cfg.DomainFixups["hivriskstage.cdc.gov"] != "hivrisk.cdc.gov" {
		t.Errorf("DomainFixups = %v", cfg.DomainFixups)
	}
}

func TestLoadFile(t *testing.T) {
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tempDir)
	defer os.Chdir(oldWd)

	rulesFile := `
primary_host: mirror.example.org
mirrored_domains:
  - hivrisk.cdc.gov
  - nccd.cdc.gov
home_domain: hivrisk.cdc.gov
`
	os.WriteFile("rules.yaml", []byte(rulesFile), 0644)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PrimaryHost != "mirror.example.org" {
		t.Errorf("PrimaryHost = %q", cfg.PrimaryHost)
	}
	if len(cfg.MirroredDomains) != 2 {
		t.Errorf("MirroredDomains = %v", cfg.MirroredDomains)
	}
	if cfg.HomeDomain != "hivrisk.cdc.gov" {
		t.Errorf("HomeDomain = %q", cfg.HomeDomain)
	}

	// Keys absent from the file keep their defaults.
	if cfg.ArchiveSuffix != "cdc.gov" {
		t.Errorf("ArchiveSuffix = %q", cfg.ArchiveSuffix)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom-rules.yaml")
	os.WriteFile(path, []byte("home_domain: nccd.cdc.gov\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HomeDomain != "nccd.cdc.gov" {
		t.Errorf("HomeDomain = %q", cfg.HomeDomain)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit rules file")
	}
}
