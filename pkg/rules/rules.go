// Package rules loads the link-rewriting rule file. Rules live in a small
// YAML file (rules.yaml) so new mirrored domains or fixups can ship without
// a rebuild; every key has a default matching the restored CDC deployment.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/restoredcdc/warcserve/pkg/rewrite"
)

const (
	EnvPrefix  = "WARCSERVE"
	ConfigRoot = ".warcserve"
)

// fileConfig mirrors the YAML layout of rules.yaml.
type fileConfig struct {
	ArchiveSuffix   string            `mapstructure:"archive_suffix"`
	MirroredDomains []string          `mapstructure:"mirrored_domains"`
	PrimaryHost     string            `mapstructure:"primary_host"`
	PrimaryDomains  []string          `mapstructure:"primary_domains"`
	DomainFixups    map[string]string `mapstructure:"domain_fixups"`
	HomeDomain      string            `mapstructure:"home_domain"`
}

// Load reads the rule file (explicit path, or rules.yaml/.warcserve/rules.yaml
// in the working directory) merged over the built-in defaults. A missing
// file is not an error; the defaults serve the stock deployment.
func Load(cfgFile string) (rewrite.Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return rewrite.Config{}, fmt.Errorf("reading rules file %s: %w", cfgFile, err)
		}
	} else {
		for _, name := range []string{"rules.yaml", "rules.yml", filepath.Join(ConfigRoot, "rules.yaml")} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err != nil {
					return rewrite.Config{}, fmt.Errorf("reading rules file %s: %w", name, err)
				}
				break
			}
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return rewrite.Config{}, fmt.Errorf("unmarshaling rules: %w", err)
	}

	return rewrite.Config{
		ArchiveSuffix:   fc.ArchiveSuffix,
		MirroredDomains: fc.MirroredDomains,
		PrimaryHost:     fc.PrimaryHost,
		PrimaryDomains:  fc.PrimaryDomains,
		DomainFixups:    fc.DomainFixups,
		HomeDomain:      fc.HomeDomain,
	}, nil
}

func setDefaults(v *viper.Viper) {
	def := rewrite.DefaultConfig()
	v.SetDefault("archive_suffix", def.ArchiveSuffix)
	v.SetDefault("mirrored_domains", def.MirroredDomains)
	v.SetDefault("primary_host", def.PrimaryHost)
	v.SetDefault("primary_domains", def.PrimaryDomains)
	v.SetDefault("domain_fixups", def.DomainFixups)
	v.SetDefault("home_domain", def.HomeDomain)
}
