package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the pipeline and server.
// Values come from config.yaml in the working directory, overridden by
// environment variables. The API key is never stored in the repository.
type Config struct {
	AssemblyAPIKey  string `mapstructure:"ASSEMBLY_API_KEY"`
	AssemblyBaseURL string `mapstructure:"ASSEMBLY_BASE_URL"`
	SnapshotPath    string `mapstructure:"SNAPSHOT_PATH"`
	PageSize        int    `mapstructure:"PAGE_SIZE"`
	GCPProject      string `mapstructure:"GCP_PROJECT"`
	BillsCollection string `mapstructure:"BILLS_COLLECTION"`
	PostsCollection string `mapstructure:"POSTS_COLLECTION"`
	Port            string `mapstructure:"PORT"`
}

var Cfg Config

// Load reads config.yaml (optional) and the environment into Cfg.
func Load() error {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	viper.SetDefault("ASSEMBLY_API_KEY", "")
	viper.SetDefault("ASSEMBLY_BASE_URL", "https://open.assembly.go.kr/portal/openapi")
	viper.SetDefault("SNAPSHOT_PATH", "data/bills.json")
	viper.SetDefault("PAGE_SIZE", 100)
	viper.SetDefault("GCP_PROJECT", "")
	viper.SetDefault("BILLS_COLLECTION", "bills")
	viper.SetDefault("POSTS_COLLECTION", "posts")
	viper.SetDefault("PORT", "8080")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return viper.Unmarshal(&Cfg)
}
