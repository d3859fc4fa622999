package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

type StorageConfig struct {
	DataFile   string
	BackupFile string
	AutoSave   bool
}

// Load reads .env from the working directory, then the environment.
func Load() *Config {
	return LoadFrom(".")
}

// LoadFrom reads .env from dir, then the environment. Environment values
// win over the file.
func LoadFrom(dir string) *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("INVENTORY_DATA_FILE", "data/products.dat")
	v.SetDefault("INVENTORY_BACKUP_FILE", "data/products.bak")
	v.SetDefault("INVENTORY_AUTOSAVE", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Could not read config file: %v", err)
		}
	}

	return &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			DataFile:   v.GetString("INVENTORY_DATA_FILE"),
			BackupFile: v.GetString("INVENTORY_BACKUP_FILE"),
			AutoSave:   v.GetBool("INVENTORY_AUTOSAVE"),
		},
	}
}
