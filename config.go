package main

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Storage struct {
		Path     string `yaml:"path"`
		Database string `yaml:"database"`
	} `yaml:"storage"`
	API struct {
		Port string `yaml:"port"`
	} `yaml:"api"`
	Session struct {
		TTLHours    int `yaml:"ttl_hours"`
		MaxSessions int `yaml:"max_sessions"`
	} `yaml:"session"`
	Queue struct {
		Size    int `yaml:"size"`
		Workers int `yaml:"workers"`
	} `yaml:"queue"`
}

func LoadConfig() *Config {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Failed to read config file, using defaults: %v", err)
		return applyEnv(config)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse config file, using defaults: %v", err)
		return applyEnv(defaultConfig())
	}

	return applyEnv(config)
}

func defaultConfig() *Config {
	config := &Config{}
	config.Storage.Path = "/tmp/files_manager"
	config.Storage.Database = "./files_manager.db"
	config.API.Port = "5000"
	config.Session.TTLHours = 24
	config.Session.MaxSessions = 16384
	config.Queue.Size = 256
	config.Queue.Workers = 2
	return config
}

// Environment variables win over the config file.
func applyEnv(config *Config) *Config {
	if folderPath := os.Getenv("FOLDER_PATH"); folderPath != "" {
		config.Storage.Path = folderPath
	}
	if port := os.Getenv("PORT"); port != "" {
		config.API.Port = port
	}
	if config.Session.TTLHours <= 0 {
		config.Session.TTLHours = 24
	}
	if config.Session.MaxSessions <= 0 {
		config.Session.MaxSessions = 16384
	}
	if config.Queue.Size <= 0 {
		config.Queue.Size = 256
	}
	if config.Queue.Workers <= 0 {
		config.Queue.Workers = 2
	}
	return config
}

// SessionTTL is the token lifetime, absolute from issue time.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}
