// Package config provides configuration management for the surface renderer.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file and an optional config file (config.yaml, config.toml, config.json).
// Defaults come from the `default` struct tags of every partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: render journal connection (MySQL or SQLite)
//   - Storage: S3/MinIO credentials and the bucket surfaces are published to
//   - Log: Logging level and format
//   - Render: reload threshold, apply timeout and empty section handling
//   - Metrics: Prometheus endpoint
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
