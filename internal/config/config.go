package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Readwise
		Import
		Sync
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Readwise struct {
		BaseURL string // Override for testing against a local stub
		Token   string // Optional; normally stored via the token store
	}
	Import struct {
		PageDelay   time.Duration // Pause between page fetches
		SampleQuota int           // Feed size below which sample quotes are mixed in
	}
	Sync struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

const DefaultDatabasePath = "./quotescroll.db"

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8177)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("readwise_base_url", "")
	v.SetDefault("import_page_delay", "500ms")
	v.SetDefault("import_sample_quota", 50)
	v.SetDefault("sync_enabled", false)
	v.SetDefault("sync_schedule", "0 */6 * * *") // Every 6 hours

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Readwise: Readwise{
			BaseURL: v.GetString("READWISE_BASE_URL"),
			Token:   v.GetString("READWISE_TOKEN"),
		},
		Import: Import{
			PageDelay:   v.GetDuration("IMPORT_PAGE_DELAY"),
			SampleQuota: v.GetInt("IMPORT_SAMPLE_QUOTA"),
		},
		Sync: Sync{
			Enabled:  v.GetBool("SYNC_ENABLED"),
			Schedule: v.GetString("SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
