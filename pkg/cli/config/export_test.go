package config

import "time"

// NewJarForTest creates a Jar config for testing purposes
func NewJarForTest(configPath, timezone, userCode, adminCode string, ttl time.Duration) *Jar {
	return &Jar{
		configPath: configPath,
		timezone:   timezone,
		userCode:   userCode,
		adminCode:  adminCode,
		sessionTTL: ttl,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, sqlitePath string, memoryQuota int64) *Repository {
	return &Repository{
		backend:     backend,
		sqlitePath:  sqlitePath,
		memoryQuota: memoryQuota,
	}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, apiKey, project string) *LLM {
	return &LLM{
		provider: provider,
		apiKey:   apiKey,
		project:  project,
		location: "us-central1",
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

var ParseLevel = parseLevel

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{
		botToken: botToken,
		channel:  channel,
		interval: time.Minute,
	}
}
