package configs

import (
	"strings"
	"testing"
)

// setRequiredEnv provides the mandatory S3 settings so LoadConfig can succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("S3_BUCKET_NAME", "dmchat-test")
	t.Setenv("S3_ENDPOINT", "https://s3.test")
	t.Setenv("S3_ACCESS_KEY_ID", "test-key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "test-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("MAX_FREE_MESSAGES", "")
	t.Setenv("MAX_FREE_FILE_SIZE_MB", "")
	t.Setenv("REDIS_ADDRS", "")
	t.Setenv("BROADCAST_TOPIC", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.MaxFreeMessages != 50 {
		t.Errorf("MaxFreeMessages = %d, want 50", cfg.MaxFreeMessages)
	}
	if cfg.MaxFreeFileBytes != 2*1024*1024 {
		t.Errorf("MaxFreeFileBytes = %d, want %d", cfg.MaxFreeFileBytes, 2*1024*1024)
	}
	if len(cfg.RedisAddrs) != 1 || cfg.RedisAddrs[0] != "127.0.0.1:6379" {
		t.Errorf("RedisAddrs = %v, want [127.0.0.1:6379]", cfg.RedisAddrs)
	}
	if cfg.BroadcastTopic != "chat:broadcast" {
		t.Errorf("BroadcastTopic = %q, want %q", cfg.BroadcastTopic, "chat:broadcast")
	}
	if cfg.DatabaseDSN == "" {
		t.Error("DatabaseDSN empty, want development default")
	}
}

func TestLoadConfigInvalidPort(t *testing.T) {
	setRequiredEnv(t)

	tests := []struct {
		name string
		port string
	}{
		{"not a number", "abc"},
		{"privileged port", "80"},
		{"above range", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig() with PORT=%q succeeded, want error", tt.port)
			}
		})
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigRedisCluster(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_ADDRS", "redis-1:6379, redis-2:6379, redis-3:6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if len(cfg.RedisAddrs) != 3 {
		t.Errorf("RedisAddrs = %v, want 3 addresses", cfg.RedisAddrs)
	}
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() in production without JWT_SECRET succeeded, want error")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error = %v, want mention of JWT_SECRET", err)
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() in production without DATABASE_URL succeeded, want error")
	}
}

func TestLoadConfigInvalidQuota(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("MAX_FREE_MESSAGES", "-1")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with negative MAX_FREE_MESSAGES succeeded, want error")
	}

	t.Setenv("MAX_FREE_MESSAGES", "50")
	t.Setenv("MAX_FREE_FILE_SIZE_MB", "0")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with zero MAX_FREE_FILE_SIZE_MB succeeded, want error")
	}
}
