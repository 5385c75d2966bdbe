package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendSQL, cfg.Store.Backend)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "books", cfg.Database.DBName)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFrom_File(t *testing.T) {
	dir := writeConfig(t, `
app:
  mode: debug
database:
  driver: sqlite
  path: /tmp/catalog.db
  auto_migrate: true
log:
  level: debug
  format: json
`)

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.Mode)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.Database.DSN())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
database:
  password: from-file
`)
	t.Setenv("BOOKCATALOG_DATABASE_PASSWORD", "from-env")
	t.Setenv("BOOKCATALOG_STORE_BACKEND", "redis")

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"未知驱动", "database:\n  driver: oracle\n"},
		{"未知后端", "store:\n  backend: mongo\n"},
		{"连接数为0", "database:\n  max_open_conns: 0\n"},
		{"空闲连接超过上限", "database:\n  max_open_conns: 2\n  max_idle_conns: 5\n"},
		{"指标缺少地址", "metrics:\n  enabled: true\n  addr: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(viper.New(), writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	mysqlCfg := DatabaseConfig{
		Driver: DriverMySQL, User: "root", Password: "secret",
		Host: "localhost", Port: 3306, DBName: "books",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:secret@tcp(localhost:3306)/books?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai&clientFoundRows=true",
		mysqlCfg.DSN())

	pgCfg := DatabaseConfig{
		Driver: DriverPostgres, User: "postgres", Password: "pw",
		Host: "db", Port: 5432, DBName: "books", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=postgres password=pw dbname=books sslmode=disable",
		pgCfg.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
