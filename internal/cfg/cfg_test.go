package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USER", "catalog")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "catalog")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ROOT_USER", "minio")
	t.Setenv("MINIO_ROOT_PASSWORD", "minio123")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_TOPIC", "catalog-events")
	t.Setenv("CATALOG_ADMIN_IDENTITIES", "admin@happypaws.example")
	t.Setenv("AI_API_KEY", "test-key")
}

type testLogger struct{}

func (testLogger) Debugf(format string, args ...any)            {}
func (testLogger) Infof(format string, args ...any)             {}
func (testLogger) Warnf(format string, args ...any)             {}
func (testLogger) Errorf(err error, format string, args ...any) {}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(testLogger{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, "5432", cfg.Db.Port)
	assert.Equal(t, "disable", cfg.Db.SSLMode)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ProductTTL)
	assert.Equal(t, "product-images", cfg.Minio.BucketName)
	assert.Equal(t, "http://localhost:9000", cfg.Minio.PublicBaseURL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "global", cfg.Catalog.ScopingMode)
	assert.Equal(t, "happy-paws", cfg.Catalog.TenantNamespace)
	assert.Equal(t, "gemini-2.0-flash", cfg.Ai.Model)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_HOST", "")

	_, err := Load(testLogger{})
	assert.Error(t, err)
}

func TestLoad_InvalidScopingMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CATALOG_SCOPING_MODE", "tenant")

	_, err := Load(testLogger{})
	assert.Error(t, err)
}

func TestLoad_PerUserMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CATALOG_SCOPING_MODE", "per-user")
	t.Setenv("CATALOG_TENANT_NAMESPACE", "acme")

	cfg, err := Load(testLogger{})
	require.NoError(t, err)
	assert.Equal(t, "per-user", cfg.Catalog.ScopingMode)
	assert.Equal(t, "acme", cfg.Catalog.TenantNamespace)
}

func TestLoad_AdminIdentitiesParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CATALOG_ADMIN_IDENTITIES", " alice@example.com , ,bob@example.com ")

	cfg, err := Load(testLogger{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, cfg.Catalog.AdminIdentities)
}

func TestCatalogCfg_IsAdmin(t *testing.T) {
	cfg := &CatalogCfg{AdminIdentities: []string{"Admin@HappyPaws.example"}}

	assert.True(t, cfg.IsAdmin("admin@happypaws.example"))
	assert.True(t, cfg.IsAdmin("ADMIN@HAPPYPAWS.EXAMPLE"))
	assert.False(t, cfg.IsAdmin("someone@else.example"))
	assert.False(t, cfg.IsAdmin(""))
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_TIMEOUT", "not-a-duration")

	_, err := Load(testLogger{})
	assert.Error(t, err)
}
