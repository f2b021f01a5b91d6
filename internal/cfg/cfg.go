package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Http    *HTTPConfig
	Db      *PGDBCfg
	Redis   *RedisCfg
	Minio   *MinIOCfg
	Kafka   *KafkaCfg
	Catalog *CatalogCfg
	Ai      *AiCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductTTL  time.Duration
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	PublicBaseURL     string // База публичных URL загруженных изображений
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// CatalogCfg описывает каталожную часть: модель разбиения коллекции
// и список личностей, которым разрешены мутации.
type CatalogCfg struct {
	ScopingMode     string // global | per-user
	TenantNamespace string // пространство имён для per-user путей
	AdminIdentities []string
}

// AiCfg — настройки внешнего сервиса дополнения текста.
type AiCfg struct {
	Endpoint string
	Model    string
	ApiKey   string
	Timeout  time.Duration
}

// IsAdmin сообщает, разрешены ли данной личности мутации каталога.
func (c *CatalogCfg) IsAdmin(identity string) bool {
	for _, admin := range c.AdminIdentities {
		if strings.EqualFold(admin, identity) {
			return true
		}
	}

	return false
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ai, err := loadAiCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:    http,
		Db:      db,
		Redis:   redis,
		Minio:   minio,
		Kafka:   kafka,
		Catalog: catalog,
		Ai:      ai,
	}, nil
}

func loadHTTPConfig() (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 10 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		return nil, e.Wrap("HTTP_READ_TIMEOUT", err)
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		return nil, e.Wrap("HTTP_WRITE_TIMEOUT", err)
	}

	idleTimeout, err := parseDurationEnv("HTTP_IDLE_TIMEOUT", defaultIdleTimeout)
	if err != nil {
		return nil, e.Wrap("HTTP_IDLE_TIMEOUT", err)
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg() (*PGDBCfg, error) {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return nil, fmt.Errorf("POSTGRES_HOST environment variable is required")
	}

	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		return nil, fmt.Errorf("POSTGRES_USER environment variable is required")
	}

	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	dbName := os.Getenv("POSTGRES_DB")
	if dbName == "" {
		return nil, fmt.Errorf("POSTGRES_DB environment variable is required")
	}

	return &PGDBCfg{
		Host:     host,
		Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}, nil
}

func loadRedisCfg() (*RedisCfg, error) {
	const (
		defaultMaxRetries  = 3
		defaultDialTimeout = 5 * time.Second
		defaultTimeout     = 3 * time.Second
		defaultProductTTL  = 5 * time.Minute
	)

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable is required")
	}

	db, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, e.Wrap("REDIS_DB", err)
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("REDIS_MAX_RETRIES", err)
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		return nil, e.Wrap("REDIS_DIAL_TIMEOUT", err)
	}

	timeout, err := parseDurationEnv("REDIS_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, e.Wrap("REDIS_TIMEOUT", err)
	}

	productTTL, err := parseDurationEnv("REDIS_PRODUCT_TTL", defaultProductTTL)
	if err != nil {
		return nil, e.Wrap("REDIS_PRODUCT_TTL", err)
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		User:        os.Getenv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ProductTTL:  productTTL,
	}, nil
}

func loadMinIOCfg() (*MinIOCfg, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT environment variable is required")
	}

	rootUser := os.Getenv("MINIO_ROOT_USER")
	if rootUser == "" {
		return nil, fmt.Errorf("MINIO_ROOT_USER environment variable is required")
	}

	rootPassword := os.Getenv("MINIO_ROOT_PASSWORD")
	if rootPassword == "" {
		return nil, fmt.Errorf("MINIO_ROOT_PASSWORD environment variable is required")
	}

	useSSL, err := parseBoolEnv("MINIO_USE_SSL", false)
	if err != nil {
		return nil, e.Wrap("MINIO_USE_SSL", err)
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("MINIO_BUCKET", "product-images"),
		MinioRootUser:     rootUser,
		MinioRootPassword: rootPassword,
		MinioUseSSL:       useSSL,
		PublicBaseURL:     getEnvOrDefault("MINIO_PUBLIC_BASE_URL", fmt.Sprintf("%s://%s", scheme, endpoint)),
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("KAFKA_REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("KAFKA_REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Topic:             topic,
		Brokers:           brokers,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
	}, nil
}

func loadCatalogCfg() (*CatalogCfg, error) {
	const (
		defaultScopingMode = "global"
		defaultNamespace   = "happy-paws"
	)

	mode := getEnvOrDefault("CATALOG_SCOPING_MODE", defaultScopingMode)
	if mode != "global" && mode != "per-user" {
		return nil, fmt.Errorf("CATALOG_SCOPING_MODE must be 'global' or 'per-user', got %q", mode)
	}

	adminStr := os.Getenv("CATALOG_ADMIN_IDENTITIES")
	if adminStr == "" {
		return nil, fmt.Errorf("CATALOG_ADMIN_IDENTITIES environment variable is required")
	}

	admins := make([]string, 0)
	for _, identity := range strings.Split(adminStr, ",") {
		identity = strings.TrimSpace(identity)
		if identity != "" {
			admins = append(admins, identity)
		}
	}
	if len(admins) == 0 {
		return nil, fmt.Errorf("CATALOG_ADMIN_IDENTITIES contains no identities")
	}

	return &CatalogCfg{
		ScopingMode:     mode,
		TenantNamespace: getEnvOrDefault("CATALOG_TENANT_NAMESPACE", defaultNamespace),
		AdminIdentities: admins,
	}, nil
}

func loadAiCfg() (*AiCfg, error) {
	const (
		defaultEndpoint = "https://generativelanguage.googleapis.com"
		defaultModel    = "gemini-2.0-flash"
		defaultTimeout  = 30 * time.Second
	)

	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("AI_API_KEY environment variable is required")
	}

	timeout, err := parseDurationEnv("AI_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, e.Wrap("AI_TIMEOUT", err)
	}

	return &AiCfg{
		Endpoint: getEnvOrDefault("AI_ENDPOINT", defaultEndpoint),
		Model:    getEnvOrDefault("AI_MODEL", defaultModel),
		ApiKey:   apiKey,
		Timeout:  timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	boolValue, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return boolValue, nil
}
