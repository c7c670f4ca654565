// Package config loads process configuration from the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Configuration errors. Both are fatal at startup.
var (
	ErrMissingCredentials = errors.New("firebase service account credentials not found")
	ErrInvalidCredentials = errors.New("firebase service account credentials are malformed")
)

// DefaultCredentialsPath is used when neither credential variable is set.
const DefaultCredentialsPath = "./serviceAccountKey.json"

// Store backends.
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendPostgres  = "postgres"
)

// Config holds the process configuration.
type Config struct {
	Port        string
	Environment string

	// CredentialsJSON is the inline service account document, if provided.
	CredentialsJSON string
	// CredentialsPath is the service account file used when CredentialsJSON is empty.
	CredentialsPath string

	StoreBackend  string
	MongoURI      string
	MongoDatabase string

	ExpoAccessToken string

	NotifyJWTSecret string
	NotifyRateLimit int
	RequireTLS      bool

	OTelEnabled     bool
	OTLPEndpoint    string
	OTelSampleRatio float64

	PubSubProjectID    string
	PubSubSubscription string
}

// FromEnv builds a Config from environment variables.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	rateLimit, err := strconv.Atoi(getEnvOrDefault("NOTIFY_RATE_LIMIT", "120"))
	if err != nil || rateLimit < 0 {
		rateLimit = 120
	}

	sampleRatio, err := strconv.ParseFloat(getEnvOrDefault("OTEL_TRACES_SAMPLER_ARG", "1"), 64)
	if err != nil {
		sampleRatio = 1
	}

	return Config{
		Port:               getEnvOrDefault("PORT", "3000"),
		Environment:        getEnvOrDefault("APP_ENV", "development"),
		CredentialsJSON:    strings.TrimSpace(os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")),
		CredentialsPath:    getEnvOrDefault("FIREBASE_SERVICE_ACCOUNT_PATH", DefaultCredentialsPath),
		StoreBackend:       strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendFirestore)),
		MongoURI:           getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnvOrDefault("MONGO_DATABASE", "orderpush"),
		ExpoAccessToken:    os.Getenv("EXPO_ACCESS_TOKEN"),
		NotifyJWTSecret:    os.Getenv("NOTIFY_JWT_SECRET"),
		NotifyRateLimit:    rateLimit,
		RequireTLS:         os.Getenv("REQUIRE_TLS") == "true",
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio:    sampleRatio,
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: getEnvOrDefault("PUBSUB_SUBSCRIPTION", "order-events-push"),
	}
}

// ServiceAccount is the subset of a Google service account document we inspect.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// Credentials resolves the service account document. Inline JSON wins over the file path.
// The returned bytes are the raw document, suitable for option.WithCredentialsJSON.
func (c Config) Credentials() ([]byte, *ServiceAccount, error) {
	var raw []byte
	if c.CredentialsJSON != "" {
		raw = []byte(c.CredentialsJSON)
	} else {
		path := c.CredentialsPath
		if path == "" {
			path = DefaultCredentialsPath
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("%w: %s", ErrMissingCredentials, path)
			}
			return nil, nil, fmt.Errorf("read credentials file: %w", err)
		}
		raw = data
	}

	account, err := ParseServiceAccount(raw)
	if err != nil {
		return nil, nil, err
	}
	return raw, account, nil
}

// ParseServiceAccount validates a service account document.
func ParseServiceAccount(raw []byte) (*ServiceAccount, error) {
	var account ServiceAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, err.Error())
	}
	if account.ProjectID == "" {
		return nil, fmt.Errorf("%w: project_id is missing", ErrInvalidCredentials)
	}
	return &account, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
