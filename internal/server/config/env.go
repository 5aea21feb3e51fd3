package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from the process environment onto
// the provided Config. An optional .env file in the working directory is
// loaded first; a missing file is not an error.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(name string, target *string) {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}

	setIfPresent("PK_HTTP_ADDR", &config.EndpointAddrHTTP)
	setIfPresent("PK_DATABASE_DSN", &config.DatabaseDSN)
	setIfPresent("PK_SECRET_KEY", &config.SecretKey)
	setIfPresent("PK_AI_API_KEY", &config.AIAPIKey)
	setIfPresent("PK_AI_BASE_ENDPOINT", &config.AIBaseEndpoint)
	setIfPresent("PK_S3_ROOT_USER", &config.S3RootUser)
	setIfPresent("PK_S3_ROOT_PASSWORD", &config.S3RootPassword)
	setIfPresent("PK_S3_BUCKET", &config.S3Bucket)
	setIfPresent("PK_S3_REGION", &config.S3Region)
	setIfPresent("PK_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
