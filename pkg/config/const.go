package config

const (
	// EnvPrefix namespaces all environment variables consumed by envconfig.
	EnvPrefix = "TABLEBOOK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
