package config

const (
	EnvPrefix = "CAFEAPP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
