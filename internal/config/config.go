package config

import "os"

type Config struct {
	ServerPort             string
	CORSOrigin             string
	PackPath               string
	UploadDir              string
	PreserveScoreOnRelogin bool
}

func Load() *Config {
	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8000"),
		CORSOrigin:             getEnv("CORS_ORIGIN", "*"),
		PackPath:               getEnv("PACK_PATH", "/uploads/pack.json"),
		UploadDir:              getEnv("UPLOAD_DIR", "/uploads"),
		PreserveScoreOnRelogin: getEnv("PRESERVE_SCORE_ON_RELOGIN", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
