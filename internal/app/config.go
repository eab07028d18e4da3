package app

import (
	"strings"

	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/utils"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string
	CORSOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	origins := []string{}
	if raw := utils.GetEnv("CORS_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return Config{
		Port:        utils.GetEnv("PORT", "8080", log),
		ServiceName: utils.GetEnv("SERVICE_NAME", "annomania-api", log),
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
		CORSOrigins: origins,
	}
}
