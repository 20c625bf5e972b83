package config

import (
	"fmt"
	"strings"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/utils"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

// InitializeEnvFile loads ENV_FILES (comma separated, default .env). Variables
// already present in the process environment win.
func InitializeEnvFile(logger *log.Logger) {
	if utils.GetEnvBool("SKIP_DOTENV", false) {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	files := utils.GetEnvList("ENV_FILES")
	if len(files) == 0 {
		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No env file loaded", "files", strings.Join(files, ","), "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded", "files", strings.Join(files, ","))
}

func GetAppEnv() string {
	return strings.ToLower(utils.GetEnvTrimmed(AppEnvKey))
}

var devLikeEnvs = map[string]bool{
	"": true, "dev": true, "development": true, "local": true, "test": true, "testing": true,
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	if devLikeEnvs[env] {
		return nil
	}
	return fmt.Errorf("--auto-migrate is not allowed when %s=%q; run `cli migrate up` instead", AppEnvKey, env)
}
