package util

import (
	"errors"
	"io/fs"

	"github.com/LerianStudio/lib-commons/commons"
	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/LerianStudio/snyk-gc-projects/constant"
	"github.com/joho/godotenv"
)

// DotenvPath returns the dotenv file named by SNYK_GC_ENV_FILE, or ".env".
func DotenvPath() string {
	return commons.GetenvOrDefault(constant.EnvDotenvFile, constant.DefaultDotenvFile)
}

// LoadDotenv loads variables from path into the process environment.
// Variables already set are kept. A missing file is not an error.
func LoadDotenv(path string, l log.Logger) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Debugf("No env file at %s", path)

			return nil
		}

		l.Errorf("Failed to load env file %s: %v", path, err)

		return err
	}

	l.Debugf("Loaded env file %s", path)

	return nil
}
