package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvPrefix prefixes every environment variable that overrides a parameter.
// The full name is EnvPrefix + upper(impl) + "_" + upper(param).
const EnvPrefix = "BREAKHAMMER_"

// LoadEnvFiles loads environment variables from .env style files. Without
// arguments, ./.env is loaded if it exists.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		err := godotenv.Load()
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	return godotenv.Load(paths...)
}

// WithEnvOverrides returns a copy of params in which every parameter that has
// a matching environment variable takes the variable's value. Variables that
// name parameters absent from params are added as well.
func WithEnvOverrides(impl string, params Params) Params {
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}

	prefix := EnvPrefix + strings.ToUpper(impl) + "_"
	for _, kv := range os.Environ() {
		key, value, found := strings.Cut(kv, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}

		name := paramName(params, strings.TrimPrefix(key, prefix))
		out[name] = value

		logrus.WithFields(logrus.Fields{
			"impl":  impl,
			"param": name,
			"value": value,
		}).Info("parameter overridden from environment")
	}

	return out
}

func paramName(params Params, envName string) string {
	for k := range params {
		if strings.EqualFold(k, envName) {
			return k
		}
	}

	return strings.ToLower(envName)
}
