package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

// withEnvFiles layers the variables of files under the process environment.
// Missing files are skipped.
func withEnvFiles(files ...string) (lookupFunc, error) {
	vars := make(map[string]string)
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		read, err := godotenv.Read(file)
		if err != nil {
			return nil, err
		}
		for k, v := range read {
			vars[k] = v
		}
	}

	return func(key string) (string, bool) {
		if val, ok := os.LookupEnv(key); ok {
			return val, true
		}
		val, ok := vars[key]
		return val, ok
	}, nil
}

func getString(lookup lookupFunc, key, fallback string) string {
	val, ok := lookup(key)
	if !ok {
		return fallback
	}

	return val
}

func getInt(lookup lookupFunc, key string, fallback int) int {
	val, ok := lookup(key)
	if !ok {
		return fallback
	}

	valAsInt, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}

	return valAsInt
}
