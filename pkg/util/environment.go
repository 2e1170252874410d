package util

import (
	"os"
	"strconv"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)
		if len(pair) != 2 {
			continue
		}

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvironmentInt reads an integer variable, returning ok=false when it is unset or malformed
func EnvironmentInt(env map[string]string, key string) (int, bool) {
	value := strings.TrimSpace(env[key])
	if value == "" {
		return 0, false
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}

	return n, true
}

// EnvironmentList splits a comma separated variable, dropping blank entries
func EnvironmentList(env map[string]string, key string) []string {
	value := strings.TrimSpace(env[key])
	if value == "" {
		return nil
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		list = append(list, strings.TrimSpace(item))
	}

	return RemoveDuplicateStrings(list, nil)
}
