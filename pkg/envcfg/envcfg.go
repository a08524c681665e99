// Package envcfg binds configuration structs from environment variables via
// `env:"..."` struct tags, with optional .env loading for local runs.
package envcfg

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/rustperms/rustperms/pkg/console"
)

// GetenvOrDefault returns os.Getenv(key), or defaultValue when the variable
// is unset or blank.
func GetenvOrDefault(key string, defaultValue string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return defaultValue
	}

	return v
}

// GetenvBoolOrDefault returns the variable parsed as a bool, or
// defaultValue when it is unset or unparseable.
func GetenvBoolOrDefault(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return v
}

// GetenvIntOrDefault returns the variable parsed as an int64, or
// defaultValue when it is unset or unparseable.
func GetenvIntOrDefault(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}

	return v
}

// LocalEnvConfig records whether a .env file was loaded into the process
// environment.
type LocalEnvConfig struct {
	Initialized bool
}

var (
	localEnvConfig     *LocalEnvConfig
	localEnvConfigOnce sync.Once
)

// InitLocalEnvConfig prints the startup banner and, when ENV_NAME is
// "local" (the default), loads a .env file into the process environment.
// Safe to call more than once; the load happens a single time.
func InitLocalEnvConfig() *LocalEnvConfig {
	version := GetenvOrDefault("VERSION", "NO-VERSION")
	fmt.Println(console.Title("RUSTPERMS version " + version))

	envName := GetenvOrDefault("ENV_NAME", "local")
	fmt.Printf("environment: %s\n", envName)

	if envName == "local" {
		localEnvConfigOnce.Do(func() {
			err := godotenv.Load()
			if err != nil {
				fmt.Println("no .env file found, using process environment as-is")
			}

			localEnvConfig = &LocalEnvConfig{Initialized: err == nil}
		})
	}

	fmt.Println(console.Line(console.DefaultLineSize))

	return localEnvConfig
}

// SetConfigFromEnvVars fills every `env:"..."`-tagged field of the struct s
// points to from the corresponding environment variable, falling back to the
// field's `envDefault` tag when the variable is unset or unparseable.
// Supported field kinds: string, bool, and the signed integer sizes.
func SetConfigFromEnvVars(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.New("envcfg: target must be a pointer to a struct")
	}

	elem := v.Elem()
	t := elem.Type()

	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("env")
		if !ok {
			continue
		}

		key := strings.Split(tag, ",")[0]
		fallback := t.Field(i).Tag.Get("envDefault")

		field := elem.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.Bool:
			def, _ := strconv.ParseBool(fallback)
			field.SetBool(GetenvBoolOrDefault(key, def))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			def, _ := strconv.ParseInt(fallback, 10, 64)
			field.SetInt(GetenvIntOrDefault(key, def))
		case reflect.String:
			field.SetString(GetenvOrDefault(key, fallback))
		}
	}

	return nil
}

// EnsureConfigFromEnvVars is SetConfigFromEnvVars for callers that treat a
// malformed target as a programming error.
func EnsureConfigFromEnvVars(s any) any {
	if err := SetConfigFromEnvVars(s); err != nil {
		panic(err)
	}

	return s
}
