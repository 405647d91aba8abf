package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv layers .env files into the process environment before Load
// reads it. godotenv never overwrites variables that are already set, so
// real environment variables beat .env.local, which beats .env. Missing
// or unreadable files are skipped. Returns the files that were read, for
// the startup log.
func LoadDotEnv() []string {
	loaded := make([]string, 0, 2)
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded
}
