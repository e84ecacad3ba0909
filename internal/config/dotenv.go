package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotenvFiles in load order; godotenv never overwrites a variable that is
// already set, so real OS env wins over both files and .env.local wins
// over .env.
var dotenvFiles = []string{".env.local", ".env"}

// LoadDotEnv loads the dotenv files present in the working directory and
// returns the names of those it found, for the startup log.
func LoadDotEnv() []string {
	found := []string{}
	for _, name := range dotenvFiles {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		_ = godotenv.Load(found...)
	}
	return found
}
