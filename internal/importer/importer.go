// Package importer loads a legacy flat file of users into the store.
// It runs once at startup and is tolerant by design: malformed lines and
// duplicate usernames are skipped, per-row storage errors are logged and
// the loop continues.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mkarov/intelconsole/internal/store"
)

// FromFile merges a newline-delimited "username,password_hash" file into
// the users table and returns the number of rows actually inserted.
// Blank lines and lines with fewer than two comma-separated fields are
// skipped; fields beyond the second are ignored. Duplicates are skipped
// via INSERT IGNORE and not counted. A missing file imports zero rows
// and is not an error.
func FromFile(ctx context.Context, s store.Facade, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("importer: %s not found, nothing to import", path)
			return 0, nil
		}
		return 0, fmt.Errorf("importer: open %s: %w", path, err)
	}
	defer f.Close()

	imported := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		username := strings.TrimSpace(parts[0])
		passwordHash := strings.TrimSpace(parts[1])

		n, err := s.Exec(ctx,
			"INSERT IGNORE INTO users (username, password_hash, role) VALUES (?, ?, ?)",
			username, passwordHash, "user")
		if err != nil {
			log.Printf("importer: failed to import user %s: %v", username, err)
			continue
		}
		if n > 0 {
			imported++
		}
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("importer: read %s: %w", path, err)
	}

	log.Printf("importer: imported %d users from %s", imported, path)
	return imported, nil
}
