package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"cashbox/internal/config"
	"cashbox/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

const downMarker = "-- +migrate Down"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	switch command {
	case "up":
		migrateUp(database)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil || steps < 1 {
				log.Fatalf("usage: migrate down [steps]")
			}
		}
		migrateDown(database, steps)
	default:
		log.Fatalf("unknown command %q, expected up or down", command)
	}
}

func migrateUp(database *sqlx.DB) {
	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		log.Fatalf("failed to read migrations: %v", err)
	}
	sort.Strings(files)

	for _, file := range files {
		filename := filepath.Base(file)
		var exists bool
		if err := database.Get(&exists, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, filename); err != nil {
			log.Fatalf("failed to read migration state: %v", err)
		}
		if exists {
			continue
		}
		if err := applySection(database, file, false); err != nil {
			log.Fatalf("failed to apply %s: %v", filename, err)
		}
		if _, err := database.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, filename); err != nil {
			log.Fatalf("failed to record migration %s: %v", filename, err)
		}
		fmt.Printf("applied %s\n", filename)
	}
}

func migrateDown(database *sqlx.DB, steps int) {
	var applied []string
	if err := database.Select(&applied, `SELECT filename FROM schema_migrations ORDER BY filename DESC LIMIT $1`, steps); err != nil {
		log.Fatalf("failed to read migration state: %v", err)
	}
	for _, filename := range applied {
		if err := applySection(database, filepath.Join("migrations", filename), true); err != nil {
			log.Fatalf("failed to roll back %s: %v", filename, err)
		}
		if _, err := database.Exec(`DELETE FROM schema_migrations WHERE filename = $1`, filename); err != nil {
			log.Fatalf("failed to unrecord migration %s: %v", filename, err)
		}
		fmt.Printf("rolled back %s\n", filename)
	}
}

// applySection runs the up or down half of a migration file. The two
// halves are separated by the "-- +migrate Down" marker; a file without
// the marker has no down half.
func applySection(db execer, path string, down bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sections := strings.SplitN(string(content), downMarker, 2)
	section := sections[0]
	if down {
		if len(sections) < 2 {
			return fmt.Errorf("%s has no down section", filepath.Base(path))
		}
		section = sections[1]
	}
	for _, stmt := range splitSQL(section) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func splitSQL(sqlText string) []string {
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteRune('\n')
		if strings.Contains(line, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
