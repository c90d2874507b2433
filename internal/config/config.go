// Package config reads the process configuration from the environment.
// Values become the defaults of the CLI flags; nothing is reconfigurable
// after startup.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/extract"
)

type Config struct {
	// InputDir receives the downloaded zip archives.
	InputDir string
	// OutputDir receives the expanded raw files and the database file.
	OutputDir string
	DBName    string
	// KeepSourceFiles disables deleting raw files after ingestion.
	KeepSourceFiles    bool
	ExpectedArchives   int
	StrictArchiveCount bool

	BaseURL         string
	DownloadWorkers int

	// optional completion notification
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailTo   string

	LogLevel string
}

const defaultBaseURL = "https://arquivos.receitafederal.gov.br/cnpj/dados_abertos_cnpj/"

func Load() Config {
	return Config{
		InputDir:           getenv("INPUT_FILES_PATH", "output"),
		OutputDir:          getenv("OUTPUT_FILES_PATH", "data"),
		DBName:             getenv("DB_NAME", "cnpj.db"),
		KeepSourceFiles:    getenvBool("KEEP_SOURCE_FILES", false),
		ExpectedArchives:   getenvInt("EXPECTED_ARCHIVES", extract.ExpectedArchives),
		StrictArchiveCount: getenvBool("STRICT_ARCHIVE_COUNT", true),

		BaseURL:         getenv("BASE_URL", defaultBaseURL),
		DownloadWorkers: getenvInt("DOWNLOAD_WORKERS", 5),

		SMTPHost: getenv("SMTP_HOST", ""),
		SMTPPort: getenvInt("SMTP_PORT", 587),
		SMTPUser: getenv("SMTP_USER", ""),
		SMTPPass: getenv("SMTP_PASS", ""),
		MailTo:   getenv("MAIL_TO", ""),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(k)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
