package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/capsresources/resource-organizer/constants"
)

// Config holds all application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Extract ExtractConfig `yaml:"extract"`
	Walk    WalkConfig    `yaml:"walk"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// PathsConfig holds the input tree and the organized output tree.
type PathsConfig struct {
	InputRoot     string `yaml:"input_root"`
	OrganizedRoot string `yaml:"organized_root"`
	ManifestName  string `yaml:"manifest_name"`
}

// ExtractConfig bounds how much of each document is read.
type ExtractConfig struct {
	PDFPages         int    `yaml:"pdf_pages"`
	WordParagraphs   int    `yaml:"word_paragraphs"`
	ExcelCells       int    `yaml:"excel_cells"`
	SlideCount       int    `yaml:"slide_count"`
	LegacyBytes      int    `yaml:"legacy_bytes"`
	Pdftotext        string `yaml:"pdftotext"`
	DisablePdftotext bool   `yaml:"disable_pdftotext"`
}

// WalkConfig controls which files the batch picks up.
type WalkConfig struct {
	Extensions []string `yaml:"extensions"`
	Exclude    []string `yaml:"exclude"`
	SkipHidden bool     `yaml:"skip_hidden"`
}

// CatalogConfig holds catalog database configuration
type CatalogConfig struct {
	Driver          string             `yaml:"driver"` // "sqlite" | "postgres"
	DSN             string             `yaml:"dsn"`
	MaxConns        int32              `yaml:"max_conns"`
	MinConns        int32              `yaml:"min_conns"`
	MaxConnLifetime time.Duration      `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration      `yaml:"max_conn_idle_time"`
	DialTimeout     time.Duration      `yaml:"dial_timeout"`
	DefaultPrice    float64            `yaml:"default_price"`
	Prices          map[string]float64 `yaml:"prices"`
}

// DefaultPrices is the grade -> price table used by catalog import.
var DefaultPrices = map[string]float64{
	"preschool": 29.99,
	"reception": 34.99,
	"grade1":    39.99,
	"grade2":    39.99,
	"grade3":    39.99,
	"grade4":    49.99,
	"grade5":    49.99,
	"grade6":    49.99,
	"grade7":    59.99,
	"grade8":    59.99,
	"grade9":    59.99,
	"grade10":   79.99,
	"grade11":   79.99,
	"grade12":   89.99,
}

// DefaultConfig returns the built-in configuration before file and env overrides.
func DefaultConfig() *Config {
	prices := make(map[string]float64, len(DefaultPrices))
	for k, v := range DefaultPrices {
		prices[k] = v
	}
	return &Config{
		Paths: PathsConfig{
			InputRoot:     "./resources",
			OrganizedRoot: "./storage/organized",
			ManifestName:  constants.ManifestFilename,
		},
		Extract: ExtractConfig{
			PDFPages:       2,
			WordParagraphs: 20,
			ExcelCells:     100,
			SlideCount:     3,
			LegacyBytes:    256 << 10,
			Pdftotext:      "pdftotext",
		},
		Walk: WalkConfig{
			Extensions: constants.DefaultExtensions,
			SkipHidden: true,
		},
		Catalog: CatalogConfig{
			Driver:          "sqlite",
			DSN:             "./storage/catalog.db",
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
			DefaultPrice:    49.99,
			Prices:          prices,
		},
	}
}

// LoadConfig loads configuration from defaults, then the optional YAML file
// at path, then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("ORGANIZER_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("parse config file %s", path), err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Paths.InputRoot = getEnv("RESOURCES_FOLDER", c.Paths.InputRoot)
	c.Paths.OrganizedRoot = getEnv("ORGANIZED_FOLDER", c.Paths.OrganizedRoot)
	c.Paths.ManifestName = getEnv("MANIFEST_NAME", c.Paths.ManifestName)

	c.Extract.PDFPages = getEnvAsInt("EXTRACT_PDF_PAGES", c.Extract.PDFPages)
	c.Extract.WordParagraphs = getEnvAsInt("EXTRACT_WORD_PARAGRAPHS", c.Extract.WordParagraphs)
	c.Extract.ExcelCells = getEnvAsInt("EXTRACT_EXCEL_CELLS", c.Extract.ExcelCells)
	c.Extract.SlideCount = getEnvAsInt("EXTRACT_SLIDES", c.Extract.SlideCount)
	c.Extract.Pdftotext = getEnv("PDFTOTEXT", c.Extract.Pdftotext)

	if v := os.Getenv("WALK_EXTENSIONS"); v != "" {
		c.Walk.Extensions = strings.Split(v, ",")
	}
	if v := os.Getenv("WALK_EXCLUDE"); v != "" {
		c.Walk.Exclude = strings.Split(v, ",")
	}

	c.Catalog.Driver = getEnv("CATALOG_DRIVER", c.Catalog.Driver)
	c.Catalog.DSN = getEnv("DB_URL", c.Catalog.DSN)
	c.Catalog.MaxConns = getEnvAsInt32("DB_MAX_CONNS", c.Catalog.MaxConns)
	c.Catalog.MinConns = getEnvAsInt32("DB_MIN_CONNS", c.Catalog.MinConns)
	c.Catalog.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", c.Catalog.MaxConnLifetime)
	c.Catalog.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", c.Catalog.MaxConnIdleTime)
	c.Catalog.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", c.Catalog.DialTimeout)
	c.Catalog.DefaultPrice = getEnvAsFloat64("DEFAULT_PRICE", c.Catalog.DefaultPrice)
}

// ManifestPath is the absolute-or-relative location of the run manifest.
func (c *Config) ManifestPath() string {
	name := c.Paths.ManifestName
	if name == "" {
		name = constants.ManifestFilename
	}
	return filepath.Join(c.Paths.OrganizedRoot, name)
}

// PriceFor returns the catalog price for a grade, falling back to DefaultPrice.
func (c CatalogConfig) PriceFor(grade string) float64 {
	if p, ok := c.Prices[grade]; ok {
		return p
	}
	return c.DefaultPrice
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the settings the organize run cannot do without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InputRoot) == "" {
		return NewAppError("CONFIG_ERROR", "input root is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Paths.OrganizedRoot) == "" {
		return NewAppError("CONFIG_ERROR", "organized root is required", ErrInvalidInput)
	}
	if in, err := filepath.Abs(c.Paths.InputRoot); err == nil {
		if out, err := filepath.Abs(c.Paths.OrganizedRoot); err == nil && in == out {
			return NewAppError("CONFIG_ERROR", "organized root must differ from input root", ErrInvalidInput)
		}
	}
	if c.Extract.PDFPages <= 0 || c.Extract.WordParagraphs <= 0 || c.Extract.ExcelCells <= 0 || c.Extract.SlideCount <= 0 {
		return NewAppError("CONFIG_ERROR", "extract limits must be positive", ErrInvalidInput)
	}
	return nil
}

// ValidateCatalog checks the settings catalog import needs.
func (c *Config) ValidateCatalog() error {
	switch c.Catalog.Driver {
	case "sqlite", "postgres":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown catalog driver %q", c.Catalog.Driver), ErrInvalidInput)
	}
	if c.Catalog.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	return nil
}
