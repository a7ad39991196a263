package config

import (
	"os"
	"strconv"
	"strings"

	"docx-pdf-service/internal/domain"
)

// Mirror names accepted by ARTIFACT_MIRROR
const (
	MirrorNone     = "none"
	MirrorSupabase = "supabase"
	MirrorS3       = "s3"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	UploadPath     string
	ConvertedPath  string
	FontPath       string
	FontSize       float64
	MaxFileSize    int64
	LogLevel       string
	CORSOrigins    []string
	ArtifactMirror string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
	S3             domain.S3Config
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:     getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		UploadPath:     getEnvOrDefault("UPLOAD_PATH", "uploads"),
		ConvertedPath:  getEnvOrDefault("CONVERTED_PATH", "converted"),
		FontPath:       getEnvOrDefault("FONT_PATH", "fonts/DejaVuSans.ttf"),
		FontSize:       getEnvFloatOrDefault("FONT_SIZE", 12),
		MaxFileSize:    getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		CORSOrigins:    getEnvListOrDefault("CORS_ORIGINS", []string{"*"}),
		ArtifactMirror: strings.ToLower(getEnvOrDefault("ARTIFACT_MIRROR", MirrorNone)),
		SupabaseURL:    getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:    getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseBucket: getEnvOrDefault("SUPABASE_BUCKET", "converted"),
		S3: domain.S3Config{
			Endpoint:  getEnvOrDefault("S3_ENDPOINT", ""),
			AccessKey: getEnvOrDefault("S3_ACCESS_KEY", ""),
			SecretKey: getEnvOrDefault("S3_SECRET_KEY", ""),
			Bucket:    getEnvOrDefault("S3_BUCKET", ""),
			Region:    getEnvOrDefault("S3_REGION", ""),
			UseSSL:    getEnvBoolOrDefault("S3_USE_SSL", true),
		},
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetUploadPath returns the input area directory
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetConvertedPath returns the output area directory
func (c *AppConfig) GetConvertedPath() string {
	return c.ConvertedPath
}

// GetFontPath returns the Unicode font resource path
func (c *AppConfig) GetFontPath() string {
	return c.FontPath
}

// GetFontSize returns the rendering font size in points
func (c *AppConfig) GetFontSize() float64 {
	return c.FontSize
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetCORSOrigins returns the allowed CORS origins
func (c *AppConfig) GetCORSOrigins() []string {
	return c.CORSOrigins
}

// GetArtifactMirror returns the configured mirror backend
func (c *AppConfig) GetArtifactMirror() string {
	return c.ArtifactMirror
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseBucket returns the Supabase Storage bucket for mirrored artifacts
func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

// GetS3Config returns the S3 mirror settings
func (c *AppConfig) GetS3Config() domain.S3Config {
	return c.S3
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
