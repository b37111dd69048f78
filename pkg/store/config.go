package store

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultPath   = "~/.dailyreport"
	defaultAuthor = "Naveen Kumar"
	defaultSite   = "NK Portfolio"
)

// Config locates durable storage and carries the export identity.
type Config interface {
	// BasePath is the directory holding the report store.
	BasePath() string
	// SessionPath is the directory holding session-scoped state.
	SessionPath() string
	// Digest overrides the compiled-in reference digest when non-empty.
	Digest() string
	// Author and Site identify the generator on exported documents.
	Author() string
	Site() string
}

// LoadConfig reads .dailyreport.yaml and DAILYREPORT_* environment variables.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", defaultPath)
	viper.SetDefault("session_path", defaultSessionPath())
	viper.SetDefault("digest", "")
	viper.SetDefault("author", defaultAuthor)
	viper.SetDefault("site", defaultSite)
	viper.SetConfigName(".dailyreport") // .yaml is implicit
	viper.SetEnvPrefix("DAILYREPORT")
	viper.AutomaticEnv()

	if override := os.Getenv("DAILYREPORT_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	sessionPath, err := homedir.Expand(viper.GetString("session_path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand session path: %w", err)
	}

	return &fileConfig{
		Path:       path,
		SessionDir: sessionPath,
		DigestRef:  viper.GetString("digest"),
		AuthorName: viper.GetString("author"),
		SiteName:   viper.GetString("site"),
	}, nil
}

// defaultSessionPath lives under the per-login runtime directory when one
// exists, so the unlock flag does not outlive the login session.
func defaultSessionPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "dailyreport")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("dailyreport-%d", os.Getuid()))
}

type fileConfig struct {
	Path       string `json:"path"`
	SessionDir string `json:"session_path"`
	DigestRef  string `json:"digest"`
	AuthorName string `json:"author"`
	SiteName   string `json:"site"`
}

func (f *fileConfig) BasePath() string    { return f.Path }
func (f *fileConfig) SessionPath() string { return f.SessionDir }
func (f *fileConfig) Digest() string      { return f.DigestRef }
func (f *fileConfig) Author() string      { return f.AuthorName }
func (f *fileConfig) Site() string        { return f.SiteName }
