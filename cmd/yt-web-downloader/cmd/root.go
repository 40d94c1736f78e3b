package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/yt-web-downloader/internal/config"
)

// EnvPrefix prefixes every environment override, e.g. YTWD_OUTPUT_DIR
const EnvPrefix = "YTWD"

var (
	cfgFile  string
	settings *config.Settings
	v        = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "yt-web-downloader",
	Short: "Web interface for downloading videos, audio and playlists with yt-dlp",
	Long: `yt-web-downloader serves a small web page where a link can be previewed
and downloaded as video, audio or a whole playlist packaged as a zip archive.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadGlobalConfig,
	RunE:              runServe,
}

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", config.DefaultConfigFile, "Configuration file path")
	flags.String("output-dir", "", "Directory for downloaded files (overrides config)")
	flags.String("listen", "", "HTTP listen address (overrides config)")
	flags.String("yt-dlp", "", "Path to the yt-dlp executable (overrides config)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("language", "", "Interface language: system, en, ru, pt")

	bindings := map[string]string{
		"output_dir": "output-dir",
		"listen":     "listen",
		"yt_dlp":     "yt-dlp",
		"log_level":  "log-level",
		"log_format": "log-format",
		"language":   "language",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, versionCmd)
}

func loadGlobalConfig(cmd *cobra.Command, args []string) error {
	// .env is optional
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	path := cfgFile
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" && !cmd.Flags().Changed("config") {
		path = env
	}

	s, err := config.Load(path)
	if err != nil {
		return err
	}
	applyOverrides(s, v)
	s.Normalize()
	setupLogging(s)

	settings = s
	log.Debugf("Effective settings: output=%s listen=%s yt-dlp=%s language=%s",
		s.OutputDir, s.ListenAddr, s.YtDlpPath, s.Language)
	return nil
}

// applyOverrides copies every non-empty flag or environment value onto s
func applyOverrides(s *config.Settings, src *viper.Viper) {
	override := func(key string, dst *string) {
		if val := strings.TrimSpace(src.GetString(key)); val != "" {
			*dst = val
		}
	}
	override("output_dir", &s.OutputDir)
	override("listen", &s.ListenAddr)
	override("yt_dlp", &s.YtDlpPath)
	override("log_level", &s.LogLevel)
	override("log_format", &s.LogFormat)
	override("language", &s.Language)

	if n := src.GetInt("metadata_timeout_seconds"); n > 0 {
		s.MetadataTimeoutSeconds = n
	}
	if n := src.GetInt("progress_interval_ms"); n > 0 {
		s.ProgressIntervalMillis = n
	}
}

func setupLogging(s *config.Settings) {
	if s.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
