package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/animalet/tramuntana/pkg/auth"
	"github.com/animalet/tramuntana/pkg/config"
	"github.com/animalet/tramuntana/pkg/filter"
	"github.com/animalet/tramuntana/pkg/server"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version information set during build
var (
	version = "dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	debugMode := flag.Bool("debug", false, "Enable debug mode")
	silent := flag.Bool("silent", false, "Suppress informational configuration logging")
	dump := flag.Bool("dump", false, "Print the effective configuration as YAML and exit")
	envDir := flag.String("env-dir", "env", "Directory holding the environment definition files")
	environment := flag.String("environment", envOrDefault("TRAMUNTANA_ENV", string(config.Development)), "Active deployment environment")

	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", "tramuntana", version)
		os.Exit(0)
	}

	if *debugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		NoColor:    false,
		TimeFormat: "2006-01-02 15:04:05",
	})

	defer func() {
		// Exit gracefully after panicking
		if r := recover(); r != nil {
			log.Fatal().Msgf("Fatal error: %v", r)
			os.Exit(1)
		}
	}()

	cfg, err := config.Load(*envDir, config.Options{
		Environment: config.Environment(*environment),
		Version:     version,
		Silent:      *silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to assemble configuration")
	}

	if *dump {
		out, err := cfg.YAML()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render configuration")
		}
		fmt.Print(out)
		os.Exit(0)
	}

	if err := auth.Setup(cfg); err != nil {
		panic(errors.Wrap(err, "failed to register identity providers"))
	}

	filters := filter.NewRegistry()
	filters.Register(filter.NewJSONPretty())
	filters.Register(filter.NewEmoji())
	filters.Register(filter.NewCommand("highlight", []string{"pygmentize", "-f", "html"}, filter.DefaultCommandTimeout))
	log.Debug().Strs("filters", filters.Names()).Msg("Template filters registered")

	tramuntana, err := server.New(cfg)
	if err != nil {
		panic(errors.Wrap(err, "failed to create server"))
	}

	if err := tramuntana.StartAndWaitForSignal(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
