package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/burrow/pkg/adapter"
	"github.com/m-mizutani/burrow/pkg/repository"
	"github.com/m-mizutani/burrow/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	// Storage
	storageDir        string
	firestoreProject  string
	firestoreDatabase string
	bucket            string

	// Logging
	logLevel  string
	logFormat string

	// Optional YAML config file
	configPath string
}

// fileConfig is the YAML config file shape
type fileConfig struct {
	Storage struct {
		Dir       string `yaml:"dir"`
		Bucket    string `yaml:"bucket"`
		Firestore struct {
			Project  string `yaml:"project"`
			Database string `yaml:"database"`
		} `yaml:"firestore"`
	} `yaml:"storage"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-dir",
			Aliases:     []string{"s"},
			Usage:       "Directory for the model registry",
			Value:       "./models",
			Sources:     cli.EnvVars("BURROW_STORAGE_DIR"),
			Destination: &cfg.storageDir,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project ID (switches the registry to Firestore)",
			Sources:     cli.EnvVars("BURROW_FIRESTORE_PROJECT"),
			Destination: &cfg.firestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("BURROW_FIRESTORE_DATABASE"),
			Destination: &cfg.firestoreDatabase,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for artifacts (Firestore registry only)",
			Sources:     cli.EnvVars("BURROW_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("BURROW_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Sources:     cli.EnvVars("BURROW_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("BURROW_CONFIG"),
			Destination: &cfg.configPath,
		},
	}
}

// setup applies the optional config file and attaches a logger to the
// context. Called at the top of every command action.
func (cfg *config) setup(ctx context.Context) (context.Context, error) {
	if cfg.configPath != "" {
		if err := cfg.loadFile(); err != nil {
			return ctx, err
		}
	}

	logger := logging.New(cfg.logLevel, cfg.logFormat, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), nil
}

// loadFile merges values from the YAML config file. File values win over
// flag defaults but not over explicitly set flags, so the file is read
// into the zero slots only.
func (cfg *config) loadFile() error {
	raw, err := os.ReadFile(cfg.configPath)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configPath))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configPath))
	}

	if fc.Storage.Dir != "" {
		cfg.storageDir = fc.Storage.Dir
	}
	if fc.Storage.Bucket != "" {
		cfg.bucket = fc.Storage.Bucket
	}
	if fc.Storage.Firestore.Project != "" {
		cfg.firestoreProject = fc.Storage.Firestore.Project
	}
	if fc.Storage.Firestore.Database != "" {
		cfg.firestoreDatabase = fc.Storage.Firestore.Database
	}
	if fc.Log.Level != "" {
		cfg.logLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		cfg.logFormat = fc.Log.Format
	}
	return nil
}

// newRegistry creates the registry chosen by configuration: Firestore when
// a project is set, the local file registry otherwise. The returned closer
// releases any client connections.
func (cfg *config) newRegistry(ctx context.Context) (repository.Registry, func(), error) {
	if cfg.firestoreProject != "" {
		if cfg.bucket == "" {
			return nil, nil, goerr.New("bucket is required for the Firestore registry")
		}

		store, err := adapter.NewStorage(ctx, cfg.bucket)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewFirestore(ctx, cfg.firestoreProject, cfg.firestoreDatabase, store)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logging.From(ctx).Warn("failed to close firestore client", "err", err)
			}
		}, nil
	}

	if cfg.storageDir == "" {
		return nil, nil, goerr.New("storage-dir is required")
	}
	return repository.NewLocal(cfg.storageDir), func() {}, nil
}
