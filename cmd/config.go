package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/coaching"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/logging"
	"github.com/abhisek/prepcoach/internal/store"
)

// viperForCmd binds a command's flags, PREPCOACH_* environment variables
// and the optional config file to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix("PREPCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("prepcoach")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/prepcoach")
		v.AddConfigPath("/etc/prepcoach")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// runtime is what a command needs: resolved config, a logger and the
// open store.
type runtime struct {
	v      *viper.Viper
	logger *zap.Logger
	store  *store.Store
}

// setup resolves configuration and opens the store.
func setup(cmd *cobra.Command) (*runtime, error) {
	v, err := viperForCmd(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(v.GetString("log-level"), v.GetString("log-format"))
	if err != nil {
		return nil, err
	}
	if f := v.ConfigFileUsed(); f != "" {
		logger.Debug("loaded config file", zap.String("path", f))
	}

	dbPath, err := resolveDBPath(v)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))
	return &runtime{v: v, logger: logger, store: st}, nil
}

func (r *runtime) Close() {
	r.store.Close()
	_ = r.logger.Sync()
}

// user returns the --user value.
func (r *runtime) user() string {
	return r.v.GetString("user")
}

// jsonOutput reports whether --output json was requested.
func (r *runtime) jsonOutput() bool {
	return strings.EqualFold(r.v.GetString("output"), "json")
}

// resolveDBPath returns the --db flag or config value, falling back to
// PREPCOACH_DB and then the default XDG path.
func resolveDBPath(v *viper.Viper) (string, error) {
	if p := v.GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// llmConfig overlays the llm-* settings on the provider config discovered
// from the environment.
func (r *runtime) llmConfig() llm.Config {
	cfg := llm.ConfigFromEnv()
	if p := r.v.GetString("llm-provider"); p != "" {
		cfg.Provider = p
	}
	if d := r.v.GetDuration("llm-timeout"); d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

// analyst builds the answer analyst. A provider that cannot be built is
// reported once and replaced by the fallback-only analyst.
func (r *runtime) analyst(ctx context.Context) *coaching.Analyst {
	cfg := r.llmConfig()
	var provider llm.Provider
	if err := cfg.Validate(); err != nil {
		r.logger.Warn("LLM provider not configured; analysis will use fallbacks", zap.Error(err))
		provider = llm.Disabled()
	} else if provider, err = llm.NewProvider(ctx, cfg, r.store.EventRepo(), r.logger); err != nil {
		r.logger.Warn("LLM provider unavailable; analysis will use fallbacks", zap.Error(err))
		provider = llm.Disabled()
	}
	return coaching.NewAnalyst(provider, coaching.DefaultAnalystConfig(), nil, r.logger)
}
