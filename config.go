package xmlshape

import (
	"io"
	"log/slog"
	"os"
)

const (
	defaultDir        = "."
	defaultFilePrefix = "serialized_"
	defaultIndent     = "  "
)

type Config struct {
	Dir        string
	FilePrefix string
	Indent     string
	Log        bool
	Logger     *slog.Logger
}

func (cfg *Config) applyTo(p *Processor) error {
	if cfg.Dir == "" {
		cfg.Dir = defaultDir
	}

	if cfg.FilePrefix == "" {
		cfg.FilePrefix = defaultFilePrefix
	}

	if cfg.Indent == "" {
		cfg.Indent = defaultIndent
	}

	if cfg.Logger == nil {
		if cfg.Log {
			cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
	}

	p.cfg = cfg
	p.log = cfg.Logger

	return nil
}
