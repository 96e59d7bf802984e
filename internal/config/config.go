package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "io/fs"
    "os"
    "time"

    "github.com/jaminalder/jump61/internal/ai"
)

// Config holds server and AI settings.
type Config struct {
    Addr             string `json:"addr"`
    LogLevel         string `json:"log_level"`
    BoardSize        int    `json:"board_size"`
    AIDepth          int    `json:"ai_depth"`
    AIMode           string `json:"ai_mode"`
    AIParallel       bool   `json:"ai_parallel"`
    HeartbeatSeconds int    `json:"heartbeat_seconds"`
}

// Default returns the built-in settings.
func Default() Config {
    return Config{
        Addr:             ":8080",
        LogLevel:         "info",
        BoardSize:        6,
        AIDepth:          ai.DefaultDepth,
        AIMode:           "classic",
        HeartbeatSeconds: 15,
    }
}

// Load reads a JSON file over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        return cfg, nil
    }
    data, err := os.ReadFile(path)
    if errors.Is(err, fs.ErrNotExist) {
        return cfg, nil
    }
    if err != nil {
        return cfg, fmt.Errorf("read config %s: %w", path, err)
    }
    if err := json.Unmarshal(data, &cfg); err != nil {
        return cfg, fmt.Errorf("decode config %s: %w", path, err)
    }
    return cfg, cfg.Validate()
}

// Validate checks ranges and names.
func (c Config) Validate() error {
    if c.BoardSize < 2 || c.BoardSize > 12 {
        return fmt.Errorf("board_size %d not in 2..12", c.BoardSize)
    }
    if c.AIDepth < 1 || c.AIDepth > 6 {
        return fmt.Errorf("ai_depth %d not in 1..6", c.AIDepth)
    }
    if _, err := ai.ParseMode(c.AIMode); err != nil {
        return err
    }
    switch c.LogLevel {
    case "debug", "info", "warn", "error":
    default:
        return fmt.Errorf("log_level %q not one of debug|info|warn|error", c.LogLevel)
    }
    if c.HeartbeatSeconds < 1 {
        return fmt.Errorf("heartbeat_seconds must be positive")
    }
    return nil
}

// Heartbeat is the idle interval between stream keep-alives.
func (c Config) Heartbeat() time.Duration { return time.Duration(c.HeartbeatSeconds) * time.Second }

// AIOptions turns the AI settings into player options.
func (c Config) AIOptions() []ai.Option {
    mode, _ := ai.ParseMode(c.AIMode)
    return []ai.Option{ai.WithDepth(c.AIDepth), ai.WithMode(mode), ai.WithParallel(c.AIParallel)}
}
