package config

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"
)

func TestDefaultIsValid(t *testing.T) {
    if err := Default().Validate(); err != nil {
        t.Fatalf("default config invalid: %v", err)
    }
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
    cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if cfg != Default() {
        t.Fatalf("expected defaults, got %+v", cfg)
    }
}

func TestLoadOverridesDefaults(t *testing.T) {
    path := filepath.Join(t.TempDir(), "jump61.json")
    body := `{"board_size": 4, "ai_depth": 3, "ai_mode": "legacy", "ai_parallel": true}`
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    cfg, err := Load(path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.BoardSize != 4 || cfg.AIDepth != 3 || cfg.AIMode != "legacy" || !cfg.AIParallel {
        t.Fatalf("overrides not applied: %+v", cfg)
    }
    if cfg.Addr != ":8080" || cfg.Heartbeat() != 15*time.Second {
        t.Fatalf("unset fields should keep defaults: %+v", cfg)
    }
    if len(cfg.AIOptions()) != 3 {
        t.Fatalf("expected three ai options")
    }
}

func TestLoadRejectsBadValues(t *testing.T) {
    cases := map[string]string{
        `{"board_size": 1}`:       "board_size",
        `{"ai_depth": 9}`:         "ai_depth",
        `{"ai_mode": "negamax"}`:  "search mode",
        `{"log_level": "trace"}`:  "log_level",
        `{"heartbeat_seconds": 0}`: "heartbeat",
        `{"board_size": `:         "decode",
    }
    for body, want := range cases {
        path := filepath.Join(t.TempDir(), "bad.json")
        if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
            t.Fatalf("write: %v", err)
        }
        _, err := Load(path)
        if err == nil || !strings.Contains(err.Error(), want) {
            t.Fatalf("%s: expected error mentioning %q, got %v", body, want, err)
        }
    }
}
