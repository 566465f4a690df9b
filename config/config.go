package config

import (
	"github.com/knadh/koanf/v2"
)

type ScopeConf struct {
	Width      float64 `koanf:"width"`
	Height     float64 `koanf:"height"`
	MinSamples int     `koanf:"min_samples"`
	MaxSamples int     `koanf:"max_samples"`
}

type SyncConf struct {
	Listen     string `koanf:"listen"`
	URL        string `koanf:"url"`
	SendBuffer int    `koanf:"send_buffer"`
}

type SessionConf struct {
	Path string `koanf:"path"`
}

type TuiConf struct {
	RefreshMs       int  `koanf:"refresh_ms"`
	EnableLogOutput bool `koanf:"enable_log_output"`
}

type NoiseConf struct {
	Seed uint64 `koanf:"seed"`
}

const (
	DefaultListen      = ":8765"
	DefaultURL         = "ws://localhost:8765/sync"
	DefaultSessionPath = "~/.config/scopetrainer/session.json"
)

func Scope(k *koanf.Koanf) ScopeConf {
	// render.NewCanvas fills in zero values.
	return ScopeConf{
		Width:      k.Float64("scope.width"),
		Height:     k.Float64("scope.height"),
		MinSamples: k.Int("scope.min_samples"),
		MaxSamples: k.Int("scope.max_samples"),
	}
}

func Sync(k *koanf.Koanf) SyncConf {
	c := SyncConf{
		Listen:     k.String("sync.listen"),
		URL:        k.String("sync.url"),
		SendBuffer: k.Int("sync.send_buffer"),
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.URL == "" {
		c.URL = DefaultURL
	}
	return c
}

func Session(k *koanf.Koanf) SessionConf {
	c := SessionConf{Path: k.String("session.path")}
	if c.Path == "" {
		c.Path = DefaultSessionPath
	}
	return c
}

func Tui(k *koanf.Koanf) TuiConf {
	c := TuiConf{
		RefreshMs:       250,
		EnableLogOutput: true,
	}
	if k.Exists("tui.refresh_ms") {
		c.RefreshMs = k.Int("tui.refresh_ms")
	}
	if k.Exists("tui.enable_log_output") {
		c.EnableLogOutput = k.Bool("tui.enable_log_output")
	}
	return c
}

func Noise(k *koanf.Koanf) NoiseConf {
	return NoiseConf{Seed: uint64(k.Int64("noise.seed"))}
}
