package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/scopetrainer/broadcast"
	"github.com/jrwynneiii/scopetrainer/checker"
	"github.com/jrwynneiii/scopetrainer/config"
	"github.com/jrwynneiii/scopetrainer/noise"
	"github.com/jrwynneiii/scopetrainer/render"
	"github.com/jrwynneiii/scopetrainer/scope"
	"github.com/jrwynneiii/scopetrainer/session"
	"github.com/jrwynneiii/scopetrainer/tui"
	"github.com/jrwynneiii/scopetrainer/waveform"

	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SCOPETRAINER_"

var configFile = koanf.New(".")

func getConfigPath() string {
	if cli.Config != "" {
		return cli.Config
	}
	home, _ := os.UserHomeDir()
	paths := []string{"/etc/scopetrainer/config.hcl", home + "/.config/scopetrainer/config.hcl", "./config.hcl"}
	for _, path := range paths {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			log.Infof("Found config file: %s", path)
			return path
		}
	}
	log.Info("Config file not found!")
	return ""
}

func loadConfig() {
	if err := configFile.Load(file.Provider(getConfigPath()), hcl.Parser(true)); err != nil {
		log.Errorf("Could not read config file: %v", err)
		log.Error("Attempting to use environment variables")
		configFile.Load(env.Provider(".", env.Opt{
			Prefix: envPrefix,
			TransformFunc: func(k, v string) (string, any) {
				key := strings.ToLower(strings.TrimPrefix(k, envPrefix))
				k = strings.Replace(key, "_", ".", 1)
				log.Debugf("Found config env var: %s=%v", k, v)
				return k, v
			},
		}), nil)
	}
}

// loadShared returns the preset's settings, or the defaults without one.
func loadShared(preset string) scope.SharedSettings {
	if preset == "" {
		return scope.DefaultSettings()
	}
	s, err := config.LoadPreset(preset)
	if err != nil {
		log.Fatalf("Could not load preset: %v", err)
	}
	return s
}

func sessionStore(path string) *session.Store {
	if path == "" {
		path = config.Session(configFile).Path
	}
	return session.New(path)
}

func tuiDeps() tui.Deps {
	sc := config.Scope(configFile)
	nc := config.Noise(configFile)
	log.Debugf("Scope definition: %##v, noise seed %d", sc, nc.Seed)
	return tui.Deps{
		Canvas:  render.NewCanvas(sc.Width, sc.Height, sc.MinSamples, sc.MaxSamples),
		Sampler: waveform.New(noise.New(nc.Seed)),
		Conf:    config.Tui(configFile),
	}
}

// startHub serves a hub on addr in the background. The returned func shuts
// the listener down.
func startHub(addr string, sendBuffer int) (*broadcast.Hub, func()) {
	hub := broadcast.NewHub(broadcast.HubConfig{SendBuffer: sendBuffer})
	srv := &http.Server{Addr: addr, Handler: hub, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Infof("Sync hub listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Could not start sync hub: %v", err)
		}
	}()
	return hub, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

// connect dials a hub and returns the client with its close func.
func connect(url string, timeout time.Duration) (*broadcast.Client, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	c, err := broadcast.Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Connected to sync hub %s", url)
	return c, func() { c.Close() }, nil
}

// dialOrOffline connects a student to a hub. A student that cannot reach
// one keeps working on a local bus with default settings.
func dialOrOffline(url string) (broadcast.Transport, func()) {
	c, closeFn, err := connect(url, 5*time.Second)
	if err != nil {
		log.Errorf("Could not connect to %s: %v", url, err)
		log.Warn("Continuing offline with default settings")
		return broadcast.NewBus(), func() {}
	}
	return c, closeFn
}

func main() {
	log.Info("Starting scopetrainer")
	flags := kong.Parse(&cli)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if cli.Profile {
		prof, err := os.Create("./cpu.pprof")
		if err != nil {
			panic(err)
		}
		pprof.StartCPUProfile(prof)
		defer pprof.StopCPUProfile()
	}

	loadConfig()
	syncConf := config.Sync(configFile)

	switch flags.Command() {
	case "instructor":
		shared := loadShared(cli.Instructor.Preset)
		var pub broadcast.Publisher
		if cli.Instructor.URL != "" {
			c, closeFn, err := connect(cli.Instructor.URL, 5*time.Second)
			if err != nil {
				log.Fatalf("Could not connect to sync hub: %v", err)
			}
			defer closeFn()
			pub = c
		} else {
			listen := cli.Instructor.Listen
			if listen == "" {
				listen = syncConf.Listen
			}
			hub, stop := startHub(listen, syncConf.SendBuffer)
			defer stop()
			pub = hub
		}
		tui.StartInstructor(tuiDeps(), pub, shared)

	case "student":
		url := cli.Student.URL
		if url == "" {
			url = syncConf.URL
		}
		t, closeFn := dialOrOffline(url)
		defer closeFn()
		// the hub replays its latest snapshot once the TUI subscribes
		tui.StartStudent(tuiDeps(), t, sessionStore(cli.Student.Session), scope.DefaultSettings(), cli.Student.ExportDir)

	case "serve":
		listen := cli.Serve.Listen
		if listen == "" {
			listen = syncConf.Listen
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		hub, shutdown := startHub(listen, syncConf.SendBuffer)
		defer shutdown()
		if cli.Serve.Preset != "" {
			if err := hub.Publish(ctx, loadShared(cli.Serve.Preset)); err != nil {
				log.Errorf("Could not publish preset: %v", err)
			}
		}
		hub.Subscribe(func(s scope.SharedSettings) {
			log.Infof("Settings v%d (locked=%v, %s), %d peers", s.Version, s.Locked, s.Difficulty, hub.Peers())
		})
		<-ctx.Done()
		log.Info("Shutting down sync hub")

	case "export":
		shared := loadShared(cli.Export.Preset)
		view := sessionStore(cli.Export.Session).Load(shared)
		deps := tuiDeps()
		out, err := os.Create(cli.Export.Output)
		if err != nil {
			log.Fatalf("Could not create %s: %v", cli.Export.Output, err)
		}
		defer out.Close()
		if err := deps.Canvas.Export(out, int(deps.Canvas.Width), int(deps.Canvas.Height), shared, view, deps.Sampler); err != nil {
			log.Fatalf("Could not export: %v", err)
		}
		log.Infof("Wrote %s", cli.Export.Output)

	case "check":
		shared := loadShared(cli.Check.Preset)
		view := sessionStore(cli.Check.Session).Load(shared)
		res := checker.Check(shared, view.Measurements)
		printResult(shared, res)
		if !res.Pass {
			os.Exit(1)
		}

	default:
		log.Info("Command not recognized")
	}
}

func printResult(shared scope.SharedSettings, res checker.Result) {
	for _, ch := range shared.EnabledChannels() {
		cr := res.Channels[ch.ID]
		status := "pass"
		if !cr.Pass {
			status = fmt.Sprintf("FAIL (%d fields)", cr.Failed)
		}
		fmt.Printf("%s: %s\n", ch.Name(), status)
		for _, f := range cr.Fields {
			mark := "ok"
			if !f.Pass {
				mark = "x"
			}
			fmt.Printf("  %-6s %-12q %s\n", f.Field, f.Input, mark)
		}
	}
	fmt.Printf("overall: %v\n", res.Pass)
}
