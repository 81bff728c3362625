// Package cli wires settings, gateway and one of the two front ends into the
// yt-remote binary.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-remote/internal/config"
	"github.com/ytget/yt-remote/internal/console"
	"github.com/ytget/yt-remote/internal/gateway"
	"github.com/ytget/yt-remote/internal/gateway/gatewaytest"
	"github.com/ytget/yt-remote/internal/session"
	"github.com/ytget/yt-remote/internal/ui"
)

// AppName is shown in the window title and the version line
const AppName = "YT Remote"

// Flags are the command line options
type Flags struct {
	Server      string
	Console     bool
	Demo        bool
	Poll        time.Duration
	ShowVersion bool
}

// ParseFlags parses args (without the program name)
func ParseFlags(args []string, output io.Writer) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("yt-remote", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.Server, "server", "", "download server base URL (overrides $"+config.EnvServerURL+" and settings)")
	fs.BoolVar(&f.Console, "console", false, "use the interactive console instead of the window")
	fs.BoolVar(&f.Demo, "demo", false, "start an in-process demo server and connect to it")
	fs.DurationVar(&f.Poll, "poll", 0, "status poll interval, e.g. 500ms (default from settings)")
	fs.BoolVar(&f.ShowVersion, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	if fs.NArg() > 0 {
		return Flags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// Main runs the binary and returns its exit code
func Main(args []string, version string) int {
	flags, err := ParseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, version)
		return 0
	}

	log.Printf("%s v%s starting...", AppName, version)

	if err := run(flags, version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(flags Flags, version string) error {
	if flags.Demo {
		baseURL, stop, err := gatewaytest.New().Start()
		if err != nil {
			return fmt.Errorf("start demo server: %w", err)
		}
		defer stop()
		log.Printf("demo server listening on %s", baseURL)
		flags.Server = baseURL
	}

	fyneApp := app.NewWithID(config.AppID)
	settings := config.NewSettings(fyneApp)
	settings.SetOverrides(config.ResolveOverrides(flags.Server, flags.Poll, os.Getenv))

	client, err := NewGateway(settings)
	if err != nil {
		return err
	}

	if flags.Console {
		return runConsole(settings, client)
	}
	runWindow(fyneApp, settings, client, version)
	return nil
}

// NewGateway builds the HTTP client from the stored settings
func NewGateway(settings *config.Settings) (*gateway.Client, error) {
	client, err := gateway.NewClient(settings.GetServerURL(), gateway.Options{
		Timeout:           settings.GetRequestTimeout(),
		RequestsPerSecond: float64(settings.GetRequestsPerSecond()),
	})
	if err != nil {
		return nil, fmt.Errorf("server %q: %w", settings.GetServerURL(), err)
	}
	return client, nil
}

func runWindow(fyneApp fyne.App, settings *config.Settings, client *gateway.Client, version string) {
	fyneApp.Settings().SetTheme(ui.NewCompactTheme())

	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ui.NewRootUI(window, fyneApp, settings, client)

	window.ShowAndRun()
}

func runConsole(settings *config.Settings, client *gateway.Client) error {
	rl, err := console.NewReadline(historyFile())
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}

	// Keep log lines from tearing the prompt
	log.SetOutput(rl.Stderr())

	con := console.New(rl, rl.Stdout(), console.Options{Color: true})
	sess := session.New(client, con, con, session.Options{
		PollInterval: settings.GetPollInterval(),
		Preferences:  settings,
	})
	con.Bind(sess)

	fmt.Fprintf(rl.Stdout(), "Connected to %s\n", client.BaseURL())
	sess.Start()
	return con.Run()
}

// historyFile returns where console history is kept, or "" when there is no
// cache directory
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "yt-remote")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "console_history")
}
