// Package console is the terminal front end. It reads commands with
// readline and prints what the session draws; downloads are tracked in the
// background while the prompt stays usable.
package console

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/ytget/yt-remote/internal/model"
	"github.com/ytget/yt-remote/internal/session"
	"github.com/ytget/yt-remote/internal/validate"
)

// Prompt texts
const (
	Prompt        = "yt-remote> "
	ConfirmClear  = "Are you sure you want to clear all download history? [y/N] "
	MsgUnknownCmd = "Unknown command %q, type help for a list"
)

// ANSI color codes for terminal output.
const (
	colorBlue   = "\033[34m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

var errQuit = errors.New("quit")

// LineReader is the part of *readline.Instance the console uses
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Console runs the command loop
type Console struct {
	in       LineReader
	out      io.Writer
	outMu    sync.Mutex
	app      *session.App
	commands map[string]command
	color    bool

	progressMu   sync.Mutex
	lastProgress string

	// lastURL is the last successfully analyzed URL
	lastURL string
}

type command struct {
	usage string
	help  string
	run   func(c *Console, args []string) error
}

// Options configures a Console. Color enables ANSI colors.
type Options struct {
	Color bool
}

// New creates a console over in and out. Bind must be called with the
// session before Run.
func New(in LineReader, out io.Writer, opts Options) *Console {
	c := &Console{
		in:    in,
		out:   out,
		color: opts.Color,
	}
	c.commands = commandTable()
	return c
}

// NewReadline opens a readline prompt on the terminal with command
// completion. historyFile may be empty.
func NewReadline(historyFile string) (*readline.Instance, error) {
	items := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range commandNames() {
		items = append(items, readline.PcItem(name))
	}

	return readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
}

// Bind attaches the session the commands drive
func (c *Console) Bind(app *session.App) {
	c.app = app
}

// Run reads commands until quit, EOF or an interrupt on an empty line
func (c *Console) Run() error {
	if c.app == nil {
		return errors.New("console: no session bound")
	}
	defer c.in.Close()

	c.printf("%s\n", c.paint(colorBlue, "Type help for a list of commands."))
	for {
		c.in.SetPrompt(Prompt)
		line, err := c.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				c.app.CloseProgress()
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			c.app.CloseProgress()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if err := c.Execute(line); err != nil {
			if errors.Is(err, errQuit) {
				c.app.CloseProgress()
				return nil
			}
		}
	}
}

// Execute runs one command line. Errors were already shown to the user.
func (c *Console) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name := strings.ToLower(fields[0])
	cmd, ok := c.commands[name]
	if !ok {
		// A bare URL analyzes it
		if validate.IsValidURL(fields[0]) {
			return c.analyze(fields)
		}
		c.printf(MsgUnknownCmd+"\n", fields[0])
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return cmd.run(c, fields[1:])
}

func commandTable() map[string]command {
	return map[string]command{
		"analyze": {
			usage: "analyze <url>",
			help:  "show title, duration and qualities",
			run:   func(c *Console, args []string) error { return c.analyze(args) },
		},
		"download": {
			usage: "download [url] [quality] [video|audio]",
			help:  "start a download and track it (url defaults to the last analyzed one)",
			run:   (*Console).download,
		},
		"status": {
			usage: "status",
			help:  "show the download being tracked",
			run:   (*Console).status,
		},
		"history": {
			usage: "history",
			help:  "list finished downloads",
			run: func(c *Console, _ []string) error {
				c.app.SwitchTab(session.TabHistory)
				return nil
			},
		},
		"queue": {
			usage: "queue",
			help:  "list active downloads",
			run: func(c *Console, _ []string) error {
				c.app.SwitchTab(session.TabQueue)
				return nil
			},
		},
		"cancel": {
			usage: "cancel <id>",
			help:  "cancel a download",
			run:   (*Console).cancel,
		},
		"clear": {
			usage: "clear",
			help:  "clear the download history",
			run:   (*Console).clearHistory,
		},
		"save": {
			usage: "save <id>",
			help:  "save a finished file to the download directory",
			run:   (*Console).save,
		},
		"open": {
			usage: "open <id>",
			help:  "open the file link of a finished download in the browser",
			run:   (*Console).open,
		},
		"close": {
			usage: "close",
			help:  "stop tracking the current download",
			run: func(c *Console, _ []string) error {
				c.app.CloseProgress()
				return nil
			},
		},
		"help": {
			usage: "help",
			help:  "show this list",
			run:   (*Console).help,
		},
		"quit": {
			usage: "quit",
			help:  "leave",
			run:   func(*Console, []string) error { return errQuit },
		},
		"exit": {
			usage: "exit",
			help:  "leave",
			run:   func(*Console, []string) error { return errQuit },
		},
	}
}

// commandNames lists the commands in help order
func commandNames() []string {
	return []string{"analyze", "download", "status", "history", "queue", "cancel", "clear", "save", "open", "close", "help", "quit", "exit"}
}

func (c *Console) analyze(args []string) error {
	if len(args) == 0 {
		args = []string{""}
	}
	if _, err := c.app.Analyze(args[0]); err != nil {
		return err
	}
	c.lastURL = strings.TrimSpace(args[0])
	return nil
}

func (c *Console) download(args []string) error {
	input := c.lastURL
	if len(args) > 0 {
		input = args[0]
	}

	quality := ""
	if len(args) > 1 {
		quality = args[1]
	}
	var kind model.DownloadType
	if len(args) > 2 {
		kind = model.DownloadType(strings.ToLower(args[2]))
		if kind != model.DownloadTypeVideo && kind != model.DownloadTypeAudio {
			c.printf("type must be video or audio\n")
			return fmt.Errorf("bad type %q", args[2])
		}
	}

	c.resetProgress()
	_, err := c.app.StartDownload(input, quality, kind)
	return err
}

func (c *Console) status(_ []string) error {
	id := c.app.Tracker().CurrentID()
	if !c.app.Tracker().IsTracking() {
		c.printf("Nothing is being tracked\n")
		return nil
	}
	c.progressMu.Lock()
	last := c.lastProgress
	c.progressMu.Unlock()
	if last == "" {
		last = "waiting for the first status"
	}
	c.printf("Tracking %s: %s\n", id, last)
	return nil
}

func (c *Console) cancel(args []string) error {
	if len(args) == 0 {
		c.printf("usage: cancel <id>\n")
		return errors.New("missing id")
	}
	return c.app.CancelDownload(args[0])
}

func (c *Console) clearHistory(_ []string) error {
	c.in.SetPrompt(ConfirmClear)
	answer, err := c.in.Readline()
	if err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return c.app.ClearHistory()
	default:
		c.printf("History kept\n")
		return nil
	}
}

func (c *Console) save(args []string) error {
	if len(args) == 0 {
		c.printf("usage: save <id>\n")
		return errors.New("missing id")
	}
	_, err := c.app.SaveFile(args[0])
	return err
}

func (c *Console) open(args []string) error {
	if len(args) == 0 {
		c.printf("usage: open <id>\n")
		return errors.New("missing id")
	}
	c.app.OpenFile(args[0])
	return nil
}

func (c *Console) help(_ []string) error {
	for _, name := range commandNames() {
		cmd := c.commands[name]
		c.printf("  %-40s %s\n", cmd.usage, cmd.help)
	}
	c.printf("  %-40s %s\n", "<url>", "same as analyze <url>")
	return nil
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) paint(color, text string) string {
	if !c.color {
		return text
	}
	return color + text + colorReset
}
