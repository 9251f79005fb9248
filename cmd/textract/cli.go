package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/textract"
	"github.com/fwojciec/textract/extract"
	"github.com/fwojciec/textract/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Jobs      textract.JobService
	Relays    []textract.Relay
	Extractor *extract.Extractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log operations to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract text from a list of URLs"`
	Relays  RelaysCmd  `cmd:"" help:"List available relays"`
	History HistoryCmd `cmd:"" help:"List recent extraction jobs"`
	Show    ShowCmd    `cmd:"" help:"Show the output and log of a job"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a recorded job"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string      `arg:"" optional:"" help:"URLs to extract (read from --file or stdin when omitted)"`
	File        string        `short:"f" type:"existingfile" help:"Read URLs from a file, one per line"`
	Separator   string        `short:"s" default:"__SEP__" help:"Separator placed between sections"`
	Relay       string        `short:"r" help:"Relay to try first (see 'textract relays')"`
	Concurrency int           `short:"c" default:"3" help:"Sources resolved in parallel"`
	Timeout     time.Duration `default:"30s" help:"Timeout for each relay request"`
	RPS         float64       `name:"rps" default:"2" help:"Requests per second per relay host (0 disables)"`
	Extractor   string        `short:"e" default:"none" enum:"none,trafilatura,readability" help:"Main-content extractor applied before normalization"`
	Markdown    bool          `short:"m" help:"Render HTML sources as Markdown"`
	Browser     bool          `short:"b" help:"Add a headless Chrome relay as the last resort"`
	SameLine    float64       `default:"2" help:"Largest vertical distance of PDF fragments on one line"`
	LineBreak   float64       `default:"5" help:"Vertical gap between PDF lines that starts a new line"`
	Output      string        `short:"o" help:"Write the result to a file instead of stdout"`
	Split       string        `type:"path" help:"Also write each section to its own file below this directory"`
	Notify      bool          `short:"n" help:"Send the result to Telegram"`
	BotToken    string        `env:"TELEGRAM_BOT_TOKEN" help:"Telegram bot token"`
	ChatID      string        `env:"TELEGRAM_CHAT_ID" help:"Telegram chat ID"`
}

// RelaysCmd is the "relays" subcommand.
type RelaysCmd struct{}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	State string `default:"all" enum:"all,completed,cancelled,failed" help:"Only show jobs in this state"`
	Limit int    `short:"l" default:"20" help:"Maximum number of jobs to show"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID  string `arg:"" help:"Job ID"`
	Log bool   `short:"l" help:"Print the job log instead of its output"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Job ID"`
}
