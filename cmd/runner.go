package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/ledger"
	"github.com/desertthunder/personas/internal/services"
	"github.com/desertthunder/personas/internal/shared"
	"github.com/desertthunder/personas/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The ledger and controller are opened on first use so commands that never vote (setup,
// districts, api) do not touch the vote database.
type Runner struct {
	config     *shared.Config
	configPath string
	directory  services.Directory
	api        *services.APIService
	ledger     ledger.Ledger
	ctrl       *directory.Controller
	engine     *tasks.Engine
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Directory  services.Directory
	API        *services.APIService
	Ledger     ledger.Ledger // Opened from Config on first use when nil
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.API == nil {
		if svc, ok := opts.Directory.(*services.DirectoryService); ok {
			opts.API = svc.API()
		} else {
			opts.API = services.NewAPIService(opts.Config.API.BaseURL, nil)
		}
	}
	if opts.Directory == nil {
		opts.Directory = services.NewDirectoryServiceWithAPI(opts.API)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		directory:  opts.Directory,
		api:        opts.API,
		ledger:     opts.Ledger,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		listCommand, showCommand, searchCommand, createCommand, updateCommand, deleteCommand,
		voteCommand, votesCommand, exportCommand, importCommand, districtsCommand, universitiesCommand,
		setupCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// controller opens the vote ledger and builds the directory controller on first call.
func (r *Runner) controller(ctx context.Context) (*directory.Controller, error) {
	if r.ctrl != nil {
		return r.ctrl, nil
	}

	if r.ledger == nil {
		l, err := ledger.Open(ctx, r.config, r.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open vote ledger: %w", err)
		}
		r.ledger = l
	}

	r.ctrl = directory.NewController(r.directory, r.ledger, r.logger)
	r.engine = tasks.NewEngine(r.ctrl, r.logger)
	return r.ctrl, nil
}

// Close releases the controller and the ledger, if they were opened. Calling it again is a no-op.
func (r *Runner) Close() error {
	if r.ctrl != nil {
		r.ctrl.Close()
		r.ctrl = nil
	}
	if r.ledger == nil {
		return nil
	}
	err := r.ledger.Close()
	r.ledger = nil
	return err
}

// SetLogger replaces the logger used by the runner and the directory transport.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.api.SetLogger(l)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
