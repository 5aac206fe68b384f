package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"stationport/internal/repositories"
	"stationport/internal/services"
	"stationport/internal/shared"
	"stationport/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	station *services.AudioStationService
	engine  *tasks.Engine
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Station *services.AudioStationService
	Engine  *tasks.Engine
	Logger  *log.Logger
	Output  io.Writer
}

// stationOpts maps the loaded config onto AudioStation client options.
func stationOpts(config *shared.Config) services.AudioStationOpts {
	return services.AudioStationOpts{
		Host:             config.AudioStation.Host,
		Username:         config.AudioStation.Username,
		Password:         config.AudioStation.Password,
		DeviceName:       config.AudioStation.DeviceName,
		Timeout:          time.Duration(config.AudioStation.TimeoutSeconds) * time.Second,
		AllowInsecureTLS: config.AudioStation.AllowInsecureTLS,
	}
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
	if opts.Station == nil {
		opts.Station = services.NewAudioStationService(stationOpts(opts.Config))
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewEngine(opts.Station, tasks.EngineOpts{
			PageSize: opts.Config.Import.PageSize,
			Workers:  opts.Config.Import.Workers,
		})
	}

	return &Runner{
		config:  opts.Config,
		station: opts.Station,
		engine:  opts.Engine,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		loginCommand, importCommand, catalogCommand, matchCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openHistory opens the run-history repository, creating the schema when
// needed. The returned closer must be called when done.
func (r *Runner) openHistory() (*repositories.RunRepository, func() error, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	repo := repositories.NewRunRepository(db)
	if err := repo.Migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repo, db.Close, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
