package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdxmph/todo/internal/config"
	"github.com/pdxmph/todo/internal/db"
	"github.com/pdxmph/todo/internal/logging"
	"github.com/pdxmph/todo/internal/render"
	"github.com/pdxmph/todo/internal/tasks"
	"github.com/pdxmph/todo/internal/tui"

	// Storage backends register themselves.
	_ "github.com/pdxmph/todo/internal/tasks/jsonfile"
	_ "github.com/pdxmph/todo/internal/tasks/sqlite"
)

const notFoundHint = "That is not one of the ID's in the tasklist. Use --report to see a list of valid task ID's"

// verbFlags are the mutually exclusive actions; exactly one runs per call.
var verbFlags = []string{"add", "done", "delete", "list", "report", "query", "tui", "export", "init-config", "fixtures"}

type options struct {
	add      string
	due      string
	priority int
	query    []string
	list     bool
	report   bool
	done     int
	delete   int
	tui      bool
	export   string

	configPath string
	backend    string
	file       string
	verbose    bool
	initConfig bool
	fixtures   string
}

type runner struct {
	opts   options
	now    func() time.Time
	cfg    *config.Config
	logger zerolog.Logger
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand builds the todo command. now is the clock used for task
// timestamps and ages; nil means time.Now.
func NewRootCommand(now func() time.Time) *cobra.Command {
	if now == nil {
		now = time.Now
	}
	r := &runner{now: now}
	o := &r.opts

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Update your TODO list",
		Long: `todo tracks personal tasks in a state file in the current directory.

Outstanding tasks are listed with due-dated tasks first (earliest due date
first), followed by undated tasks ordered by priority (lower is more urgent).`,
		Example: `  todo --add "buy milk" --priority 2
  todo --add "file taxes" --due 4/15/2026
  todo --list
  todo --query milk bread
  todo --done 3`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.out = cmd.OutOrStdout()
			r.errOut = cmd.ErrOrStderr()
			return r.run(cmd, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.add, "add", "", "a string describing your task to add")
	f.StringVar(&o.due, "due", "", "date the task must be completed by, in MM/DD/YYYY format")
	f.IntVar(&o.priority, "priority", config.DefaultPriority, "task priority, lower is more urgent (default from config)")
	f.StringArrayVar(&o.query, "query", nil, "search remaining tasks; further arguments are extra terms")
	f.BoolVar(&o.list, "list", false, "list all remaining tasks to be completed")
	f.IntVar(&o.done, "done", 0, "`ID` of a task that has been completed")
	f.IntVar(&o.delete, "delete", 0, "`ID` of a task to be removed from the list")
	f.BoolVar(&o.report, "report", false, "list a full report of completed and remaining tasks")
	f.BoolVar(&o.tui, "tui", false, "browse tasks interactively")
	f.StringVar(&o.export, "export", "", "write all tasks to stdout as json or csv")

	f.StringVar(&o.configPath, "config", "", "config file (default ~/.config/todo/config.toml)")
	f.StringVar(&o.backend, "backend", "", fmt.Sprintf("storage backend, one of %v", tasks.ListBackends()))
	f.StringVar(&o.file, "file", "", "state file or database path")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log diagnostics to stderr")
	f.BoolVar(&o.initConfig, "init-config", false, "write the effective configuration to the config file")
	f.StringVar(&o.fixtures, "fixtures", "", "create a sample sqlite database at `PATH`")
	_ = f.MarkHidden("fixtures")

	cmd.MarkFlagsMutuallyExclusive(verbFlags...)

	return cmd
}

// Execute runs the command with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	cmd := NewRootCommand(now)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == ExitUsage {
			fmt.Fprintln(stderr, "Run 'todo --help' for usage.")
		}
		return exitErr.Code
	}
	// Anything else comes from cobra's own flag parsing.
	fmt.Fprintln(stderr, "Run 'todo --help' for usage.")
	return ExitUsage
}

func (r *runner) run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	verb := ""
	for _, name := range verbFlags {
		if flags.Changed(name) {
			verb = name
			break
		}
	}

	if verb == "" && len(args) == 0 && !flags.Changed("due") && !flags.Changed("priority") {
		return cmd.Help()
	}
	if len(args) > 0 && verb != "query" {
		return exitf(ExitUsage, "unexpected arguments %q", args)
	}
	if verb != "add" && (flags.Changed("due") || flags.Changed("priority")) {
		return exitf(ExitUsage, "--due and --priority can only be used with --add")
	}

	if err := r.setup(); err != nil {
		return err
	}

	switch verb {
	case "init-config":
		return r.writeConfig()
	case "fixtures":
		return r.createFixtures()
	}

	manager, err := tasks.NewManager(r.cfg.Storage.Backend, tasks.BackendOptions{
		Path:   r.cfg.Storage.Path,
		Logger: r.logger,
	})
	if err != nil {
		return withCode(ExitConfigError, err)
	}

	store, err := manager.Open(r.now)
	if err != nil {
		return withCode(ExitInternal, err)
	}
	store.DedupeQuery = r.cfg.Tasks.DedupeQuery

	switch verb {
	case "add":
		priority := r.cfg.Tasks.DefaultPriority
		if flags.Changed("priority") {
			priority = r.opts.priority
		}
		err = r.add(store, priority)
	case "done":
		r.complete(store, r.opts.done)
	case "delete":
		r.remove(store, r.opts.delete)
	case "list":
		fmt.Fprintln(r.out, render.List(store.List(), r.now()))
	case "report":
		fmt.Fprintln(r.out, render.Report(store.Report(), r.now()))
	case "query":
		terms := append(append([]string{}, r.opts.query...), args...)
		fmt.Fprintln(r.out, render.List(store.Query(terms), r.now()))
	case "export":
		if err := render.Export(r.out, store.Report(), r.opts.export); err != nil {
			return withCode(ExitUsage, err)
		}
	case "tui":
		err = r.browse(store)
	}
	if err != nil {
		return err
	}

	if err := store.Flush(); err != nil {
		return withCode(ExitInternal, err)
	}
	return nil
}

// setup loads configuration, applies flag overrides and builds the logger.
func (r *runner) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if r.opts.configPath != "" {
		cfg, err = config.LoadFrom(r.opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return withCode(ExitConfigError, err)
	}

	if r.opts.backend != "" {
		cfg.Storage.Backend = r.opts.backend
	}
	if r.opts.file != "" {
		cfg.Storage.Path = r.opts.file
	}
	if r.opts.verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(r.errOut, cfg.Log.Level)
	if err != nil {
		return withCode(ExitConfigError, err)
	}

	r.cfg = cfg
	r.logger = logger
	return nil
}

func (r *runner) add(store *tasks.Store, priority int) error {
	id, err := store.Add(r.opts.add, priority, r.opts.due)
	if err != nil {
		if errors.Is(err, tasks.ErrInvalidDateFormat) {
			return withCode(ExitInvalidInput, err)
		}
		return withCode(ExitInternal, err)
	}
	r.logger.Debug().Int("id", id).Int("priority", priority).Msg("added task")
	fmt.Fprintf(r.out, "Created task %d\n", id)
	return nil
}

// complete and remove report lookup failures to the user without failing
// the run; the unchanged state is still flushed.
func (r *runner) complete(store *tasks.Store, id int) {
	switch err := store.Done(id); {
	case errors.Is(err, tasks.ErrTaskNotFound):
		fmt.Fprintln(r.out, notFoundHint)
	case errors.Is(err, tasks.ErrAlreadyCompleted):
		fmt.Fprintf(r.out, "Task %d is already completed\n", id)
	default:
		fmt.Fprintf(r.out, "Completed task %d\n", id)
	}
}

func (r *runner) remove(store *tasks.Store, id int) {
	if err := store.Delete(id); err != nil {
		fmt.Fprintln(r.out, notFoundHint)
		return
	}
	fmt.Fprintf(r.out, "Deleted task %d\n", id)
}

func (r *runner) browse(store *tasks.Store) error {
	p := tea.NewProgram(tui.New(store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return withCode(ExitInternal, fmt.Errorf("running interface: %w", err))
	}
	return nil
}

func (r *runner) writeConfig() error {
	if r.opts.configPath != "" {
		if err := r.cfg.SaveTo(r.opts.configPath); err != nil {
			return withCode(ExitConfigError, err)
		}
		fmt.Fprintf(r.out, "Wrote config to %s\n", r.opts.configPath)
		return nil
	}
	path, err := r.cfg.Save()
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	fmt.Fprintf(r.out, "Wrote config to %s\n", path)
	return nil
}

func (r *runner) createFixtures() error {
	path := strings.TrimSpace(r.opts.fixtures)
	if path == "" {
		return exitf(ExitUsage, "--fixtures needs a database path")
	}
	if err := db.CreateFixturesDatabase(path, r.now(), r.logger); err != nil {
		return withCode(ExitInternal, err)
	}
	fmt.Fprintf(r.out, "Created sample database at %s (use --backend sqlite --file %s)\n", path, path)
	return nil
}
