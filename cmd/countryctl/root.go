package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"countries/internal/client"
	"countries/internal/draft"
	"countries/internal/notify"
	"countries/internal/platform/config"
	"countries/internal/platform/logger"
	platformredis "countries/internal/platform/redis"
)

// app holds what every subcommand shares once the root pre-run has loaded
// the configuration.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	apiURL     string
	draftDir   string
	verbose    bool

	cfg      config.Config
	log      *slog.Logger
	notifier *notify.Center
	client   *client.Client
	redis    *platformredis.Client

	errorShown atomic.Bool
}

// execute runs one countryctl invocation. Tests drive it with their own
// args and streams.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{in: bufio.NewReader(in), out: out, errOut: errOut}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(ctx)
	if err != nil && !a.errorShown.Load() {
		fmt.Fprintf(errOut, "[ERROR] %s\n", err)
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "countryctl",
		Short:         "Browse and edit the countries catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "base URL of the countries API (overrides config)")
	root.PersistentFlags().StringVar(&a.draftDir, "draft-dir", "", "directory for the add-country draft (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.listCmd(),
		a.searchCmd(),
		a.showCmd(),
		a.continentsCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.importCmd(),
		a.statsCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.Client.BaseURL = a.apiURL
	}
	if a.draftDir != "" {
		cfg.Draft.Dir = a.draftDir
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	a.cfg = cfg
	a.log = logger.NewWithWriter(a.errOut, level, "text")
	a.notifier = notify.New(
		notify.WithSink(&stderrSink{app: a, next: notify.NewWriterSink(a.errOut)}),
		notify.WithLogger(a.log),
	)

	c, err := client.New(cfg.Client.BaseURL,
		client.WithNotifier(a.notifier),
		client.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	a.client = c

	a.redis, err = platformredis.New(ctx, cfg.Redis)
	if err != nil {
		a.log.WarnContext(ctx, "redis unavailable, drafts are kept on disk", "error", err)
		a.redis = nil
	}
	return nil
}

func (a *app) close() {
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// draftManager keeps drafts in Redis when it is configured and in the draft
// directory otherwise.
func (a *app) draftManager() (*draft.Manager, error) {
	var store draft.Store
	if a.redis != nil {
		store = draft.NewRedisStore(a.redis)
	} else {
		fs, err := draft.NewFileStore(a.cfg.Draft.Dir)
		if err != nil {
			return nil, err
		}
		store = fs
	}
	return draft.NewManager(store,
		draft.WithDebounce(a.cfg.Draft.Debounce),
		draft.WithNotifier(a.notifier),
		draft.WithLogger(a.log),
	), nil
}

// stderrSink prints notifications and remembers whether an error was shown,
// so execute does not report the same failure twice.
type stderrSink struct {
	app  *app
	next notify.Sink
}

func (s *stderrSink) Shown(n notify.Notification) {
	if n.Severity == notify.Error {
		s.app.errorShown.Store(true)
	}
	s.next.Shown(n)
}

func (s *stderrSink) Dismissed(n notify.Notification) {
	s.next.Dismissed(n)
}

var errInputClosed = errors.New("input closed")

// prompt reads one line. An empty answer keeps def; "-" clears it.
func (a *app) prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return def, nil
	case "-":
		return "", nil
	}
	return line, nil
}

func (a *app) confirm(question string) (bool, error) {
	answer, err := a.prompt(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
