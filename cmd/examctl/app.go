package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SAP-F-2025/exam-client/internal/admin"
	"github.com/SAP-F-2025/exam-client/internal/apiclient"
	"github.com/SAP-F-2025/exam-client/internal/config"
	"github.com/SAP-F-2025/exam-client/internal/events"
	"github.com/SAP-F-2025/exam-client/internal/notice"
	"github.com/SAP-F-2025/exam-client/internal/tokenstore"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/urfave/cli/v3"
)

// app carries what every command needs. The token store, API client and
// publisher are built on first use so that commands like devserver do not
// touch them.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger utils.Logger

	tokens    tokenstore.Store
	client    *apiclient.Client
	publisher events.EventPublisher
	board     *notice.Board
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cli.Command {
	a := &app{in: bufio.NewReader(in), out: out, errOut: errOut}

	return &cli.Command{
		Name:    "examctl",
		Usage:   "Take exams and manage the question bank",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "base URL of the exam API (overrides API_BASE_URL)",
			},
			&cli.StringFlag{
				Name:  "token-store",
				Usage: "where the credential is kept: file, redis, sql or memory",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.loginCommand(),
			a.logoutCommand(),
			a.examCommand(),
			a.examTypesCommand(),
			a.questionsCommand(),
			a.summaryCommand(),
			a.devserverCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}
	if url := cmd.String("api-url"); url != "" {
		cfg.APIBaseURL = strings.TrimRight(url, "/")
	}
	if store := cmd.String("token-store"); store != "" {
		cfg.TokenStore = store
	}

	a.cfg = cfg
	a.logger = utils.NewLogger(cfg.Environment, cfg.LogLevel)
	a.board = notice.NewBoard(cfg.NoticeTTL)
	return ctx, nil
}

func (a *app) after(ctx context.Context, cmd *cli.Command) error {
	if a.publisher != nil {
		return a.publisher.Close()
	}
	return nil
}

// connect builds the API client and its dependencies.
func (a *app) connect(ctx context.Context) (*apiclient.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	if a.tokens == nil {
		tokens, err := tokenstore.New(ctx, a.cfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
		a.tokens = tokens
	}
	a.client = apiclient.New(a.cfg.APIBaseURL, a.tokens, a.logger)
	return a.client, nil
}

func (a *app) activityPublisher() (events.EventPublisher, error) {
	if a.publisher != nil {
		return a.publisher, nil
	}
	publisher, err := a.cfg.Events.CreateEventPublisher(utils.ToSlogLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("create event publisher: %w", err)
	}
	a.publisher = publisher
	return publisher, nil
}

// prompt prints label and reads one trimmed line. EOF with no input is returned as io.EOF.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirmer asks on the terminal unless yes is set.
func (a *app) confirmer(yes bool) admin.Confirmer {
	if yes {
		return admin.AlwaysConfirm
	}
	return admin.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		answer, err := a.prompt(prompt + " [y/N]: ")
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}
