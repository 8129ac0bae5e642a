package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-saq"
	"github.com/goliatone/go-saq/pkg/renderers/tui"
	"github.com/goliatone/go-saq/pkg/submit"
	"github.com/goliatone/go-saq/pkg/survey"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("saq-cli", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dir := flags.String("definitions", "surveys", "directory holding JSON/YAML survey definitions")
	surveyID := flags.String("survey", "", "survey id to run (optional when only one is defined)")
	baseURL := flags.String("base-url", "", "origin relative submit URLs resolve against")
	token := flags.String("token", "", "anti-forgery token sent with same-origin submissions")
	bulk := flags.String("bulk", "", "offer to answer every question with this value first")
	finish := flags.Bool("finish", false, "finish the survey instead of continuing to the next page")
	multiline := flags.Bool("multiline", false, "use multi-line prompts for free-text questions")
	debug := flags.Bool("debug", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	errLog := log.New(stderr, "", log.LstdFlags)

	store, err := saq.LoadDefinitions(os.DirFS(*dir))
	if err != nil {
		errLog.Printf("Failed to load definitions: %v", err)
		return 1
	}
	def, err := pickSurvey(store.IDs(), *surveyID, store.Survey)
	if err != nil {
		errLog.Printf("%v", err)
		return 1
	}

	var base *url.URL
	if raw := strings.TrimSpace(*baseURL); raw != "" {
		base, err = url.Parse(raw)
		if err != nil {
			errLog.Printf("invalid base url %q: %v", raw, err)
			return 1
		}
	}
	client, err := submit.NewClient()
	if err != nil {
		errLog.Printf("Failed to create HTTP client: %v", err)
		return 1
	}

	page := saq.NewPage(def)
	page.SetToken(*token)
	sess, err := saq.NewSession(def, page,
		survey.WithHTTPClient(client),
		survey.WithBaseURL(base),
		survey.WithLogger(logger),
	)
	if err != nil {
		errLog.Printf("Failed to start survey: %v", err)
		return 1
	}
	defer sess.Close()

	intent := saq.IntentContinue
	if *finish {
		intent = saq.IntentFinish
	}
	runner := tui.New(
		tui.WithOutput(stdout),
		tui.WithBulkAnswer(*bulk),
		tui.WithIntent(intent),
		tui.WithMultilineText(*multiline),
		tui.WithLogger(logger),
		tui.WithTheme(tui.Theme{ErrorPrefix: "error: "}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := runner.Run(ctx, sess, page)
	switch {
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "aborted")
		return 130
	case err != nil:
		errLog.Printf("Survey not submitted: %v", err)
		return 1
	}
	if result.Destination != "" {
		fmt.Fprintf(stdout, "Submitted (attempt %s); continue at %s\n", result.AttemptID, result.Destination)
		return 0
	}
	fmt.Fprintf(stdout, "Submitted (attempt %s)\n", result.AttemptID)
	return 0
}

func pickSurvey(ids []string, id string, lookup func(string) (saq.Survey, bool)) (saq.Survey, error) {
	if id == "" {
		if len(ids) != 1 {
			return saq.Survey{}, fmt.Errorf("choose a survey with -survey (available: %s)", strings.Join(ids, ", "))
		}
		id = ids[0]
	}
	def, ok := lookup(id)
	if !ok {
		return saq.Survey{}, fmt.Errorf("survey %q not found (available: %s)", id, strings.Join(ids, ", "))
	}
	return def, nil
}
