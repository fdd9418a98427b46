package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/spotreview/internal/annotate"
	"github.com/dshills/spotreview/internal/config"
	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/gitctx"
	"github.com/dshills/spotreview/internal/github"
	"github.com/dshills/spotreview/internal/gradle"
	"github.com/dshills/spotreview/internal/logging"
	"github.com/dshills/spotreview/internal/output"
	"github.com/dshills/spotreview/internal/review"
)

var (
	flagGradleTask     string
	flagSkipGradleTask bool
	flagRootPath       string
	flagReportFiles    []string
	flagNoInline       bool
	flagBase           string
	flagSink           string
	flagPR             int
	flagOwner          string
	flagRepo           string
	flagFormat         string
	flagOut            string
	flagFailOn         string
	flagDryRun         bool
)

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagGradleTask, "gradle-task", "", "Gradle task producing the SpotBugs reports (default spotbugsRelease)")
	cmd.Flags().BoolVar(&flagSkipGradleTask, "skip-gradle-task", false, "Use existing reports without running Gradle")
	cmd.Flags().StringVar(&flagRootPath, "root-path", "", "Repository root stripped from report paths (default: git top-level)")
	cmd.Flags().StringSliceVar(&flagReportFiles, "report-file", nil, "Report file or glob, repeatable (default app/build/reports/spotbugs/release.xml)")
	cmd.Flags().BoolVar(&flagNoInline, "no-inline", false, "Emit one summary line per defect instead of inline comments")
	cmd.Flags().StringVar(&flagBase, "base", "", "Base ref; files changed in base...HEAD are reviewed (default: working tree changes)")
	cmd.Flags().StringVar(&flagSink, "sink", "", "Where comments go (console, github, actions)")
	cmd.Flags().IntVar(&flagPR, "pr", 0, "Pull request number; its files are reviewed")
	cmd.Flags().StringVar(&flagOwner, "owner", "", "GitHub repository owner (auto-detected if omitted)")
	cmd.Flags().StringVar(&flagRepo, "repo", "", "GitHub repository name (auto-detected if omitted)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit 1 when a defect meets this severity (none, warning, failure)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Collect GitHub review comments but don't post them")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagGradleTask != "" {
		m["gradleTask"] = flagGradleTask
	}
	if flagSkipGradleTask {
		m["skipGradleTask"] = "true"
	}
	if flagRootPath != "" {
		m["rootPath"] = flagRootPath
	}
	if len(flagReportFiles) > 0 {
		m["reportFiles"] = strings.Join(flagReportFiles, ",")
	}
	if flagNoInline {
		m["inlineMode"] = "false"
	}
	if flagBase != "" {
		m["baseRef"] = flagBase
	}
	if flagSink != "" {
		m["sink"] = flagSink
	}
	if flagOwner != "" {
		m["github.owner"] = flagOwner
	}
	if flagRepo != "" {
		m["github.repo"] = flagRepo
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	return m
}

// reportEnv holds the process dependencies of a report run.
type reportEnv struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Builder review.Builder
	Logger  *zap.SugaredLogger

	RepoMeta     func() (gitctx.RepoMeta, error)
	ChangedFiles func(base string) (gitctx.FileChanges, error)
	DetectRepo   func() (owner, repo string, err error)
	NewGitHub    func(ctx context.Context, token, apiURL string) (*github.Client, error)
}

func defaultEnv() reportEnv {
	return reportEnv{
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Builder:      gradle.Runner{Stdout: os.Stderr, Stderr: os.Stderr},
		Logger:       logging.Logger,
		RepoMeta:     gitctx.GetRepoMeta,
		ChangedFiles: gitctx.ChangedFiles,
		DetectRepo:   github.DetectRepo,
		NewGitHub:    github.NewClient,
	}
}

// reportRequest carries per-invocation values that are not config keys.
type reportRequest struct {
	PR     int
	Out    string
	DryRun bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run SpotBugs and report defects in the files under review",
	Long: "Run the SpotBugs Gradle task, read the XML reports, and emit a comment for " +
		"every defect located in a file that the change touches.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		req := reportRequest{PR: flagPR, Out: flagOut, DryRun: flagDryRun}
		exitCode = runReport(cmd.Context(), cfg, req, defaultEnv())
		return nil
	},
}

func init() {
	addReportFlags(reportCmd)
}

// runReport performs one review and returns the process exit code.
func runReport(ctx context.Context, cfg config.Config, req reportRequest, env reportEnv) int {
	log := env.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	fail := func(code int, format string, args ...any) int {
		fmt.Fprintf(env.Stderr, "Error: "+format+"\n", args...)
		return code
	}

	if cfg.Sink == "github" && req.PR <= 0 {
		return fail(ExitUsageError, "--sink github requires --pr")
	}

	meta, metaErr := env.RepoMeta()
	root := cfg.RootPath
	if root == "" {
		if metaErr != nil {
			return fail(ExitRuntimeError, "%v\nUse --root-path to set the repository root.", metaErr)
		}
		root = meta.Root
	}
	repo := review.RepoInfo{Root: root, Head: meta.Head, Branch: meta.Branch}

	var gh *github.Client
	var owner, name string
	if req.PR > 0 {
		var err error
		gh, err = env.NewGitHub(ctx, env.Getenv("GITHUB_TOKEN"), apiURL(cfg, env))
		if err != nil {
			return exitFor(env.Stderr, err)
		}
		owner, name, err = resolveRepo(cfg, env)
		if err != nil {
			return fail(ExitRuntimeError, "%v\nUse --owner and --repo flags to specify manually.", err)
		}
	}

	changed, lines, err := changedFiles(ctx, cfg, req, env, gh, owner, name)
	if err != nil {
		return exitFor(env.Stderr, err)
	}
	log.Debugw("files under review", "count", len(changed))

	var sink review.Sink
	var ghSink *github.ReviewSink
	switch cfg.Sink {
	case "github":
		ghSink = github.NewReviewSink(gh, owner, name, req.PR, lines)
		sink = ghSink
	case "actions":
		sink = &annotate.Sink{W: env.Stdout, Title: "SpotBugs"}
	default:
		sink = &output.ConsoleSink{W: env.Stderr}
	}

	report, err := review.Run(ctx, review.Options{
		Task:           cfg.GradleTask,
		SkipBuild:      cfg.SkipGradleTask,
		Builder:        env.Builder,
		ReportPatterns: cfg.ReportFiles,
		ReviewRoot:     root,
		ChangedFiles:   changed,
		Inline:         cfg.InlineMode,
		Repo:           repo,
		Sink:           sink,
		Logger:         log,
	})
	if err != nil {
		return exitFor(env.Stderr, err)
	}

	if ghSink != nil {
		if req.DryRun {
			fmt.Fprintf(env.Stderr, "Dry run: %d comments collected, not posting to GitHub.\n", ghSink.Pending())
		} else {
			n := ghSink.Pending()
			if err := ghSink.Flush(ctx); err != nil {
				return exitFor(env.Stderr, err)
			}
			if n > 0 {
				fmt.Fprintf(env.Stderr, "Review with %d comments posted to PR #%d.\n", n, req.PR)
			}
		}
	}

	if err := writeReport(report, cfg.Format, req.Out, env.Stdout); err != nil {
		return fail(ExitRuntimeError, "writing output: %v", err)
	}

	for _, d := range report.Defects {
		if defect.MeetsThreshold(d.Severity(), cfg.FailOn) {
			return ExitFindings
		}
	}
	return ExitSuccess
}

func changedFiles(ctx context.Context, cfg config.Config, req reportRequest, env reportEnv, gh *github.Client, owner, name string) (map[string]bool, github.DiffLines, error) {
	if gh != nil {
		pf, err := gh.ChangedFiles(ctx, owner, name, req.PR)
		if err != nil {
			return nil, nil, err
		}
		return pf.Files, pf.Lines, nil
	}
	fc, err := env.ChangedFiles(cfg.BaseRef)
	if err != nil {
		return nil, nil, err
	}
	return fc.Targets(), nil, nil
}

// resolveRepo picks owner/repo from config, then GITHUB_REPOSITORY, then the
// origin remote.
func resolveRepo(cfg config.Config, env reportEnv) (string, string, error) {
	owner, name := cfg.GitHub.Owner, cfg.GitHub.Repo
	if owner != "" && name != "" {
		return owner, name, nil
	}
	if slug := env.Getenv("GITHUB_REPOSITORY"); slug != "" {
		if o, r, ok := strings.Cut(slug, "/"); ok {
			return firstSet(owner, o), firstSet(name, r), nil
		}
	}
	o, r, err := env.DetectRepo()
	if err != nil {
		return "", "", err
	}
	return firstSet(owner, o), firstSet(name, r), nil
}

func apiURL(cfg config.Config, env reportEnv) string {
	if cfg.GitHub.APIURL != "" {
		return cfg.GitHub.APIURL
	}
	return env.Getenv("GITHUB_API_URL")
}

func firstSet(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func writeReport(report *review.Report, format, out string, stdout io.Writer) error {
	if out != "" {
		return output.WriteReport(report, format, out)
	}
	w, err := output.GetWriter(format)
	if err != nil {
		return err
	}
	return w.Write(stdout, report)
}

// exitFor prints err and maps it onto an exit code.
func exitFor(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if github.IsAuthError(err) {
		return ExitAuthError
	}
	return ExitRuntimeError
}
