package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/cmd/helpers"
	"github.com/zinc-sig/pyramid/internal/output"
	"github.com/zinc-sig/pyramid/internal/settings"
	"github.com/zinc-sig/pyramid/internal/upload"
	"github.com/zinc-sig/pyramid/internal/webhook"
)

var (
	gradeFlags   config.GradeFlags
	gradeGrader  config.GraderConfig
	gradeContext config.ContextConfig
	gradeWebhook config.WebhookConfig
	gradeUpload  config.UploadConfig
	gradeStore   config.StoreConfig
)

var gradeCmd = &cobra.Command{
	Use:   "grade -s <source.c> [flags]",
	Short: "Compile and grade a pyramid submission",
	Long: `Compile a C submission, run it against every test case and print the graded
report as JSON on stdout.

The run stops at the first case that fails to compile, crashes or times out;
such a submission scores zero. Use --summary for a readable table on stderr.`,
	Example: `  pyramid grade -s main.c
  pyramid grade -s main.c --summary --context-kv student=s123
  cat main.c | pyramid grade -s - --cases cases.yaml -t 2s
  pyramid grade -s main.c --report out/report.json:reports/s123.json --upload-provider minio`,
	RunE: gradeCommand,
}

func gradeCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()

	source, err := helpers.ReadSource(gradeFlags.Source, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctxData, err := settings.Build(settings.ContextPrefix, gradeContext.Sources())
	if err != nil {
		return fmt.Errorf("failed to build context: %w", err)
	}

	webhookConfig, retryConfig, err := helpers.ParseWebhookConfig(&gradeWebhook)
	if err != nil {
		return err
	}

	localReport, remoteReport := helpers.ParseReportPath(gradeFlags.Report)
	if remoteReport != "" && gradeUpload.Provider == "" {
		return fmt.Errorf("remote report path %q requires --upload-provider", remoteReport)
	}

	if gradeFlags.DryRun {
		return gradeDryRun(stderr, source, ctxData, webhookConfig, remoteReport)
	}

	provider, uploadConfig, err := helpers.SetupUploadProvider(ctx, &gradeUpload)
	if err != nil {
		return err
	}

	st, err := helpers.OpenStore(ctx, &gradeStore)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	var details io.Writer
	if verbose {
		details = stderr
		helpers.PrintContextInfo(stderr, ctxData, false)
		if provider != nil {
			helpers.PrintUploadInfo(stderr, provider.Name(), uploadConfig, remoteReport)
		}
	}

	grader, executor, err := helpers.NewGrader(&gradeGrader, logger, details)
	if err != nil {
		return err
	}
	defer executor.Close()

	result, gradeErr := grader.Grade(ctx, source)
	report := output.FromGrading(result, len(grader.Cases()))
	report.Context = ctxData

	delivery := helpers.Delivery{
		Store:        st,
		LocalPath:    localReport,
		ReportRemote: remoteReport,
		Logger:       logger,
	}
	if webhookConfig != nil {
		delivery.Webhook = webhook.NewClient(webhookConfig, retryConfig, logger)
	}
	if provider != nil {
		delivery.Publisher = upload.NewPublisher(provider, logger)
	}
	if err := helpers.Deliver(ctx, delivery, report, source); err != nil {
		return err
	}

	if gradeFlags.Summary {
		if err := output.WriteSummary(stderr, report); err != nil {
			return err
		}
	}

	if err := helpers.OutputJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if gradeErr != nil {
		return fmt.Errorf("grading failed: %w", gradeErr)
	}
	return nil
}

func gradeDryRun(w io.Writer, source string, ctxData any, hook *webhook.Config, remoteReport string) error {
	timeout, err := helpers.ParseTimeout(gradeGrader.TimeoutStr)
	if err != nil {
		return err
	}
	gradeGrader.Timeout = timeout

	cases, err := helpers.LoadCases(gradeGrader.Cases)
	if err != nil {
		return err
	}

	helpers.PrintContextInfo(w, ctxData, true)
	helpers.PrintGradingPlan(w, source, &gradeGrader, cases)

	if gradeUpload.Provider != "" {
		uploadConfig, err := helpers.BuildUploadConfig(&gradeUpload)
		if err != nil {
			return err
		}
		helpers.PrintUploadInfo(w, gradeUpload.Provider, uploadConfig, remoteReport)
	}
	if hook != nil {
		method := hook.Method
		if method == "" {
			method = "POST"
		}
		fmt.Fprintf(w, "Webhook:  %s %s\n", method, hook.URL)
	}
	if gradeStore.Driver != "" {
		fmt.Fprintf(w, "Database: %s\n", gradeStore.Driver)
	}
	return nil
}

func init() {
	gradeCmd.Flags().StringVarP(&gradeFlags.Source, "source", "s", "", "C source file to grade, or - for stdin (required)")
	gradeCmd.Flags().StringVar(&gradeFlags.Report, "report", "", "Also write the report to local[:remote] (remote requires --upload-provider)")
	gradeCmd.Flags().BoolVar(&gradeFlags.Summary, "summary", false, "Print a human-readable summary on stderr")
	gradeCmd.Flags().BoolVar(&gradeFlags.DryRun, "dry-run", false, "Show the grading plan without compiling or running")
	_ = gradeCmd.MarkFlagRequired("source")

	helpers.SetupGraderFlags(gradeCmd, &gradeGrader)
	helpers.SetupContextFlags(gradeCmd, &gradeContext)
	helpers.SetupWebhookFlags(gradeCmd, &gradeWebhook)
	helpers.SetupUploadFlags(gradeCmd, &gradeUpload)
	helpers.SetupStoreFlags(gradeCmd, &gradeStore)
}
