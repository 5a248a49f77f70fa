package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spigell/guest-tracker/internal/tracker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze how well one guest fits a host channel",
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		url, _ := flags.GetString("url")
		channel, _ := flags.GetString("channel")
		save, _ := flags.GetBool("save")
		noCache, _ := flags.GetBool("no-cache")

		log := newLogger()
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		t := mustTracker(ctx, prometheus.NewRegistry(), log)

		ok := runAnalysis(ctx, t, tracker.Request{
			GuestName:      name,
			GuestURL:       url,
			HostChannelURL: channel,
			UseCache:       !noCache,
		}, save, log)
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("name", "n", "", "guest name (derived from the url when empty)")
	analyzeCmd.Flags().StringP("url", "u", "", "guest profile url (Twitter/LinkedIn/YouTube)")
	analyzeCmd.Flags().StringP("channel", "c", "", "host YouTube channel url")
	analyzeCmd.Flags().BoolP("save", "s", false, "save the full analysis as json")
	analyzeCmd.Flags().Bool("no-cache", false, "recompute the host analysis even if cached")

	analyzeCmd.MarkFlagRequired("url")
	analyzeCmd.MarkFlagRequired("channel")
}

func mustTracker(ctx context.Context, reg prometheus.Registerer, log *zap.Logger) *tracker.Tracker {
	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the guest-tracker", zap.String("version", resolveVersion()))

	t, err := buildTracker(ctx, config, reg, log)
	if err != nil {
		log.Fatal("building the tracker", zap.Error(err))
	}
	return t
}

// runAnalysis prints the outcome and reports whether it succeeded.
func runAnalysis(ctx context.Context, t *tracker.Tracker, req tracker.Request, save bool, log *zap.Logger) bool {
	log.Info("analyzing guest",
		zap.String("guest", req.GuestName),
		zap.String("guest_url", req.GuestURL),
		zap.String("channel", req.HostChannelURL),
	)

	result := t.Analyze(ctx, req)
	printAnalysis(os.Stdout, result)

	if result.Failed() {
		return false
	}

	if save {
		filename := analysisFilename(result.Metadata.GuestName, time.Now())
		if err := saveJSON(filename, result); err != nil {
			log.Error("saving the analysis", zap.Error(err))
			return false
		}
		log.Info("analysis saved", zap.String("filename", filename))
	}
	return true
}
