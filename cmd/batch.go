package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spigell/guest-tracker/internal/guest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchCmd = &cobra.Command{
	Use:   "batch <guests.json>",
	Short: "Analyze and rank a list of guests against one host channel",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		channel, _ := cmd.Flags().GetString("channel")
		save, _ := cmd.Flags().GetBool("save")

		log := newLogger()
		defer log.Sync()

		refs, err := guest.LoadList(args[0])
		if err != nil {
			log.Fatal("loading the guest list", zap.String("file", args[0]), zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		t := mustTracker(ctx, prometheus.NewRegistry(), log)

		log.Info("starting batch analysis", zap.Int("guests", len(refs)), zap.String("channel", channel))

		result := t.AnalyzeBatch(ctx, refs, channel)
		printBatch(os.Stdout, result)

		if save {
			filename := batchFilename(time.Now())
			if err := saveJSON(filename, result); err != nil {
				log.Fatal("saving the batch analysis", zap.Error(err))
			}
			log.Info("batch analysis saved", zap.String("filename", filename))
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("channel", "c", "", "host YouTube channel url")
	batchCmd.Flags().BoolP("save", "s", false, "save the full batch result as json")

	batchCmd.MarkFlagRequired("channel")
}
