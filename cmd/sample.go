package cmd

import (
	"github.com/spigell/guest-tracker/internal/guest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const sampleFile = "sample_guests.json"

var createSampleCmd = &cobra.Command{
	Use:   "create-sample [file]",
	Short: "Write a sample guest list for the batch command",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		log := newLogger()
		defer log.Sync()

		filename := sampleFile
		if len(args) == 1 {
			filename = args[0]
		}

		if err := guest.WriteList(filename, guest.SampleList); err != nil {
			log.Fatal("writing the sample guest list", zap.Error(err))
		}

		log.Info("created sample batch file",
			zap.String("filename", filename),
			zap.String("hint", "edit the file to add your own guests, then run the batch command"),
		)
	},
}

func init() {
	rootCmd.AddCommand(createSampleCmd)
}
