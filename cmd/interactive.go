package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spigell/guest-tracker/internal/tracker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes     = "Yes"
	PromptNo      = "No"
	PromptAnother = "Analyze another guest"
	PromptExit    = "Exit"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Enter guest details interactively",
	Run: func(_ *cobra.Command, _ []string) {
		log := newLogger()
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		t := mustTracker(ctx, prometheus.NewRegistry(), log)

		for {
			req, save, err := askRequest()
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return
				}
				log.Fatal("reading guest details", zap.Error(err))
			}

			runAnalysis(ctx, t, req, save, log)

			next := promptui.Select{
				Label: "What next?",
				Items: []string{PromptAnother, PromptExit},
			}
			_, action, err := next.Run()
			if err != nil || action == PromptExit {
				return
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func askRequest() (tracker.Request, bool, error) {
	name, err := ask("Guest Name")
	if err != nil {
		return tracker.Request{}, false, err
	}
	url, err := ask("Guest URL (Twitter/LinkedIn/YouTube)")
	if err != nil {
		return tracker.Request{}, false, err
	}
	channel, err := ask("Host YouTube Channel URL")
	if err != nil {
		return tracker.Request{}, false, err
	}

	savePrompt := promptui.Select{
		Label: "Save results to file?",
		Items: []string{PromptNo, PromptYes},
	}
	_, save, err := savePrompt.Run()
	if err != nil {
		return tracker.Request{}, false, err
	}

	return tracker.Request{
		GuestName:      name,
		GuestURL:       url,
		HostChannelURL: channel,
		UseCache:       true,
	}, save == PromptYes, nil
}

func ask(label string) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: requireValue(label),
	}
	value, err := p.Run()
	return strings.TrimSpace(value), err
}

func requireValue(label string) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(label))
		}
		return nil
	}
}
