package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/loomcli/loom/internal/cli"
)

func retrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retrain",
		Short: "Retrain the recommendation model",
		Long: `Trigger a model retrain on the server. Training blocks until the server
responds; interrupting leaves the server-side job running.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler := cli.NewInterruptHandler(os.Stdout, "Retrain")
			ctx := handler.HandleInterrupts(cmd.Context())

			ctx, cancel := commandContext(ctx)
			defer cancel()

			backend, err := newBackend()
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription(cli.BrainIcon+" retraining"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
			)
			done := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						_ = bar.Add(1)
					}
				}
			}()

			result, err := backend.Retrain(ctx)
			close(done)
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)

			if err != nil {
				return err
			}

			if !result.Success {
				fmt.Println(cli.FormatWarning(result.Message))
				return nil
			}

			msg := result.Message
			if result.Accuracy != nil {
				msg = fmt.Sprintf("%s (%.0f%% accuracy)", msg, *result.Accuracy*100)
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}
}
