// Command concierge runs the grounded agent as an interactive terminal chat.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atelierhq/concierge"
	"github.com/atelierhq/concierge/agent"
	"github.com/atelierhq/concierge/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		model   string
		logDir  string
		meDir   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "concierge",
		Short: "Grounded writing-consultancy agent",
		Long: "An interactive agent that answers questions from the business's grounding " +
			"documents, records sales leads, and logs questions it cannot answer.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Missing .env is fine; the environment may be set directly.
			_ = godotenv.Load()

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Model = model
			}
			if logDir != "" {
				cfg.LogDir = logDir
			}
			if meDir != "" {
				cfg.MeDir = meDir
			}

			logger := zap.NewNop()
			if verbose {
				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
			}

			c, err := concierge.Initialize(concierge.Options{
				Config: cfg,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			defer c.Close()

			go drainEvents(cmd.OutOrStdout(), c.Events())

			return runChat(cmd.Context(), cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "model name (default from GEMINI_MODEL)")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory for lead/feedback logs (default from LOG_DIR)")
	cmd.Flags().StringVar(&meDir, "me-dir", "", "directory holding the grounding documents (default from ME_DIR)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log model and tool activity")
	return cmd
}

// drainEvents echoes capture notices so the operator sees leads and
// feedback as they are recorded.
func drainEvents(out io.Writer, events <-chan agent.SessionEvent) {
	for event := range events {
		if event.Kind != agent.EventToolCallEnd {
			continue
		}
		ack, ok := event.Data["ack"].(map[string]interface{})
		if !ok || ack["ok"] != true {
			continue
		}
		if id, ok := ack["lead_id"].(string); ok {
			fmt.Fprintf(out, "[lead] recorded %s\n", id)
		}
		if id, ok := ack["feedback_id"].(string); ok {
			fmt.Fprintf(out, "[feedback] recorded %s\n", id)
		}
	}
}

func runChat(ctx context.Context, out io.Writer, c *concierge.Concierge) error {
	fmt.Fprintln(out, "Type your message (or 'exit'):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		answer, err := c.Submit(ctx, text)
		if answer != "" {
			fmt.Fprintln(out, answer)
		}
		if err != nil {
			fmt.Fprintf(out, "(turn failed: %v)\n", err)
		}
	}
}
