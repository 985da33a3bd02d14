package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	reporunner "github.com/reporunner/reporunner-go"
)

func executionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execution",
		Short: "Run and inspect workflow executions",
	}

	cmd.AddCommand(executionRunCmd())
	cmd.AddCommand(executionGetCmd())
	cmd.AddCommand(executionCancelCmd())
	cmd.AddCommand(executionWatchCmd())

	return cmd
}

func executionRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <workflow-id>",
		Short: "Execute a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := parseInput(cmd)
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			wait, _ := cmd.Flags().GetBool("wait")
			exec, err := client.ExecuteWorkflow(cmd.Context(), args[0], input, wait)
			if err != nil {
				return err
			}
			return printJSON(exec)
		},
	}

	cmd.Flags().Bool("wait", false, "block until the execution finishes")
	cmd.Flags().StringSlice("input", nil, "input parameters as key=value (repeatable)")
	cmd.Flags().String("input-file", "", "JSON file with input parameters")

	return cmd
}

// parseInput merges --input-file contents with --input key=value pairs,
// the latter taking precedence.
func parseInput(cmd *cobra.Command) (map[string]any, error) {
	input := map[string]any{}

	if file, _ := cmd.Flags().GetString("input-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("parsing input file: %w", err)
		}
	}

	pairs, _ := cmd.Flags().GetStringSlice("input")
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid input %q, expected key=value", pair)
		}
		input[key] = value
	}

	return input, nil
}

func executionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <execution-id>",
		Short: "Show an execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			exec, err := client.GetExecution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(exec)
		},
	}
}

func executionCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <execution-id>",
		Short: "Cancel a running execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return client.CancelExecution(cmd.Context(), args[0])
		},
	}
}

func executionWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <execution-id>",
		Short: "Follow live updates for an execution",
		Long: `Follow live updates for an execution over WebSocket.

Updates are printed as JSON until the server closes the stream, typically
when the execution reaches a terminal status. The stream is not reopened
if the connection drops.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			sess, err := client.StreamExecution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			for {
				update, err := sess.Recv(cmd.Context())
				if err != nil {
					var serr *reporunner.SerializationError
					if errors.As(err, &serr) {
						log.Warn().Err(err).Msg("Skipping malformed update")
						continue
					}
					if errors.Is(err, io.EOF) {
						log.Info().Msg("Stream ended")
						return nil
					}
					return err
				}
				if err := printJSON(update); err != nil {
					return err
				}
			}
		},
	}
}
