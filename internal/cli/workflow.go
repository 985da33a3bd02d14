package cli

import (
	"github.com/spf13/cobra"

	reporunner "github.com/reporunner/reporunner-go"
	"github.com/reporunner/reporunner-go/internal/workflowfile"
)

func workflowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage workflows",
	}

	cmd.AddCommand(workflowListCmd())
	cmd.AddCommand(workflowGetCmd())
	cmd.AddCommand(workflowCreateCmd())
	cmd.AddCommand(workflowUpdateCmd())
	cmd.AddCommand(workflowDeleteCmd())
	cmd.AddCommand(workflowHistoryCmd())
	cmd.AddCommand(workflowSyncCmd())

	return cmd
}

func workflowListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			activeOnly, _ := cmd.Flags().GetBool("active")

			workflows, err := client.ListWorkflows(cmd.Context(), reporunner.ListWorkflowsOptions{
				Limit:      limit,
				Offset:     offset,
				ActiveOnly: activeOnly,
			})
			if err != nil {
				return err
			}
			return printJSON(workflows)
		},
	}

	cmd.Flags().Int("limit", 0, "maximum number of workflows to return")
	cmd.Flags().Int("offset", 0, "number of workflows to skip")
	cmd.Flags().Bool("active", false, "only list active workflows")

	return cmd
}

func workflowGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <workflow-id>",
		Short: "Show a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			wf, err := client.GetWorkflow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(wf)
		},
	}
}

func workflowCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create -f <file>",
		Short: "Create a workflow from a YAML definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			def, err := workflowfile.Load(file)
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			wf, err := client.CreateWorkflow(cmd.Context(), def.CreateRequest())
			if err != nil {
				return err
			}
			return printJSON(wf)
		},
	}

	cmd.Flags().StringP("file", "f", "", "workflow definition file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func workflowUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <workflow-id> -f <file>",
		Short: "Update a workflow from a YAML definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			def, err := workflowfile.Load(file)
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			wf, err := client.UpdateWorkflow(cmd.Context(), args[0], def.UpdateRequest())
			if err != nil {
				return err
			}
			return printJSON(wf)
		},
	}

	cmd.Flags().StringP("file", "f", "", "workflow definition file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func workflowDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workflow-id>",
		Short: "Delete a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return client.DeleteWorkflow(cmd.Context(), args[0])
		},
	}
}

func workflowHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <workflow-id>",
		Short: "List past executions of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			status, _ := cmd.Flags().GetString("status")

			executions, err := client.ExecutionHistory(cmd.Context(), args[0], reporunner.ExecutionHistoryOptions{
				Limit:  limit,
				Offset: offset,
				Status: reporunner.ExecutionStatus(status),
			})
			if err != nil {
				return err
			}
			return printJSON(executions)
		},
	}

	cmd.Flags().Int("limit", 0, "maximum number of executions to return")
	cmd.Flags().Int("offset", 0, "number of executions to skip")
	cmd.Flags().String("status", "", "only executions with this status (pending, running, success, error, cancelled)")

	return cmd
}
