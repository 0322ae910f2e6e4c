package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// NewReturnsCommand groups the return subcommands.
func NewReturnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "returns",
		Aliases: []string{"return"},
		Short:   "Manage returns",
	}

	cmd.AddCommand(newReturnsListCommand())
	cmd.AddCommand(newReturnsApproveCommand())
	cmd.AddCommand(newReturnsRejectCommand())

	return cmd
}

func newReturnsListCommand() *cobra.Command {
	var (
		orderID string
		status  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List returns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			executor := client.Returns().Query().
				SortBy("created_at", stateset.SortDescending)

			if orderID != "" {
				executor = executor.Where("order_id", orderID)
			}

			if status != "" {
				executor = executor.Where("status", status)
			}

			returns, err := executor.AllN(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing returns: %w", err)
			}

			rows := make([][]string, 0, len(returns))
			for _, r := range returns {
				rows = append(rows, []string{
					r.ID,
					r.OrderID,
					string(r.Status),
					r.Reason,
					fmt.Sprintf("%.2f", r.RefundAmount),
				})
			}

			return render(returns, []string{"ID", "Order", "Status", "Reason", "Refund"}, rows)
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Filter by order ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of returns to fetch")

	return cmd
}

func newReturnsApproveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approve RETURN_ID",
		Short: "Approve a return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ret, err := client.Returns().Approve(cmd.Context(), args[0], nil)
			if err != nil {
				return fmt.Errorf("approving return: %w", err)
			}

			cmd.Printf("Return %s approved\n", ret.ID)

			return nil
		},
	}
}

func newReturnsRejectCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject RETURN_ID",
		Short: "Reject a return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ret, err := client.Returns().Reject(cmd.Context(), args[0], reason, nil)
			if err != nil {
				return fmt.Errorf("rejecting return: %w", err)
			}

			cmd.Printf("Return %s rejected\n", ret.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")

	return cmd
}
