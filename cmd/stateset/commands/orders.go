package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// NewOrdersCommand groups the order subcommands.
func NewOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Manage orders",
	}

	cmd.AddCommand(newOrdersListCommand())
	cmd.AddCommand(newOrdersGetCommand())
	cmd.AddCommand(newOrdersCancelCommand())
	cmd.AddCommand(newOrdersShipCommand())

	return cmd
}

func newOrdersListCommand() *cobra.Command {
	var (
		customerID string
		status     string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			executor := client.Orders().Query().
				SortBy("created_at", stateset.SortDescending)

			if customerID != "" {
				executor = executor.Where("customer_id", customerID)
			}

			if status != "" {
				executor = executor.Where("status", status)
			}

			orders, err := executor.AllN(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing orders: %w", err)
			}

			return outputOrders(orders)
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "Filter by customer ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of orders to fetch")

	return cmd
}

func newOrdersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ORDER_ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			order, err := client.Orders().Get(cmd.Context(), args[0], nil)
			if err != nil {
				return fmt.Errorf("getting order: %w", err)
			}

			return outputOrders([]stateset.Order{*order})
		},
	}
}

func newOrdersCancelCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			order, err := client.Orders().Cancel(cmd.Context(), args[0], reason, nil)
			if err != nil {
				return fmt.Errorf("cancelling order: %w", err)
			}

			cmd.Printf("Order %s cancelled\n", order.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")

	return cmd
}

func newOrdersShipCommand() *cobra.Command {
	var (
		carrier  string
		tracking string
	)

	cmd := &cobra.Command{
		Use:   "ship ORDER_ID",
		Short: "Mark an order as shipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			order, err := client.Orders().MarkAsShipped(cmd.Context(), args[0], &stateset.ShipOrderRequest{
				Carrier:        carrier,
				TrackingNumber: tracking,
			}, nil)
			if err != nil {
				return fmt.Errorf("shipping order: %w", err)
			}

			cmd.Printf("Order %s marked as shipped (%s %s)\n", order.ID, order.Carrier, order.TrackingNumber)

			return nil
		},
	}

	cmd.Flags().StringVar(&carrier, "carrier", "", "Carrier name")
	cmd.Flags().StringVar(&tracking, "tracking", "", "Tracking number")
	_ = cmd.MarkFlagRequired("carrier")
	_ = cmd.MarkFlagRequired("tracking")

	return cmd
}

func outputOrders(orders []stateset.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			o.CustomerID,
			string(o.Status),
			fmt.Sprintf("%.2f %s", o.TotalAmount, o.Currency),
			o.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return render(orders, []string{"ID", "Customer", "Status", "Total", "Created"}, rows)
}
