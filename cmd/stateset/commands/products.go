package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// NewProductsCommand groups the product subcommands.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
	}

	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsGetCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	var (
		search string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			executor := client.Products().Query().
				SortBy("name", stateset.SortAscending)

			if search != "" {
				executor = executor.Search(search)
			}

			products, err := executor.AllN(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing products: %w", err)
			}

			rows := make([][]string, 0, len(products))
			for _, p := range products {
				rows = append(rows, []string{
					p.ID,
					p.SKU,
					p.Name,
					fmt.Sprintf("%.2f %s", p.Price, p.Currency),
				})
			}

			return render(products, []string{"ID", "SKU", "Name", "Price"}, rows)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Free-text search")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of products to fetch")

	return cmd
}

func newProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			product, err := client.Products().Get(cmd.Context(), args[0], &stateset.RequestOptions{UseCache: true})
			if err != nil {
				return fmt.Errorf("getting product: %w", err)
			}

			rows := [][]string{{
				product.ID,
				product.SKU,
				product.Name,
				fmt.Sprintf("%.2f %s", product.Price, product.Currency),
			}}

			return render(product, []string{"ID", "SKU", "Name", "Price"}, rows)
		},
	}
}
