package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/floating-cart/internal/config"
	"github.com/nikolayk812/floating-cart/internal/domain"
	"github.com/nikolayk812/floating-cart/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// cli holds the session opened by the root command for its subcommands.
type cli struct {
	app *app
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Drive the device cart from a terminal",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}

			log := logger.New(cfg.LogLevel).WithField("storage", cfg.Storage)

			c.app, err = newApp(cmd.Context(), cfg, log, cmd.OutOrStdout())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return c.app.close(ctx)
		},
	}

	root.AddCommand(
		c.addCmd(),
		c.incCmd(),
		c.decCmd(),
		c.showCmd(),
		c.openCmd(),
	)

	return root
}

func (c *cli) addCmd() *cobra.Command {
	var (
		p     domain.Product
		price string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("price[%s] is not valid: %w", price, err)
			}
			if amount.IsNegative() {
				return fmt.Errorf("price[%s] is negative", price)
			}
			p.Price = amount

			if p.ID == "" {
				p.ID = uuid.NewString()
			}

			c.app.store.AddToCart(p)
			c.printSummary(cmd)

			return nil
		},
	}

	cmd.Flags().StringVar(&p.ID, "id", "", "product id, generated when empty")
	cmd.Flags().StringVar(&p.Title, "title", "", "product title")
	cmd.Flags().StringVar(&p.ImageURL, "image-url", "", "product image url")
	cmd.Flags().StringVar(&price, "price", "0", "unit price")

	return cmd
}

func (c *cli) incCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inc <id>",
		Short: "Add one unit of a product already in the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.store.Increment(args[0])
			c.printSummary(cmd)

			return nil
		},
	}
}

func (c *cli) decCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dec <id>",
		Short: "Remove one unit of a product, keeping at least one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.store.Decrement(args[0])
			c.printSummary(cmd)

			return nil
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart lines and the floating summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := printItems(cmd.OutOrStdout(), c.app.store); err != nil {
				return err
			}
			c.printSummary(cmd)

			return nil
		},
	}
}

func (c *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Tap the floating cart and open the cart screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.view.Tap(cmd.Context())
		},
	}
}

func (c *cli) printSummary(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", c.app.view.ItemsLabel(), c.app.view.TotalPrice())
}
