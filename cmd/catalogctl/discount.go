package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/apply_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/bulkrun"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/remove_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/services"
)

func discountCommand() *cli.Command {
	return &cli.Command{
		Name:  "discount",
		Usage: "apply or remove catalog-wide discounts",
		Subcommands: []*cli.Command{
			{
				Name:  "apply",
				Usage: "set a discount percentage on every matching product",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "percent", Aliases: []string{"p"}, Usage: "discount percentage (0-100)", Required: true},
					categoryFlag(),
				},
				Action: func(c *cli.Context) error {
					return withServices(c, func(opts *services.ServiceOptions) (*bulkrun.Result, error) {
						return opts.ApplyBulkDiscount.Execute(c.Context, &apply_bulk_discount.Request{
							DiscountPercent: c.Int64("percent"),
							Categories:      c.StringSlice("category"),
						})
					})
				},
			},
			{
				Name:  "remove",
				Usage: "clear the discount of every matching discounted product",
				Flags: []cli.Flag{categoryFlag()},
				Action: func(c *cli.Context) error {
					return withServices(c, func(opts *services.ServiceOptions) (*bulkrun.Result, error) {
						return opts.RemoveBulkDiscount.Execute(c.Context, &remove_bulk_discount.Request{
							Categories: c.StringSlice("category"),
						})
					})
				},
			},
		},
	}
}

func categoryFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "category",
		Aliases: []string{"c"},
		Usage:   "restrict to a category, repeatable; omit for the whole catalog",
	}
}

func withServices(c *cli.Context, fn func(*services.ServiceOptions) (*bulkrun.Result, error)) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := services.NewServiceOptions(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer opts.Close()

	result, err := fn(opts)
	if result == nil {
		return err
	}
	return printResult(c, result, err)
}

// printResult writes result as JSON. An interrupted run still prints what it
// committed before runErr is returned.
func printResult(c *cli.Context, result *bulkrun.Result, runErr error) error {
	failed := make([]map[string]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, map[string]string{"productId": f.ProductID, "error": f.Err.Error()})
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	out := map[string]any{
		"updated":    result.Updated,
		"updatedIds": result.UpdatedIDs,
		"failed":     failed,
	}
	if len(result.Pending) > 0 {
		out["pending"] = result.Pending
	}
	if err := enc.Encode(out); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if len(result.Failed) > 0 {
		return cli.Exit(fmt.Sprintf("%d products failed", len(result.Failed)), 2)
	}
	return nil
}
