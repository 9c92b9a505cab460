package main

import (
	"context"
	"fmt"

	"coin-dashboard-go/internal/dashboard"
	"coin-dashboard-go/internal/highlights"
	"coin-dashboard-go/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCoinsCmd(a *app) *cobra.Command {
	var (
		page, perPage int
		sort, search  string
		csv           bool
	)
	cmd := &cobra.Command{
		Use:   "coins",
		Short: "List coins by market data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, err := models.ParseSortOrder(sort)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			coins, err := a.client.FetchCoins(ctx, page, perPage, order, a.currency)
			if err != nil {
				return fail(err)
			}
			coins = dashboard.FilterCoins(coins, search)
			a.log.Debug("Fetched coins", zap.Int("count", len(coins)), zap.String("sort", sort))

			if csv {
				return writeCoinsCSV(out(cmd), coins)
			}
			renderCoins(out(cmd), coins)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page of the listing")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "coins per page (1-250)")
	cmd.Flags().StringVar(&sort, "sort", string(models.SortMarketCapDesc), "sort order, e.g. volume_desc")
	cmd.Flags().StringVar(&search, "search", "", "keep coins whose name or symbol contains this")
	cmd.Flags().BoolVar(&csv, "csv", false, "write CSV instead of a table")
	return cmd
}

func newGlobalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "global",
		Short: "Show global market figures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			global, err := a.client.FetchGlobal(ctx, a.currency)
			if err != nil {
				return fail(err)
			}
			renderGlobal(out(cmd), global, a.currency)
			return nil
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories by market cap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			categories, err := a.client.FetchCategories(ctx)
			if err != nil {
				return fail(err)
			}
			categories = highlights.TopCategories(categories)
			if limit > 0 && len(categories) > limit {
				categories = categories[:limit]
			}
			renderCategories(out(cmd), categories)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of categories to show, 0 for all")
	return cmd
}

func newHighlightsCmd(a *app) *cobra.Command {
	var (
		perPage, rows int
		kind          string
	)
	cmd := &cobra.Command{
		Use:   "highlights",
		Short: "Show trending, gainers, losers, volume and new coin highlights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := highlights.Kinds()
			if kind != "" {
				k, err := highlights.ParseKind(kind)
				if err != nil {
					return err
				}
				kinds = []highlights.Kind{k}
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			// one listing per server-side order, shared by the kinds ranked over it
			listings := make(map[models.SortOrder]highlights.Highlights)
			for i, k := range kinds {
				order := listingOrder(k)
				h, ok := listings[order]
				if !ok {
					coins, err := a.client.FetchCoins(ctx, 1, perPage, order, a.currency)
					if err != nil {
						return fail(err)
					}
					h = highlights.Compute(coins).Top(rows)
					listings[order] = h
				}

				if i > 0 {
					fmt.Fprintln(out(cmd))
				}
				list, err := h.Get(k)
				if err != nil {
					return err
				}
				renderCard(out(cmd), highlights.NewCard(k, list))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&perPage, "per-page", 250, "coins the highlights are ranked over (1-250)")
	cmd.Flags().IntVar(&rows, "rows", 10, "rows per highlight, -1 for all")
	cmd.Flags().StringVar(&kind, "kind", "", "only this highlight, e.g. top_gainers")
	return cmd
}

// listingOrder is the server-side order a highlight is ranked over:
// the highest volumes and the smallest caps are off the first page of
// the market-cap listing.
func listingOrder(k highlights.Kind) models.SortOrder {
	switch k {
	case highlights.HighestVolume:
		return models.SortVolumeDesc
	case highlights.NewCoins:
		return models.SortMarketCapAsc
	default:
		return models.SortMarketCapDesc
	}
}

func newTrendingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "Show the most searched coins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			trending, err := a.client.FetchTrending(ctx)
			if err != nil {
				return fail(err)
			}
			renderTrending(out(cmd), trending)
			return nil
		},
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the market data API is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ok := a.client.(pinger)
			if !ok {
				return fmt.Errorf("market data client does not support ping")
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				return fail(err)
			}
			fmt.Fprintln(out(cmd), "OK")
			return nil
		},
	}
}
