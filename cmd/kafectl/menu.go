package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

func newMenuCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List and edit menu items",
	}
	cmd.AddCommand(newMenuListCmd(a), writes(newMenuAddCmd(a)), writes(newMenuRemoveCmd(a)))
	return cmd
}

func newMenuListCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
			for _, item := range store.Get(a.store, store.MenuItems) {
				if category != "" && item.Category != category {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", item.ID, item.Name, item.Category, item.Price)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show one category")
	return cmd
}

func newMenuAddCmd(a *app) *cobra.Command {
	item := domain.MenuItem{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a menu item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if item.Price <= 0 {
				return fmt.Errorf("price must be positive")
			}
			if !slices.Contains(store.Get(a.store, store.Categories), item.Category) {
				return fmt.Errorf("category %q does not exist", item.Category)
			}

			item.ID = utils.NewID("menu")
			store.Update(a.store, store.MenuItems, func(items []domain.MenuItem) []domain.MenuItem {
				return append(items, item)
			})
			fmt.Fprintln(a.out, item.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&item.Name, "name", "", "item name")
	flags.StringVar(&item.Description, "description", "", "short description")
	flags.Float64Var(&item.Price, "price", 0, "price")
	flags.StringVar(&item.Category, "category", "", "existing category")
	flags.StringVar(&item.Image, "image", "https://placehold.co/600x400.png", "image URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newMenuRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found := false
			store.Update(a.store, store.MenuItems, func(items []domain.MenuItem) []domain.MenuItem {
				return slices.DeleteFunc(items, func(m domain.MenuItem) bool {
					if m.ID == args[0] {
						found = true
						return true
					}
					return false
				})
			})
			if !found {
				return fmt.Errorf("menu item %q not found", args[0])
			}
			return nil
		},
	}
}
