package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/lifelog/internal/model"
)

func newCategoryCmd(g *globals) *cobra.Command {
	category := &cobra.Command{Use: "category", Aliases: []string{"categories"}, Short: "Manage categories"}

	category.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s %s %s %s\n", fit("ID", 20), fit("NAME", 22), fit("COLOR", 8), "PRESET")
			for _, c := range cats {
				preset := ""
				if c.IsDefault {
					preset = "yes"
				}
				_, _ = fmt.Fprintf(out, "%s %s %s %s\n", fit(shortCategoryID(c.ID), 20), fit(categoryName(cats, c.ID), 22), fit(c.Color, 8), preset)
			}
			return nil
		},
	})

	var color, icon, description string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			c, err := a.tracker.Store().CreateCategory(args[0], color, icon, description)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created category %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&color, "color", model.PresetColors[0], "hex color like #4A90D9")
	addCmd.Flags().StringVar(&icon, "icon", "", "emoji shown next to the name")
	addCmd.Flags().StringVar(&description, "description", "", "optional description")
	category.AddCommand(addCmd)

	var newName, newColor, newIcon string
	editCmd := &cobra.Command{
		Use:   "edit <name|id>",
		Short: "Rename or recolor a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			c, ok := findCategory(cats, args[0])
			if !ok {
				return fmt.Errorf("category %s: %w", args[0], model.ErrNotFound)
			}
			if cmd.Flags().Changed("name") {
				c.Name = newName
			}
			if cmd.Flags().Changed("color") {
				c.Color = newColor
			}
			if cmd.Flags().Changed("icon") {
				c.Icon = newIcon
			}
			if err := a.tracker.Store().UpdateCategory(c); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated category %s\n", c.Name)
			return nil
		},
	}
	editCmd.Flags().StringVar(&newName, "name", "", "new name")
	editCmd.Flags().StringVar(&newColor, "color", "", "new hex color")
	editCmd.Flags().StringVar(&newIcon, "icon", "", "new icon")
	category.AddCommand(editCmd)

	category.AddCommand(&cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete an unused custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			cats, err := a.tracker.Categories()
			if err != nil {
				return err
			}
			c, ok := findCategory(cats, args[0])
			if !ok {
				return fmt.Errorf("category %s: %w", args[0], model.ErrNotFound)
			}
			if err := a.tracker.Store().DeleteCategory(c.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", c.Name)
			return nil
		},
	})
	return category
}

// shortCategoryID keeps preset ids readable and trims generated ones.
func shortCategoryID(id string) string {
	if len(id) == 36 {
		return shortID(id)
	}
	return id
}
