package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/loomcli/loom/internal/cli"
	"github.com/loomcli/loom/internal/model"
)

func wardrobeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wardrobe",
		Short: "Manage your clothing catalog",
		Long:  `List, add, inspect, and delete the clothing items the recommender draws from.`,
	}

	cmd.AddCommand(listItemsCmd())
	cmd.AddCommand(addItemCmd())
	cmd.AddCommand(deleteItemCmd())
	cmd.AddCommand(featuresCmd())

	return cmd
}

func listItemsCmd() *cobra.Command {
	var itemTypeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wardrobe items",
		Long:  `Display your catalog, optionally filtered to one garment role.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			var itemType model.ItemType
			if itemTypeFlag != "" {
				parsed, err := model.ParseItemType(itemTypeFlag)
				if err != nil {
					return err
				}
				itemType = parsed
			}

			backend, err := newBackend()
			if err != nil {
				return err
			}

			items, err := newCatalog(backend).List(ctx, itemType)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println(cli.InfoStyle.Render("No items found. Use 'loom wardrobe add' to upload one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "ID", "Type", "Color", "Uploaded")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 16),
				strings.Repeat("-", 6),
				strings.Repeat("-", 12),
				strings.Repeat("-", 10))

			for _, item := range items {
				color := item.DominantColor
				if color == "" {
					color = cli.SubtleStyle.Render("(unknown)")
				}
				fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n",
					cli.RoleIcon(string(item.ItemType)), item.ClothingID,
					item.ItemType, color, item.UploadedAt.Format("2006-01-02"))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&itemTypeFlag, "type", "t", "", "filter by garment role (shirt, pants, shoes)")
	return cmd
}

func addItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <type> <image-file>",
		Short: "Upload a clothing photo",
		Long:  `Upload a photo of one clothing item. The server extracts its colors and features.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			itemType, err := model.ParseItemType(args[0])
			if err != nil {
				return err
			}

			path := args[1]
			f, err := os.Open(path) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer func() { _ = f.Close() }()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat image: %w", err)
			}

			backend, err := newBackend()
			if err != nil {
				return err
			}

			bar := progressbar.DefaultBytes(info.Size(), "uploading")
			reader := io.TeeReader(f, bar)

			result, err := newCatalog(backend).Add(ctx, itemType, filepath.Base(path), reader)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s as %s", args[1], result.ClothingID)))
			return nil
		},
	}

	return cmd
}

func deleteItemCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <clothing-id>",
		Short: "Delete a wardrobe item",
		Long:  `Remove one item from the catalog. Its image and cached features disappear with it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			clothingID := args[0]

			if !force {
				confirmer := cli.NewConfirmer(os.Stdin, os.Stdout)
				ok, err := confirmer.Confirm(ctx, fmt.Sprintf("Delete %s? It disappears from every outfit", clothingID))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Canceled"))
					return nil
				}
			}

			backend, err := newBackend()
			if err != nil {
				return err
			}

			if err := newCatalog(backend).Delete(ctx, clothingID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %s", clothingID)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

func featuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features <clothing-id>",
		Short: "Show extracted item features",
		Long:  `Display the colors and style attributes the server extracted for one item.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			backend, err := newBackend()
			if err != nil {
				return err
			}

			features, err := newCatalog(backend).Features(ctx, args[0])
			if err != nil {
				return err
			}
			if features == nil {
				fmt.Println(cli.FormatInfo("Features not extracted yet; try again in a moment"))
				return nil
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("Type      %s %s\n", cli.RoleIcon(string(features.ItemType)), features.ItemType))
			b.WriteString(fmt.Sprintf("Dominant  %s\n", features.DominantColor))
			b.WriteString(fmt.Sprintf("Secondary %s\n", features.SecondaryColor))
			if features.Style != "" {
				b.WriteString(fmt.Sprintf("Style     %s\n", features.Style))
			}
			if features.FitType != "" {
				b.WriteString(fmt.Sprintf("Fit       %s\n", features.FitType))
			}
			if features.ClosestPalette != "" {
				b.WriteString(fmt.Sprintf("Palette   %s\n", features.ClosestPalette))
			}
			b.WriteString(fmt.Sprintf("Image     %s", backend.ImageURL(args[0])))

			fmt.Println(cli.RenderBox(args[0], b.String()))
			return nil
		},
	}
}
