package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomcli/loom/internal/cli"
	"github.com/loomcli/loom/internal/model"
	"github.com/loomcli/loom/internal/service"
)

func outfitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outfit",
		Short: "Generate outfit combinations",
		Long:  `Ask the recommender for outfits: fully random, built around one item, or completing a partial pick.`,
	}

	cmd.AddCommand(randomOutfitCmd())
	cmd.AddCommand(completeOutfitCmd())
	cmd.AddCommand(buildOutfitCmd())

	return cmd
}

func randomOutfitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Generate a random outfit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			backend, err := newBackend()
			if err != nil {
				return err
			}

			outfit, err := backend.RandomOutfit(ctx)
			if err != nil {
				return err
			}

			printOutfit(outfit)
			return nil
		},
	}
}

func completeOutfitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <type> <clothing-id>",
		Short: "Build an outfit around one item",
		Long:  `Fix one garment and let the recommender fill the remaining two slots.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			itemType, err := model.ParseItemType(args[0])
			if err != nil {
				return err
			}

			backend, err := newBackend()
			if err != nil {
				return err
			}

			outfit, err := backend.CompleteOutfit(ctx, itemType, args[1])
			if err != nil {
				return err
			}

			printOutfit(outfit)
			return nil
		},
	}
}

func buildOutfitCmd() *cobra.Command {
	var shirtID, pantsID, shoesID string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an outfit from partial picks",
		Long: `Fix any combination of shirt, pants, and shoes and let the recommender
fill whatever is left. With no flags this behaves like 'outfit random'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			backend, err := newBackend()
			if err != nil {
				return err
			}

			var req service.BuildRequest
			if shirtID != "" {
				req.ShirtID = &shirtID
			}
			if pantsID != "" {
				req.PantsID = &pantsID
			}
			if shoesID != "" {
				req.ShoesID = &shoesID
			}

			outfit, err := backend.BuildOutfit(ctx, req)
			if err != nil {
				return err
			}

			printOutfit(outfit)
			return nil
		},
	}

	cmd.Flags().StringVar(&shirtID, "shirt", "", "fix the shirt slot")
	cmd.Flags().StringVar(&pantsID, "pants", "", "fix the pants slot")
	cmd.Flags().StringVar(&shoesID, "shoes", "", "fix the shoes slot")
	return cmd
}

func printOutfit(outfit *model.Outfit) {
	content := fmt.Sprintf("%s Shirt  %s\n%s Pants  %s\n%s Shoes  %s\n\nScore %.0f%%  %s",
		cli.ShirtIcon, outfit.Shirt,
		cli.PantsIcon, outfit.Pants,
		cli.ShoesIcon, outfit.Shoes,
		outfit.Score*100, cli.SubtleStyle.Render(string(outfit.Source)))

	fmt.Println(cli.RenderBox("Outfit", content))
	fmt.Println(cli.SubtleStyle.Render("Rate it in the interactive builder: loom builder"))
}
