// Package cmd - cost command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipe-cost/adapters/recipefile"
	"recipe-cost/core/costing"
	"recipe-cost/core/types"
	"recipe-cost/internal/config"
	"recipe-cost/internal/logging"
)

var (
	recipeName  string
	showDetails bool
)

// costCmd represents the cost command
var costCmd = &cobra.Command{
	Use:   "cost <file>",
	Short: "Cost the recipes in a recipe file",
	Long: `Load an HCL recipe file and price its recipes against the
ingredient catalog it defines.

Examples:
  recipe-cost cost recipes.hcl
  recipe-cost cost --recipe brigadeiro recipes.hcl
  recipe-cost cost --details=false recipes.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runCost,
}

func init() {
	costCmd.Flags().StringVarP(&recipeName, "recipe", "r", "", "cost only the named recipe")
	costCmd.Flags().BoolVarP(&showDetails, "details", "d", true, "show the per-ingredient breakdown")
}

func runCost(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}

	logging.Info("loading recipe file")

	file, err := recipefile.Load(path, config.Get().Costing.DefaultMarginPercent)
	if err != nil {
		return err
	}

	recipes := file.Recipes
	if recipeName != "" {
		recipe, err := file.Recipe(recipeName)
		if err != nil {
			return err
		}
		recipes = []*types.Recipe{recipe}
	}

	if len(recipes) == 0 {
		fmt.Println("No recipes found in the file.")
		return nil
	}

	resolver := costing.MapResolver(file.Catalog)
	for _, recipe := range recipes {
		result, err := costing.Cost(recipe, resolver)
		if err != nil {
			return fmt.Errorf("costing %q: %w", recipe.Name, err)
		}
		printRecipe(recipe, result)
	}

	return nil
}

func printRecipe(recipe *types.Recipe, result *types.CostingResult) {
	rounded := result.Rounded()

	fmt.Println("┌─────────────────────────────────────────────────────────────────┐")
	fmt.Printf("│ %-63s │\n", truncate(recipe.Name, 63))
	fmt.Println("├─────────────────────────────────────────────────────────────────┤")

	if showDetails {
		for _, line := range rounded.Lines {
			label := fmt.Sprintf("%s (%s %s)", line.IngredientName, line.Quantity, line.Unit)
			fmt.Printf("│   %-47s %13s │\n", truncate(label, 47), "$"+line.Cost.StringFixed(4))
		}
		fmt.Println("├─────────────────────────────────────────────────────────────────┤")
	}

	fmt.Printf("│ %-47s %15s │\n", "INGREDIENT COST", "$"+rounded.IngredientCost.StringFixed(4))
	fmt.Printf("│ %-47s %15s │\n", "TOTAL COST (with packaging)", "$"+rounded.TotalCost.StringFixed(4))
	fmt.Printf("│ %-47s %15s │\n", "SUGGESTED PRICE", "$"+rounded.SuggestedPrice.StringFixed(2))
	if recipe.EffectiveYield() > 1 {
		fmt.Printf("│ %-47s %15s │\n",
			fmt.Sprintf("PRICE PER UNIT (yield %d)", recipe.EffectiveYield()),
			"$"+rounded.PricePerYieldUnit.StringFixed(2))
	}
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	fmt.Println()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
