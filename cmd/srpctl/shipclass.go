package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"alliance-srp/internal/adapters/http/routes"
	"alliance-srp/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// shipClassRow is one entry of an import file
type shipClassRow struct {
	GroupName   string           `json:"group_name"`
	TierCeiling *decimal.Decimal `json:"tier_ceiling"`
	IsSpecial   bool             `json:"is_special"`
}

var shipClassCmd = &cobra.Command{
	Use:     "shipclass",
	Aliases: []string{"sc"},
	Short:   "Manage the ship class dataset",
	Long: `Commands for the ship class dataset used by the payout calculator.

Changes are stored in the database. A running server picks them up on its
next scheduled refresh or through POST /api/v1/admin/ship-classes/refresh.`,
}

var shipClassImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Upsert ship classes from a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := decodeShipClasses(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		return withContainer(func(c *routes.Container) error {
			if err := c.ShipClassRepo.Upsert(context.Background(), rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d ship classes\n", len(rows))
			return nil
		})
	},
}

var shipClassListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored ship classes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *routes.Container) error {
			classes, err := c.ShipClassRepo.List(context.Background())
			if err != nil {
				return err
			}
			writeShipClasses(cmd.OutOrStdout(), classes)
			return nil
		})
	},
}

var shipClassDeleteCmd = &cobra.Command{
	Use:   "delete <group>",
	Short: "Remove a ship class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *routes.Container) error {
			if err := c.ShipClassRepo.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	shipClassCmd.AddCommand(shipClassImportCmd, shipClassListCmd, shipClassDeleteCmd)
}

// decodeShipClasses parses and checks an import file
func decodeShipClasses(r io.Reader) ([]*models.ShipClass, error) {
	var in []shipClassRow
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	seen := make(map[string]bool, len(in))
	out := make([]*models.ShipClass, 0, len(in))
	for i, row := range in {
		name := strings.TrimSpace(row.GroupName)
		if name == "" {
			return nil, fmt.Errorf("row %d: group_name is required", i)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("row %d: duplicate group %q", i, name)
		}
		seen[strings.ToLower(name)] = true

		class := &models.ShipClass{GroupName: name, IsSpecial: row.IsSpecial}
		if row.TierCeiling != nil {
			if row.TierCeiling.IsNegative() {
				return nil, fmt.Errorf("row %d: tier_ceiling must not be negative", i)
			}
			class.TierCeiling = decimal.NewNullDecimal(*row.TierCeiling)
		}
		out = append(out, class)
	}
	return out, nil
}

func writeShipClasses(w io.Writer, classes []*models.ShipClass) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tCEILING\tSPECIAL")
	for _, c := range classes {
		ceiling := "-"
		if c.TierCeiling.Valid {
			ceiling = c.TierCeiling.Decimal.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\n", c.GroupName, ceiling, c.IsSpecial)
	}
	tw.Flush()
}
