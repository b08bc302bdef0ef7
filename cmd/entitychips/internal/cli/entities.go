package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEntitiesCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List the resolved entity registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := a.module.Registry()
			entities := reg.All()
			if category != "" {
				entities = reg.ByCategory(category)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tTYPE\tCATEGORY\tDOMAIN")
			for _, entity := range entities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", entity.Slug, entity.Name, entity.Type, entity.Category, entity.IconDomain())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list entities in this category")
	return cmd
}
