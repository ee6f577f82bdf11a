package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
)

type advisoryInfo struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Severity fixnext.Severity `json:"severity"`
	Packages []string         `json:"packages"`
}

var advisoriesCmd = &cobra.Command{
	Use:   "advisories",
	Short: "List the built-in advisories",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := fixnext.DefaultRegistry()

		if viper.GetBool("json") {
			infos := make([]advisoryInfo, 0, len(reg.All()))
			for _, adv := range reg.All() {
				infos = append(infos, advisoryInfo{
					ID:       adv.ID(),
					Title:    adv.Title(),
					Severity: adv.Severity(),
					Packages: adv.Packages(),
				})
			}
			return writeJSON(cmd.OutOrStdout(), infos)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSEVERITY\tPACKAGES\tTITLE")
		for _, adv := range reg.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				adv.ID(), adv.Severity(), strings.Join(adv.Packages(), ", "), adv.Title())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(advisoriesCmd)
}
