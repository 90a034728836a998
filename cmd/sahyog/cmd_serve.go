package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sahyog/app/controllers"
	"github.com/shashiranjanraj/sahyog/app/routes"
	"github.com/shashiranjanraj/sahyog/internal/server"
	"github.com/shashiranjanraj/sahyog/pkg/router"
)

// sahyog serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// sahyog route:list — print all registered routes. Registers zero-value
// controllers; handlers are never invoked, so the table can be built without
// touching Mongo or Redis.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.Register(r, routes.Controllers{
			Auth:       &controllers.AuthController{},
			Fundraiser: &controllers.FundraiserController{},
			Donation:   &controllers.DonationController{},
		}, nil)

		table := r.Routes()
		if len(table) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if table[names[i]] != table[names[j]] {
				return table[names[i]] < table[names[j]]
			}
			return names[i] < names[j]
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PATH\tNAME")
		fmt.Fprintln(w, "----\t----")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", table[name], name)
		}
		return w.Flush()
	},
}
