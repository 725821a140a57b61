package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"countries/internal/catalog"
	"countries/internal/country/models"
	"countries/internal/view"
)

func (a *app) listCmd() *cobra.Command {
	var filter catalog.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List countries, optionally filtered by name and continent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := catalog.New(a.client, catalog.WithLogger(a.log))
			if err := ctrl.Load(cmd.Context()); err != nil {
				return err
			}
			if err := ctrl.Apply(filter); err != nil {
				return err
			}
			return printTable(a.out, ctrl.Visible())
		},
	}
	cmd.Flags().StringVar(&filter.Name, "name", "", "case-insensitive substring of the country name")
	cmd.Flags().StringVar(&filter.Continent, "continent", "", "exact continent, case-insensitive")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "search name|continent <query>",
		Short:     "Search countries on the server",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"name", "continent"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var byContinent bool
			switch args[0] {
			case "name":
			case "continent":
				byContinent = true
			default:
				return fmt.Errorf("search by %q: expected name or continent", args[0])
			}
			ctrl := catalog.New(a.client, catalog.WithLogger(a.log))
			if err := ctrl.Search(cmd.Context(), args[1], byContinent); err != nil {
				return err
			}
			return printTable(a.out, ctrl.Visible())
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show one country by ID or exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				c   *models.Country
				err error
			)
			if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
				c, err = a.client.GetCountry(cmd.Context(), id)
			} else {
				c, err = a.client.GetCountryByName(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return printCountry(a.out, c)
		},
	}
}

func (a *app) continentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continents",
		Short: "List the continents that have countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			continents, err := a.client.Continents(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range continents {
				fmt.Fprintln(a.out, c)
			}
			return nil
		},
	}
}

func printTable(w io.Writer, countries []*models.Country) error {
	if len(countries) == 0 {
		fmt.Fprintln(w, "No countries found")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONTINENT\tCAPITAL\tPOPULATION\tAREA\tCURRENCY\tLANGUAGE")
	for _, r := range view.Rows(countries) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Continent, r.Capital, r.Population, r.Area, r.Currency, r.Language)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d countries\n", len(countries))
	return nil
}

func printCountry(w io.Writer, c *models.Country) error {
	r := view.NewRow(c)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", r.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", r.Name)
	fmt.Fprintf(tw, "Continent:\t%s\n", r.Continent)
	fmt.Fprintf(tw, "Capital:\t%s\n", r.Capital)
	fmt.Fprintf(tw, "Population:\t%s\n", r.Population)
	fmt.Fprintf(tw, "Area:\t%s\n", r.Area)
	fmt.Fprintf(tw, "Currency:\t%s\n", r.Currency)
	fmt.Fprintf(tw, "Language:\t%s\n", r.Language)
	return tw.Flush()
}
