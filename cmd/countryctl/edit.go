package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"countries/internal/country/models"
	"countries/internal/draft"
	"countries/internal/notify"
	dErrors "countries/pkg/domain-errors"
)

var fieldLabels = map[string]string{
	draft.FieldName:       "Country name",
	draft.FieldContinent:  "Continent",
	draft.FieldCapital:    "Capital",
	draft.FieldPopulation: "Population",
	draft.FieldArea:       "Area (km²)",
	draft.FieldCurrency:   "Currency",
	draft.FieldLanguage:   "Language",
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a country interactively; unfinished input is kept as a draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, err := a.draftManager()
			if err != nil {
				return err
			}
			defer mgr.Close()

			values, _, err := mgr.Resolve(ctx, func(r draft.Record) (bool, error) {
				return a.confirm(fmt.Sprintf("A saved draft for %q was found. Load it?", r[draft.FieldName]))
			})
			if err != nil {
				return err
			}
			if values == nil {
				values = draft.Record{}
			}

			if err := a.fillForm(values, mgr.Touch); err != nil {
				mgr.Flush()
				return err
			}

			created, err := a.submit(ctx, values, func(in models.CountryInput) (*models.Country, error) {
				return a.client.CreateCountry(ctx, in)
			})
			if err != nil {
				if saveErr := mgr.Save(ctx, values); saveErr != nil {
					a.log.WarnContext(ctx, "failed to keep draft", "error", saveErr)
				}
				return err
			}
			if err := mgr.Clear(ctx); err != nil {
				a.log.WarnContext(ctx, "failed to clear draft", "error", err)
			}
			return printCountry(a.out, created)
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a country interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.client.GetCountry(ctx, id)
			if err != nil {
				return err
			}
			values := draft.FromCountry(current)
			if err := a.fillForm(values, nil); err != nil {
				return err
			}
			updated, err := a.submit(ctx, values, func(in models.CountryInput) (*models.Country, error) {
				return a.client.UpdateCountry(ctx, id, in)
			})
			if err != nil {
				return err
			}
			return printCountry(a.out, updated)
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := a.confirm("Are you sure you want to delete this country?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, "Cancelled")
					return nil
				}
			}
			return a.client.DeleteCountry(cmd.Context(), id)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create countries in bulk from a YAML or JSON list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var inputs []models.CountryInput
			if err := yaml.Unmarshal(raw, &inputs); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			created, err := a.client.BulkCreate(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			return printTable(a.out, created)
		},
	}
}

// fillForm prompts for every field, starting from values. onChange sees
// the form after each answer.
func (a *app) fillForm(values draft.Record, onChange func(draft.Record)) error {
	for _, field := range draft.Fields {
		v, err := a.prompt(fieldLabels[field], values[field])
		if err != nil {
			return err
		}
		values[field] = v
		if onChange != nil {
			onChange(values)
		}
	}
	return nil
}

// submit converts the form and sends it. Conversion failures are shown the
// same way the client shows server rejections.
func (a *app) submit(ctx context.Context, values draft.Record, send func(models.CountryInput) (*models.Country, error)) (*models.Country, error) {
	in, err := values.Input()
	if err != nil {
		msg := err.Error()
		if de, ok := dErrors.As(err); ok {
			msg = de.Message
		}
		a.notifier.Show("Failed to save country: "+msg, notify.Error)
		return nil, err
	}
	return send(in)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid country ID: %s", s)
	}
	return id, nil
}
