package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/cli"
	"github.com/hlop3z/fkmig/internal/migfile"
	"github.com/hlop3z/fkmig/pkg/fkmig"
)

// actionFlag is a pflag.Value holding a referential action.
type actionFlag struct {
	action fkmig.Action
}

var _ pflag.Value = (*actionFlag)(nil)

func (f *actionFlag) String() string {
	if f.action.IsNone() {
		return "none"
	}
	return string(f.action)
}

func (f *actionFlag) Set(s string) error {
	a, err := fkmig.ParseAction(s)
	if err != nil {
		return err
	}
	f.action = a
	return nil
}

func (f *actionFlag) Type() string {
	return "action"
}

// withClient opens a client, runs fn and closes the client.
func withClient(fn func(*fkmig.Client) error) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

// foreignKeysCmd lists the foreign keys of a table.
func foreignKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "foreign-keys TABLE",
		Aliases: []string{"fks"},
		Short:   "List the foreign keys of a table",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *fkmig.Client) error {
				fks, err := client.ForeignKeys(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(fks) == 0 {
					fmt.Fprintf(out, "Table '%s' has no foreign keys\n", args[0])
					return nil
				}
				fmt.Fprint(out, cli.ForeignKeyTable(fks).String())
				fmt.Fprintf(out, "\n%s\n", cli.Dim(cli.FormatCount(len(fks), "foreign key", "foreign keys")))
				return nil
			})
		},
	}
}

// addForeignKeyCmd adds a foreign key.
func addForeignKeyCmd() *cobra.Command {
	var (
		column     string
		primaryKey string
		name       string
		onDelete   actionFlag
		onUpdate   actionFlag
	)

	cmd := &cobra.Command{
		Use:   "add-foreign-key FROM TO",
		Short: "Add a foreign key from one table to another",
		Long: `Add a foreign key constraint to FROM referencing TO.

The column defaults to the singular of TO followed by _id, the primary key to
the primary key of TO, and the name to FROM_COLUMN_fk.`,
		Example: `  fkmig add-foreign-key houses cities
  fkmig add-foreign-key houses people --column owner_id --on-delete cascade`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := fkmig.ForeignKeyOptions{
				Column:     column,
				PrimaryKey: primaryKey,
				Name:       name,
				OnDelete:   onDelete.action,
				OnUpdate:   onUpdate.action,
			}
			return withClient(func(client *fkmig.Client) error {
				if err := client.AddForeignKey(args[0], args[1], opts); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("added foreign key from %s to %s", cli.Code(args[0]), cli.Code(args[1]))))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Referencing column (default <singular TO>_id)")
	cmd.Flags().StringVar(&primaryKey, "primary-key", "", "Referenced column (default primary key of TO)")
	cmd.Flags().StringVar(&name, "name", "", "Constraint name (default <FROM>_<column>_fk)")
	cmd.Flags().Var(&onDelete, "on-delete", "Action on delete: restrict, cascade, nullify or none")
	cmd.Flags().Var(&onUpdate, "on-update", "Action on update: restrict, cascade, nullify or none")
	return cmd
}

// removeForeignKeyCmd removes a foreign key chosen by exactly one selector.
func removeForeignKeyCmd() *cobra.Command {
	var (
		column string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "remove-foreign-key FROM [TO]",
		Short: "Remove a foreign key",
		Example: `  fkmig remove-foreign-key houses cities
  fkmig remove-foreign-key houses --column owner_id
  fkmig remove-foreign-key houses --name houses_owner_id_fk`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var selectors []fkmig.Selector
			if len(args) == 2 {
				selectors = append(selectors, fkmig.ByTable(args[1]))
			}
			if column != "" {
				selectors = append(selectors, fkmig.ByColumn(column))
			}
			if name != "" {
				selectors = append(selectors, fkmig.ByName(name))
			}
			if len(selectors) != 1 {
				return alerr.Newf(alerr.ErrInvalidOption,
					"expected exactly one of TO, --column or --name, got %d", len(selectors)).
					WithTable(args[0])
			}

			return withClient(func(client *fkmig.Client) error {
				if err := client.RemoveForeignKey(args[0], selectors[0]); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("removed foreign key of %s (%s)", cli.Code(args[0]), selectors[0].Describe())))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Select the foreign key by its column")
	cmd.Flags().StringVar(&name, "name", "", "Select the foreign key by its constraint name")
	cmd.MarkFlagsMutuallyExclusive("column", "name")
	return cmd
}

// dumpCmd prints the foreign keys of tables as add_foreign_key lines.
func dumpCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump TABLE...",
		Short: "Print the foreign keys of tables as add_foreign_key lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *fkmig.Client) error {
				text, err := client.Dump(args...)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					fmt.Fprint(cmd.OutOrStdout(), text)
					return nil
				}
				if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
					return alerr.Wrap(alerr.ErrFileWrite, err, "failed to write dump").
						With("file", output)
				}
				lines := strings.Count(text, "\n")
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("wrote %s to %s", cli.FormatCount(lines, "foreign key", "foreign keys"), output)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// loadCmd applies add_foreign_key lines from a file.
func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Apply add_foreign_key lines produced by dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return alerr.Wrap(alerr.ErrFileRead, err, "failed to read dump").
					With("file", args[0])
			}
			return withClient(func(client *fkmig.Client) error {
				if err := client.Load(string(data)); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("loaded "+args[0]))
				return nil
			})
		},
	}
}

// migrateCmd runs a YAML migration file up or down.
func migrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate FILE",
		Short: "Run a YAML migration file",
		Long: `Run the changes of a YAML migration file in order, or revert them in
reverse order with --down. A migration with an irreversible change cannot be
reverted and executes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := fkmig.Up
			if down {
				dir = fkmig.Down
			}

			m, err := migfile.Load(args[0])
			if err != nil {
				return err
			}

			return withClient(func(client *fkmig.Client) error {
				if err := client.Run(m, dir); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				ops := m.Operations(dir)
				fmt.Fprintf(out, "%s %s\n", cli.Header("Migration "+m.Name), cli.Dim(dir.String()))
				for i, op := range ops {
					fmt.Fprint(out, cli.FormatStep(i+1, len(ops), op))
				}
				fmt.Fprint(out, cli.FormatSuccess(
					fmt.Sprintf("applied %s", cli.FormatCount(len(ops), "operation", "operations"))))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Revert the migration")
	return cmd
}
