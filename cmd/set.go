package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ccxrename/internal/config"
	"github.com/oakwood-commons/ccxrename/internal/store"
)

func newSetCmd(o *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Rename without the TUI and print the committed name",
		Example: "  ccxrename set 'Physics 102' --url http://localhost:8000/rename --name 'Physics 101'\n" +
			"  CCXRENAME_URL=http://localhost:8000/rename ccxrename set 'Physics 102' --json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runSet(cmd.OutOrStdout(), args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, `print the record as {"name": ...}`)
	return cmd
}

// runSet applies the widget's save rules: blank input is rejected, an
// unchanged name is a no-op, anything else is posted and then committed.
func (o *rootOptions) runSet(w io.Writer, raw string, asJSON bool) error {
	if err := config.Validate(o.cfg); err != nil {
		return err
	}
	lgr := o.logger()
	st := store.NewSeeded(o.cfg.DisplayName)

	name, err := st.Validate(raw)
	switch {
	case errors.Is(err, store.ErrUnchanged):
		lgr.V(1).Info("display name unchanged, nothing to send", "name", name)
	case err != nil:
		return fmt.Errorf("set display name: %w", err)
	default:
		client, err := o.newClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(o.ctx, o.cfg.Endpoint.Timeout.Duration)
		defer cancel()
		if err := client.Rename(ctx, name); err != nil {
			return fmt.Errorf("set display name: %w", err)
		}
		st.SetDisplayName(name)
		lgr.Info("display name saved", "name", name)
	}

	if asJSON {
		_, err = fmt.Fprintf(w, "%s\n", st.CurrentNameJSON())
		return err
	}
	current, _ := st.CurrentName()
	_, err = fmt.Fprintln(w, current)
	return err
}
