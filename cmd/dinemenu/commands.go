package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/dinemenu/internal/app"
	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/prefs"
	"github.com/five82/dinemenu/internal/publish"
	"github.com/five82/dinemenu/internal/setup"
	"github.com/five82/dinemenu/internal/ui"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "dinemenu",
		Short:         "Campus dining menus as polled sensors",
		Long:          `dinemenu polls DineOnCampus menus for configured dining locations and exposes item counts per location and category over HTTP and NATS.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ~/.config/dinemenu/config.toml)")

	root.AddCommand(
		newRunCmd(opts),
		newSetupCmd(opts),
		newReconfigureCmd(opts),
		newEntriesCmd(opts),
		newRefreshCmd(opts),
	)
	return root
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll every configured entry and serve entity state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{ConfigPath: opts.configPath, LogOutput: cmd.ErrOrStderr()})
		},
	}
}

func newSetupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Add a dining location interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The TUI owns the terminal, so logs are dropped.
			env, err := app.Load(app.Options{ConfigPath: opts.configPath, LogOutput: io.Discard})
			if err != nil {
				return err
			}
			loc, err := env.Config.Location()
			if err != nil {
				return err
			}
			flow := setup.NewFlow(env.Client, env.Entries, setup.Options{Location: loc, Logger: env.Logger})
			form, err := runWizard(cmd, ui.NewFlowWizard(flow), "dinemenu setup")
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), form, env.Entries.Path())
		},
	}
}

func newReconfigureCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconfigure <unique-id>",
		Short: "Edit the period selection of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Load(app.Options{ConfigPath: opts.configPath, LogOutput: io.Discard})
			if err != nil {
				return err
			}
			e, err := env.Entries.Get(args[0])
			if err != nil {
				return err
			}
			r := setup.NewReconfigure(e, env.Entries, env.Logger)
			form, err := runWizard(cmd, ui.NewReconfigureWizard(r), "dinemenu reconfigure: "+e.Title)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), form, env.Entries.Path())
		},
	}
}

func newEntriesCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List configured entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Load(app.Options{ConfigPath: opts.configPath, LogOutput: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			entries, err := env.Entries.List()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entriesJSON(entries))
			}
			return writeEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one refresh cycle of every entry and print entity state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Load(app.Options{ConfigPath: opts.configPath, LogOutput: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			entries, err := env.Entries.List()
			if err != nil {
				return err
			}
			rt, err := env.Runtime(nil, publish.Nop{})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"entities": rt.Sync(cmd.Context(), entries)})
		},
	}
}

func runWizard(cmd *cobra.Command, w ui.Wizard, title string) (setup.Form, error) {
	p := prefs.Load("")
	return ui.Run(ui.Options{
		Context:   cmd.Context(),
		Wizard:    w,
		Title:     title,
		ThemeName: p.Theme,
		PrefsPath: prefs.DefaultPath(),
	})
}

var errIncomplete = errors.New("setup did not complete")

func report(w io.Writer, form setup.Form, path string) error {
	switch form.Step {
	case setup.StepDone:
		fmt.Fprintf(w, "saved %s (%s) to %s\n", form.Entry.Title, form.Entry.UniqueID(), path)
		return nil
	case setup.StepAborted:
		return fmt.Errorf("aborted: %s", form.Error)
	}
	return errIncomplete
}

func writeEntries(w io.Writer, entries []entry.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIQUE ID\tTITLE\tMODE\tPERIODS")
	for _, e := range entries {
		mode, periods := "static", ""
		switch sel := e.Selection.(type) {
		case entry.Static:
			periods = sel.PeriodName
		case entry.Dynamic:
			mode = "dynamic"
			for i, win := range sel.Windows {
				if i > 0 {
					periods += ", "
				}
				periods += fmt.Sprintf("%s %s-%s", win.Name, win.Start, win.End)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.UniqueID(), e.Title, mode, periods)
	}
	return tw.Flush()
}

type entryJSON struct {
	UniqueID     string         `json:"unique_id"`
	Title        string         `json:"title"`
	SchoolID     string         `json:"school_id"`
	LocationID   string         `json:"location_id"`
	LocationName string         `json:"location_name"`
	Dynamic      bool           `json:"dynamic"`
	PeriodName   string         `json:"period_name,omitempty"`
	Windows      []entry.Window `json:"windows,omitempty"`
}

func entriesJSON(entries []entry.Entry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		v := entryJSON{
			UniqueID:     e.UniqueID(),
			Title:        e.Title,
			SchoolID:     e.SchoolID,
			LocationID:   e.LocationID,
			LocationName: e.LocationName,
			Dynamic:      e.Dynamic(),
		}
		switch sel := e.Selection.(type) {
		case entry.Static:
			v.PeriodName = sel.PeriodName
		case entry.Dynamic:
			v.Windows = sel.Windows
		}
		out = append(out, v)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
