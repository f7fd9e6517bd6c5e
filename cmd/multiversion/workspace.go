package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/nebari-dev/multiversion/internal/api"
	"github.com/nebari-dev/multiversion/internal/audit"
	"github.com/nebari-dev/multiversion/internal/config"
	"github.com/nebari-dev/multiversion/internal/db"
	"github.com/nebari-dev/multiversion/internal/flash"
	"github.com/nebari-dev/multiversion/internal/form"
	"github.com/nebari-dev/multiversion/internal/logger"
	"github.com/nebari-dev/multiversion/internal/models"
	"github.com/nebari-dev/multiversion/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces",
}

var wsAddMachineName string

var workspaceAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Create a workspace",
	Long: `Create a workspace. The machine name is derived from the label
unless given explicitly, and cannot be changed afterwards.

Examples:
  multiversion workspace add "Staging"
  multiversion workspace add "QA Team" --machine-name qa`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		return addWorkspace(cmd.Context(), env, cmd.OutOrStdout(), form.Input{Label: args[0], MachineName: wsAddMachineName})
	},
}

var wsEditLabel string

var workspaceEditCmd = &cobra.Command{
	Use:   "edit <id|machine-name>",
	Short: "Change a workspace label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		return editWorkspace(cmd.Context(), env, cmd.OutOrStdout(), args[0], wsEditLabel)
	},
}

var workspaceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workspaces",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		return listWorkspaces(cmd.Context(), env, cmd.OutOrStdout())
	},
}

var workspaceShowCmd = &cobra.Command{
	Use:   "show <id|machine-name>",
	Short: "Show a workspace and its edit form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		return showWorkspace(cmd.Context(), env, cmd.OutOrStdout(), args[0])
	},
}

var wsDeleteForce bool

var workspaceDeleteCmd = &cobra.Command{
	Use:     "delete <id|machine-name>",
	Aliases: []string{"rm"},
	Short:   "Delete a workspace",
	Long: `Delete a workspace. Asks for confirmation when run from a terminal;
non-interactive callers must pass --force.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wsDeleteForce {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("refusing to delete %q without --force", args[0])
			}
			if !confirmDelete(os.Stdin, os.Stderr, args[0]) {
				fmt.Fprintln(os.Stderr, "Aborted.")
				return nil
			}
		}
		env, err := openEnv()
		if err != nil {
			return err
		}
		return deleteWorkspace(cmd.Context(), env, cmd.OutOrStdout(), args[0])
	},
}

func init() {
	workspaceAddCmd.Flags().StringVarP(&wsAddMachineName, "machine-name", "m", "", "Machine name (default: derived from label)")
	workspaceEditCmd.Flags().StringVarP(&wsEditLabel, "label", "l", "", "New label")
	_ = workspaceEditCmd.MarkFlagRequired("label")
	workspaceDeleteCmd.Flags().BoolVarP(&wsDeleteForce, "force", "f", false, "Delete without prompting")

	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceEditCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceShowCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)
	workspaceCmd.AddCommand(workspaceImportCmd)
}

// cliEnv holds what workspace commands operate on.
type cliEnv struct {
	repo  *store.WorkspaceRepository
	audit *audit.Logger
}

// openEnv connects to the configured database. Tests replace it.
var openEnv = func() (*cliEnv, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, err
	}

	// Keep stdout for command output
	slog.SetDefault(logger.New(os.Stderr, cfg.Log.Format, cfg.Log.Level))
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "error"
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		return nil, err
	}
	return &cliEnv{repo: store.NewWorkspaceRepository(database), audit: audit.New(database)}, nil
}

func (e *cliEnv) editor() (*form.WorkspaceEditor, *flash.Collector) {
	messages := flash.NewCollector()
	return form.NewWorkspaceEditor(form.Deps{
		Repository: e.repo,
		Logger:     slog.Default(),
		Messages:   messages,
		Router:     api.Paths{Prefix: api.Prefix},
		Audit:      e.audit,
	}), messages
}

func printMessages(w io.Writer, msgs []flash.Message) {
	for _, m := range msgs {
		if m.Severity == flash.SeverityStatus {
			fmt.Fprintln(w, m.Text)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", m.Severity, m.Text)
	}
}

// reportSubmit prints the outcome of a submission and turns form errors
// into a single command error.
func reportSubmit(w io.Writer, messages *flash.Collector, err error) error {
	printMessages(w, messages.Messages())
	if err == nil {
		return nil
	}

	var ve *form.ValidationError
	if errors.As(err, &ve) {
		for _, field := range ve.Errors.Fields() {
			fmt.Fprintf(w, "  %s: %s\n", field, ve.Errors[field])
		}
		return fmt.Errorf("workspace is invalid")
	}
	return err
}

func addWorkspace(ctx context.Context, env *cliEnv, w io.Writer, in form.Input) error {
	editor, messages := env.editor()
	_, err := editor.Submit(ctx, &models.Workspace{}, in)
	return reportSubmit(w, messages, err)
}

func editWorkspace(ctx context.Context, env *cliEnv, w io.Writer, ref, label string) error {
	ws, err := env.repo.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("workspace %q: %w", ref, err)
	}
	editor, messages := env.editor()
	_, err = editor.Submit(ctx, ws, form.Input{Label: label})
	return reportSubmit(w, messages, err)
}

func listWorkspaces(ctx context.Context, env *cliEnv, w io.Writer) error {
	workspaces, err := env.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		fmt.Fprintln(w, "No workspaces found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MACHINE NAME\tLABEL\tID\tUPDATED")
	for _, ws := range workspaces {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ws.MachineName, ws.Label, ws.ID, ws.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func showWorkspace(ctx context.Context, env *cliEnv, w io.Writer, ref string) error {
	ws, err := env.repo.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("workspace %q: %w", ref, err)
	}
	editor, _ := env.editor()

	fmt.Fprintln(w, editor.Title(ws))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  id\t%s\n", ws.ID)
	fmt.Fprintf(tw, "  bundle\t%s\n", ws.BundleName())
	for _, f := range editor.RenderFields(ws) {
		note := ""
		if f.Disabled {
			note = " (locked)"
		}
		fmt.Fprintf(tw, "  %s\t%s%s\n", f.Name, f.Default, note)
	}
	return tw.Flush()
}

// confirmDelete prompts on w and reads the answer from r.
func confirmDelete(r io.Reader, w io.Writer, ref string) bool {
	fmt.Fprintf(w, "Delete workspace %s? [y/N] ", ref)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func deleteWorkspace(ctx context.Context, env *cliEnv, w io.Writer, ref string) error {
	ws, err := env.repo.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("workspace %q: %w", ref, err)
	}
	editor, messages := env.editor()
	if err := editor.Delete(ctx, ws); err != nil {
		return err
	}
	printMessages(w, messages.Messages())
	return nil
}
