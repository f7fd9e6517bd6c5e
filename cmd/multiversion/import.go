package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nebari-dev/multiversion/internal/form"
	"github.com/nebari-dev/multiversion/internal/models"
	"github.com/nebari-dev/multiversion/internal/store"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var workspaceImportCmd = &cobra.Command{
	Use:   "import <file|pattern>...",
	Short: "Create or relabel workspaces from YAML or TOML files",
	Long: `Read a list of workspaces and submit each one through the workspace form.
Entries whose machine name already exists get their label updated.
Arguments may be glob patterns, including ** (e.g. "seed/**/*.yaml").

YAML:
  workspaces:
    - label: Staging
      machine_name: staging

TOML:
  [[workspaces]]
  label = "Staging"
  machine_name = "staging"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandImportPatterns(args)
		if err != nil {
			return err
		}
		env, err := openEnv()
		if err != nil {
			return err
		}
		for _, path := range paths {
			if err := importWorkspaces(cmd.Context(), env, cmd.OutOrStdout(), path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

// expandImportPatterns resolves glob patterns to files. Arguments without
// glob characters are kept as they are so a missing file is reported by
// the parser.
func expandImportPatterns(patterns []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if !seen[pattern] {
				seen[pattern] = true
				paths = append(paths, pattern)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// importFile is the document read by `workspace import`.
type importFile struct {
	Workspaces []form.Input `yaml:"workspaces" toml:"workspaces"`
}

func parseImportFile(path string) ([]form.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc importFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported import format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Workspaces, nil
}

func importWorkspaces(ctx context.Context, env *cliEnv, w io.Writer, path string) error {
	entries, err := parseImportFile(path)
	if err != nil {
		return err
	}

	failed := 0
	for i, in := range entries {
		ws := &models.Workspace{}
		name := strings.TrimSpace(in.MachineName)
		if name == "" {
			name = form.MachineNameFromLabel(strings.TrimSpace(in.Label))
		}
		if existing, err := env.repo.GetByMachineName(ctx, name); err == nil {
			ws = existing
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		editor, messages := env.editor()
		_, err := editor.Submit(ctx, ws, in)
		if err := reportSubmit(w, messages, err); err != nil {
			fmt.Fprintf(w, "entry %d (%s): %v\n", i+1, name, err)
			failed++
		}
	}

	fmt.Fprintf(w, "Imported %d of %d workspaces.\n", len(entries)-failed, len(entries))
	if failed > 0 {
		return fmt.Errorf("%d workspaces could not be imported", failed)
	}
	return nil
}
