package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kopimi-kafe/backend/internal/domain"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import the whole shop data",
	}
	cmd.AddCommand(newSnapshotExportCmd(a), writes(newSnapshotImportCmd(a)))
	return cmd
}

func newSnapshotExportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the snapshot as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := encodeSnapshot(a.store.Snapshot().Redacted(), format)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = a.out.Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	return cmd
}

func newSnapshotImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the whole snapshot with the contents of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			format := "json"
			if ext := strings.ToLower(filepath.Ext(args[0])); ext == ".yaml" || ext == ".yml" {
				format = "yaml"
			}
			snapshot, err := decodeSnapshot(data, format)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			snapshot.KeepMemberSecrets(a.store.Snapshot())
			if err := a.store.Replace(snapshot); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "imported %d menu items, %d baristas\n", len(snapshot.MenuItems), len(snapshot.Baristas))
			return nil
		},
	}
}

// encodeSnapshot goes through JSON first so YAML output uses the same field
// names as the API.
func encodeSnapshot(snapshot *domain.Snapshot, format string) ([]byte, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}

	switch format {
	case "json":
		return append(data, '\n'), nil
	case "yaml":
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q, want json or yaml", format)
	}
}

func decodeSnapshot(data []byte, format string) (*domain.Snapshot, error) {
	if format == "yaml" {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return nil, err
		}
	}

	snapshot := &domain.Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
