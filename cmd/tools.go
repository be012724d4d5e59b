package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"azmcp/internal/color"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and call the tools the server would expose",
	}
	toolsCmd.AddCommand(newToolsListCmd())
	toolsCmd.AddCommand(newToolsCallCmd())
	return toolsCmd
}

func newToolsListCmd() *cobra.Command {
	var flags exposureFlags
	var output string
	var width int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tools exposed by the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApplication(&flags)
			if err != nil {
				return err
			}
			defer application.Close()

			tools, err := application.Services().Runtime.ListTools(commandContext(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tools)
			case "table", "":
				_, err := io.WriteString(out, renderToolTable(tools, width))
				return err
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	cmd.Flags().IntVar(&width, "width", 120, "Maximum table width; descriptions are truncated to fit")
	return cmd
}

func newToolsCallCmd() *cobra.Command {
	var flags exposureFlags
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Call one tool and print its JSON response",
		Example: `  azmcp tools call kv.key.list --args '{"subscription":"my-sub","vault":"my-vault"}'
  azmcp tools call azure --mode single --args '{"learn":true}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var toolArgs map[string]any
			if strings.TrimSpace(rawArgs) != "" {
				if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
					return fmt.Errorf("--args must be a JSON object: %w", err)
				}
			}

			application, err := buildApplication(&flags)
			if err != nil {
				return err
			}
			defer application.Close()

			resp := application.Services().Runtime.Invoke(commandContext(cmd), args[0], toolArgs)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("tool %s failed with status %d", args[0], resp.Status)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&rawArgs, "args", "", "Tool arguments as a JSON object")
	return cmd
}

const (
	hintReadOnly    = "read-only"
	hintDestructive = "destructive"
)

// renderToolTable prints one line per tool. Only the first line of each
// description is shown, truncated so rows fit in width cells.
func renderToolTable(tools []mcp.Tool, width int) string {
	if len(tools) == 0 {
		return color.MutedStyle.Render("No tools exposed.") + "\n"
	}

	headers := []string{"NAME", "HINTS", "DESCRIPTION"}
	rows := make([][]string, 0, len(tools))
	nameWidth, hintWidth := runewidth.StringWidth(headers[0]), runewidth.StringWidth(headers[1])
	for _, tool := range tools {
		hint := toolHint(tool)
		description, _, _ := strings.Cut(strings.TrimSpace(tool.Description), "\n")
		rows = append(rows, []string{tool.Name, hint, description})
		nameWidth = max(nameWidth, runewidth.StringWidth(tool.Name))
		hintWidth = max(hintWidth, runewidth.StringWidth(hint))
	}

	const gap = 2
	descWidth := width - nameWidth - hintWidth - 2*gap
	if descWidth < 10 {
		descWidth = 10
	}

	var b strings.Builder
	writeRow := func(cells []string, styleCell func(i int, s string) string) {
		widths := []int{nameWidth, hintWidth}
		for i, cell := range cells {
			if i < len(widths) {
				b.WriteString(styleCell(i, runewidth.FillRight(cell, widths[i])))
				b.WriteString(strings.Repeat(" ", gap))
				continue
			}
			b.WriteString(styleCell(i, runewidth.Truncate(cell, descWidth, "…")))
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(_ int, s string) string { return color.HeaderStyle.Render(s) })
	for _, row := range rows {
		writeRow(row, func(i int, s string) string {
			if i != 1 {
				return s
			}
			switch strings.TrimSpace(s) {
			case hintReadOnly:
				return color.ReadOnlyStyle.Render(s)
			case hintDestructive:
				return color.DestructiveStyle.Render(s)
			default:
				return color.MutedStyle.Render(s)
			}
		})
	}
	return b.String()
}

func toolHint(tool mcp.Tool) string {
	a := tool.Annotations
	switch {
	case a.ReadOnlyHint != nil && *a.ReadOnlyHint:
		return hintReadOnly
	case a.DestructiveHint != nil && *a.DestructiveHint:
		return hintDestructive
	default:
		return "-"
	}
}
