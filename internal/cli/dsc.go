package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mgpai22/dscsub/internal/dsc"
	"github.com/spf13/cobra"
)

var dscCmd = &cobra.Command{
	Use:   "dsc",
	Short: "Inspect and rewrite DSC scripts",
}

var dscDumpCmd = &cobra.Command{
	Use:   "dump [dsc_file]",
	Short: "Print the header and every command of a DSC script",
	Args:  cobra.ExactArgs(1),
	RunE:  runDSCDump,
}

var dscCopyCmd = &cobra.Command{
	Use:   "copy [input] [output]",
	Short: "Re-encode a DSC script, optionally dropping commands",
	Long: `Decode a DSC script and encode it again, keeping its header.

Examples:
  dscsub dsc copy pv_001_hard.dsc out.dsc
  dscsub dsc copy pv_001_hard.dsc lyrics_only.dsc --drop LYRIC --drop EDIT_LYRIC`,
	Args: cobra.ExactArgs(2),
	RunE: runDSCCopy,
}

func init() {
	rootCmd.AddCommand(dscCmd)
	dscCmd.AddCommand(dscDumpCmd)
	dscCmd.AddCommand(dscCopyCmd)

	dscDumpCmd.Flags().
		StringSlice("only", nil, "Only print commands with these names")
	dscCopyCmd.Flags().
		StringSlice("drop", nil, "Command names to leave out")
}

// resolves command names against the opcode table
func opcodeSet(names []string) (map[int32]bool, error) {
	set := make(map[int32]bool, len(names))
	for _, name := range names {
		op, ok := dsc.DefaultTable().LookupName(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown command name %q", name)
		}
		set[op.ID] = true
	}
	return set, nil
}

func runDSCDump(cmd *cobra.Command, args []string) error {
	only, _ := cmd.Flags().GetStringSlice("only")
	filter, err := opcodeSet(only)
	if err != nil {
		return err
	}

	fd, err := dsc.Open(args[0])
	if err != nil {
		return err
	}
	defer func() {
		_ = fd.Close()
	}()

	header, err := fd.Header()
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	fmt.Fprintf(out, "header: %x\n", header)
	count := 0
	for c, err := range fd.All() {
		if err != nil {
			return fmt.Errorf("after %d commands: %w", count, err)
		}
		count++
		if len(filter) > 0 && !filter[c.ID] {
			continue
		}
		fmt.Fprintln(out, c.String())
	}
	fmt.Fprintf(out, "%d commands\n", count)
	return nil
}

func runDSCCopy(cmd *cobra.Command, args []string) error {
	drop, _ := cmd.Flags().GetStringSlice("drop")
	dropSet, err := opcodeSet(drop)
	if err != nil {
		return err
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to stat DSC file: %w", err)
	}
	// an empty script has no header to carry over
	if info.Size() == 0 {
		if err := os.WriteFile(args[1], nil, 0644); err != nil {
			return fmt.Errorf("failed to create DSC file: %w", err)
		}
		logger.Infow("Wrote empty DSC script", "output", args[1])
		return nil
	}

	header, cmds, err := dsc.ReadFile(args[0])
	if err != nil {
		return err
	}

	kept := cmds[:0]
	for _, c := range cmds {
		if !dropSet[c.ID] {
			kept = append(kept, c)
		}
	}

	if err := dsc.WriteFile(args[1], header, kept); err != nil {
		return err
	}

	logger.Infow("Wrote DSC script",
		"output", args[1],
		"commands", len(kept),
		"dropped", len(cmds)-len(kept),
	)
	return nil
}
