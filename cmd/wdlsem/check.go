package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gowdl/wdlsem"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.wdl>...",
	Short: "Analyze one or more WDL documents and print their diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("warnings-as-errors", false, "exit non-zero on a Warning diagnostic too, not only Error")
}

// runCheck resolves each argument to an absolute path, roots it with the
// analyzer, runs one quiescence pass, and prints every root document's
// diagnostics. It exits non-zero (via the returned error) if any printed
// diagnostic is an Error, or a Warning when --warnings-as-errors is set.
func runCheck(cmd *cobra.Command, args []string) error {
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return err
	}

	uris := make([]string, len(args))
	files := span.NewSet()
	for i, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return errors.Wrapf(err, "resolving %q", arg)
		}
		src, err := os.ReadFile(abs)
		if err != nil {
			return errors.Wrapf(err, "reading %q", arg)
		}
		uris[i] = abs
		files.AddFile(abs, src)
	}

	opts, err := resolveOptions(filepath.Dir(uris[0]))
	if err != nil {
		return err
	}

	a := analyzer.New(analyzer.FileFetcher(), opts...)
	a.AddDocuments(uris...)
	if err := a.WaitUntilQuiescent(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}

	hasFailure := false
	for _, uri := range uris {
		view, ok := a.Document(uri)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: not analyzed (fetch or parse failure)\n", uri)
			hasFailure = true
			continue
		}
		for _, d := range view.Diagnostics() {
			printDiagnostic(cmd, files, d)
			if d.Severity == diag.Error || (warningsAsErrors && d.Severity == diag.Warning) {
				hasFailure = true
			}
		}
	}

	if hasFailure {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errors.New("")
	}
	return nil
}

func printDiagnostic(cmd *cobra.Command, files *span.Set, d diag.Diagnostic) {
	pos := files.Position(d.Primary.Span)
	fmt.Fprintf(cmd.OutOrStdout(), "%s:%s: %s: [%s] %s\n",
		d.Primary.Span.URI, pos, d.Severity, d.RuleID, d.Primary.Message)
	for _, sec := range d.Secondary {
		secPos := files.Position(sec.Span)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s:%s: note: %s\n", sec.Span.URI, secPos, sec.Message)
	}
	if d.Fix != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  fix: %s\n", d.Fix)
	}
}
