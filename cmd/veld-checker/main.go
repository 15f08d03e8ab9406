// veld-checker drives the checker core from the command line: it reads
// a parsed module (CST JSON) and an environment manifest, runs the
// checker, and writes the module's interface for downstream consumers.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veldlang/veld/internal/checker"
	"github.com/veldlang/veld/internal/cst"
	"github.com/veldlang/veld/internal/iface"
)

// Version info - set by ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "veld-checker",
		Short:         "Type-check a veld module",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(checkCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("veld-checker %s (%s, built %s)\n", Version, Commit, BuildTime)
		},
	}
}

func checkCmd() *cobra.Command {
	var (
		envPath  string
		outPath  string
		binary   bool
		jsonDiag bool
	)
	cmd := &cobra.Command{
		Use:   "check <module.cst.json>",
		Short: "Check a parsed module and emit its interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment := checker.NewEnvironment()
			if envPath != "" {
				loaded, err := iface.LoadEnvironment(envPath)
				if err != nil {
					return err
				}
				environment = loaded
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cstModule, err := cst.UnmarshalModule(data)
			if err != nil {
				return err
			}

			module, warnings, err := checker.CheckModule(environment, cstModule)
			for _, warning := range warnings {
				printDiagnostic(checker.WarningReport(warning), jsonDiag)
			}
			if err != nil {
				typeError, ok := err.(checker.TypeError)
				if !ok {
					return err
				}
				printDiagnostic(checker.ErrorReport(typeError), jsonDiag)
				os.Exit(1)
			}

			moduleIface, err := iface.FromModule(module)
			if err != nil {
				return err
			}
			if outPath != "" {
				var encoded []byte
				if binary {
					encoded, err = iface.EncodeBinary(moduleIface)
				} else {
					encoded, err = iface.Encode(moduleIface)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
					return err
				}
			}

			if !jsonDiag {
				fmt.Printf("%s %s (%d types, %d values exported)\n",
					green("ok"), bold(module.ModuleName.String()),
					len(module.Exports.Types), len(module.Exports.Values))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&envPath, "env", "", "environment manifest (yaml) listing dependency interfaces")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the module interface to this path")
	cmd.Flags().BoolVar(&binary, "binary", false, "write the interface in the compact binary format")
	cmd.Flags().BoolVar(&jsonDiag, "json", false, "emit diagnostics as JSON, one per line")
	return cmd
}

func printDiagnostic(report *checker.Report, asJSON bool) {
	if asJSON {
		line, err := report.ToJSON(true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return
		}
		fmt.Println(line)
		return
	}
	label := yellow("warning")
	if report.Severity == "error" {
		label = red("error")
	}
	fmt.Fprintf(os.Stderr, "%s[%s]: %s", label, report.Code, report.Message)
	for _, span := range report.Spans {
		fmt.Fprintf(os.Stderr, "\n  at bytes %d..%d", span.Start, span.End)
	}
	fmt.Fprintln(os.Stderr)
}
