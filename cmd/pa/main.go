package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"pa-cli/internal/app"
	"pa-cli/pkg/models"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

var rootCmd = &cobra.Command{
	Use:   "pa [prompt] [args...]",
	Short: "Assemble prompts from layered TOML configuration",
	Long: `pa assembles prompts defined in config.toml and conf.d/*.toml overlays.

A sequence prompt concatenates fragment files, filling numbered placeholders
like {0} from the arguments. A template prompt renders a template file against
a JSON or TOML data file given as the first argument; remaining arguments are
exposed to the template as _args.

Run without a prompt name on a terminal to pick one interactively. Piped
stdin becomes the first argument.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequest(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return application.Run(request)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pa version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  go version: %s\n", goVersion)
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List defined prompts",
	Long:  "List every prompt from the merged configuration, in definition order.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequest(cmd, nil)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return application.List(request)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <prompt>",
	Short: "Show a prompt's metadata",
	Long:  "Show a prompt's kind, description, tags, variables, and source. The JSON form includes the assembled content profile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequest(cmd, args)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return application.Show(request)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long:  "Load the configuration and report every collected error and warning.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequest(cmd, nil)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		return application.Validate(request)
	},
}

var partsCmd = &cobra.Command{
	Use:   "parts <file>...",
	Short: "Concatenate fragment files verbatim",
	Long:  "Concatenate the given fragment files without placeholder substitution. Relative paths resolve against the working directory, then the prompt path.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequest(cmd, nil)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		request.Files = args
		return application.Parts(request)
	},
}

var application = app.New()

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(partsCmd)

	// Global flags
	rootCmd.PersistentFlags().StringP("config-dir", "c", "", "configuration directory (default $XDG_CONFIG_HOME/pa)")
	rootCmd.PersistentFlags().StringP("target", "t", "", "output target (stdout, clipboard, file:/path)")
	rootCmd.PersistentFlags().BoolP("copy", "b", false, "copy output to the clipboard (shorthand for --target clipboard)")

	listCmd.Flags().Bool("json", false, "emit a machine-readable listing")
	showCmd.Flags().Bool("json", false, "emit machine-readable metadata with assembled content")
	validateCmd.Flags().Bool("json", false, "emit a machine-readable report")
}

// buildRequest constructs a Request from command flags and arguments.
func buildRequest(cmd *cobra.Command, args []string) (*models.Request, error) {
	request := &models.Request{}

	if len(args) > 0 {
		request.Prompt = args[0]
		request.Args = args[1:]
	}

	var err error
	if request.ConfigDir, err = cmd.Flags().GetString("config-dir"); err != nil {
		return nil, fmt.Errorf("invalid config-dir flag: %w", err)
	}
	if request.Target, err = cmd.Flags().GetString("target"); err != nil {
		return nil, fmt.Errorf("invalid target flag: %w", err)
	}
	if copyFlag, err := cmd.Flags().GetBool("copy"); err == nil && copyFlag {
		if request.Target != "" && request.Target != "clipboard" {
			return nil, fmt.Errorf("cannot use both --copy and --target %s", request.Target)
		}
		request.Target = "clipboard"
	}
	if cmd.Flags().Lookup("json") != nil {
		if request.JSON, err = cmd.Flags().GetBool("json"); err != nil {
			return nil, fmt.Errorf("invalid json flag: %w", err)
		}
	}

	return request, nil
}

func main() {
	// Disable usage on error to show only our custom error messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		var exit *app.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
