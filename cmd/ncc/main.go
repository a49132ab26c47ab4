package main

import (
	"fmt"
	"io"
	"os"

	"github.com/raymyers/uvm-ncc/pkg/preproc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "0.1.0"

// Preprocessor options
var (
	configPath    string
	outputPath    string
	includeRoot   string
	defineFlags   []string
	undefineFlags []string
	strictParams  bool
	maxDepth      int
	verbose       bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ncc [file]",
		Short: "ncc preprocesses source files for the UVM toolchain",
		Long: `ncc expands macros, resolves #ifndef/#else/#endif, inlines
#include files and strips comments, writing the flattened text
that the compiler front end tokenizes.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return doPreprocess(cmd.Flags(), args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVar(&configPath, "config", "", "Read options from a YAML file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to file instead of stdout")
	rootCmd.Flags().StringVarP(&includeRoot, "include-root", "I", "", "Directory <file> includes resolve under (default \"include\")")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	rootCmd.Flags().BoolVar(&strictParams, "strict-params", false, "Substitute macro parameters only as whole identifiers outside strings")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum include and macro nesting depth")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace includes and definitions on stderr")

	return rootCmd
}

// buildOptions loads the config file, if any, and applies flags that were
// set explicitly on top of it.
func buildOptions(flags *pflag.FlagSet, errOut io.Writer) (*preproc.Options, error) {
	opts := preproc.DefaultOptions()
	if configPath != "" {
		loaded, err := preproc.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}
	applyFlags(flags, opts)

	logger := logrus.New()
	logger.SetOutput(errOut)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	opts.Logger = logger

	return opts, opts.Validate()
}

func applyFlags(flags *pflag.FlagSet, opts *preproc.Options) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "include-root":
			opts.IncludeRoot = includeRoot
		case "define":
			opts.Defines = append(opts.Defines, defineFlags...)
		case "undefine":
			opts.Undefines = append(opts.Undefines, undefineFlags...)
		case "strict-params":
			opts.StrictParams = strictParams
		case "max-depth":
			opts.MaxDepth = maxDepth
		}
	})
}

// doPreprocess preprocesses filename and writes the result to out or -o.
func doPreprocess(flags *pflag.FlagSet, filename string, out, errOut io.Writer) error {
	opts, err := buildOptions(flags, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "ncc: %v\n", err)
		return err
	}

	var content string
	if preproc.NeedsPreprocessing(filename) {
		content, err = preproc.Preprocess(filename, opts)
		if err != nil {
			fmt.Fprintf(errOut, "ncc: preprocessing error: %v\n", err)
			return err
		}
	} else {
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(errOut, "ncc: error reading %s: %v\n", filename, err)
			return err
		}
		content = string(data)
	}

	if outputPath == "" {
		fmt.Fprint(out, content)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		fmt.Fprintf(errOut, "ncc: error writing %s: %v\n", outputPath, err)
		return err
	}
	return nil
}
