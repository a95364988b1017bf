package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dzjyyds666/aqtoml/pkg"
)

type RootParams struct {
	Verbose bool   `json:"verbose"` // 输出调试日志
	Color   string `json:"color"`   // auto / always / never
}

var rootParams = &RootParams{}

var rootCmd = &cobra.Command{
	Use:           "aq",
	Short:         "Aq is a tool for processing various types of data.",
	Long:          "Aq is a tool for processing various types of data. It reads TOML documents, queries them by key and converts them to and from YAML and JSON.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := pkg.NewLogger(cmd.ErrOrStderr(), rootParams.Verbose)
		cmd.SetContext(pkg.WithLogger(cmd.Context(), logger))
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Aq",
	Long:  `All software has versions. This is Aq's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aq v0.2 -- HEAD")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootParams.Verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&rootParams.Color, "color", "auto", "colorize errors and diffs: auto, always or never")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tomlCmd)
}

// useColor 判断是否给 w 的输出着色
func useColor(w io.Writer) bool {
	switch rootParams.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return !color.NoColor && isatty.IsTerminal(f.Fd())
}

func paint(w io.Writer, attr color.Attribute) *color.Color {
	c := color.New(attr)
	if useColor(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func printError(w io.Writer, err error) {
	paint(w, color.FgRed).Fprintln(w, "Error:", err)
}
