package cmd

import (
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/dzjyyds666/aqtoml/parse/toml"
	"github.com/dzjyyds666/aqtoml/pkg"
)

type FmtParams struct {
	Input     string `json:"input"`      // 输入文件路径
	Output    string `json:"output"`     // 输出文件地址
	Pretty    bool   `json:"pretty"`     // 美化输出
	Diff      bool   `json:"diff"`       // 只输出差异
	NoneValue string `json:"none_value"` // 空值替代字符串
}

var fmtParams *FmtParams

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "rewrite toml in canonical form",
	Long: `Decode a TOML document and serialize it again: plain keys first, then
[tables] and [[arrays of tables]]. Comments and layout are not kept.`,
	RunE: fmtRun,
}

func init() {
	fmtParams = &FmtParams{}
	fmtCmd.Flags().StringVarP(&fmtParams.Input, "input", "i", "", "input file path")
	fmtCmd.Flags().StringVarP(&fmtParams.Output, "output", "o", "", "output path")
	fmtCmd.Flags().BoolVarP(&fmtParams.Pretty, "pretty", "p", false, "pretty output")
	fmtCmd.Flags().BoolVarP(&fmtParams.Diff, "diff", "d", false, "print a line diff against the input instead of the result")
	fmtCmd.Flags().StringVar(&fmtParams.NoneValue, "none-value", "", "string that stands for null in both directions")
}

func fmtRun(cmd *cobra.Command, args []string) error {
	logger := pkg.LoggerFrom(cmd.Context())
	opts := noneOptions(cmd, fmtParams.NoneValue)

	in, err := pkg.OpenInput(fmtParams.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	v, err := toml.Deserialize(string(src), opts...)
	if err != nil {
		return err
	}
	var out string
	if fmtParams.Pretty {
		out, err = toml.SerializePretty(v, opts...)
	} else {
		out, err = toml.Serialize(v, opts...)
	}
	if err != nil {
		return err
	}

	if !fmtParams.Diff {
		return pkg.WriteOutput(fmtParams.Output, []byte(out), cmd.OutOrStdout())
	}
	w := cmd.OutOrStdout()
	diff := lineDiff(string(src), out, useColor(w) && pkg.IsStdio(fmtParams.Output))
	logger.Debug("diff computed", "input", fmtParams.Input, "changed", diff != "")
	return pkg.WriteOutput(fmtParams.Output, []byte(diff), w)
}

// lineDiff 输出逐行差异，未变化的行不输出
func lineDiff(from, to string, colored bool) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		var c *color.Color
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, c = "-", del
		case diffpatch.DiffInsert:
			prefix, c = "+", ins
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			sb.WriteString(c.Sprint(prefix + line))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
