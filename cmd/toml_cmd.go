package cmd

import (
	"bytes"
	"time"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/aqtoml/parse"
	"github.com/dzjyyds666/aqtoml/parse/toml"
	"github.com/dzjyyds666/aqtoml/pkg"
)

type TomlParams struct {
	Find      string `json:"find"`       // 查找的key
	Input     string `json:"input"`      // 输入文件路径
	Output    string `json:"output"`     // 输出文件地址
	To        string `json:"to"`         // 输出格式
	Pretty    bool   `json:"pretty"`     // 美化输出
	NoneValue string `json:"none_value"` // 空值替代字符串
}

var params *TomlParams

var tomlCmd = &cobra.Command{
	Use:   "toml",
	Short: "toml parse tools",
	Long: `Read a TOML document, optionally narrow it to a dotted key path and print it
as TOML, YAML or JSON. Reads stdin when no input file is given.`,
	Example: `  aq toml -i config.toml -f servers.alpha --to json
  aq toml -i config.toml --none-value null -o out.toml`,
	RunE: tomlRun,
}

func init() {
	params = &TomlParams{}
	tomlCmd.Flags().StringVarP(&params.Find, "find", "f", "", "find")
	tomlCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input file path")
	tomlCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
	tomlCmd.Flags().StringVarP(&params.To, "to", "t", "", "output format: toml, yaml or json (default from the output extension, else toml)")
	tomlCmd.Flags().BoolVarP(&params.Pretty, "pretty", "p", false, "pretty output")
	tomlCmd.Flags().StringVar(&params.NoneValue, "none-value", "", "string that stands for null in both directions")

	tomlCmd.AddCommand(encodeCmd)
	tomlCmd.AddCommand(fmtCmd)
}

// noneOptions 只有显式给出 --none-value 时才启用空值替代
func noneOptions(cmd *cobra.Command, noneValue string) []toml.Option {
	if !cmd.Flags().Changed("none-value") {
		return nil
	}
	return []toml.Option{toml.WithNullSurrogate(noneValue)}
}

func outputFormat(to, output string) (parse.Format, error) {
	if to == "" {
		return parse.FormatOf(output, parse.FormatToml), nil
	}
	return parse.ParseFormat(to)
}

func tomlRun(cmd *cobra.Command, args []string) error {
	logger := pkg.LoggerFrom(cmd.Context())
	opts := noneOptions(cmd, params.NoneValue)

	to, err := outputFormat(params.To, params.Output)
	if err != nil {
		return err
	}

	in, err := pkg.OpenInput(params.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	start := time.Now()
	v, err := parse.ReadToml(in, params.Find, opts...)
	if err != nil {
		return err
	}
	logger.Debug("toml decoded", "input", params.Input, "find", params.Find, "elapsed", time.Since(start))

	out, err := parse.Render(v, to, params.Pretty, opts...)
	if err != nil {
		return err
	}
	logger.Debug("rendered", "format", to, "bytes", len(out))
	return pkg.WriteOutput(params.Output, withNewline(out), cmd.OutOrStdout())
}

// withNewline 单个值的输出没有结尾换行
func withNewline(b []byte) []byte {
	if len(b) == 0 || bytes.HasSuffix(b, []byte("\n")) {
		return b
	}
	return append(b, '\n')
}
