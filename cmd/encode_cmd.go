package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/aqtoml/parse"
	"github.com/dzjyyds666/aqtoml/pkg"
)

type EncodeParams struct {
	Input     string `json:"input"`      // 输入文件路径
	Output    string `json:"output"`     // 输出文件地址
	From      string `json:"from"`       // 输入格式 yaml / json
	Pretty    bool   `json:"pretty"`     // 美化输出
	NoneValue string `json:"none_value"` // 空值替代字符串
}

var encodeParams *EncodeParams

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "encode yaml or json as toml",
	Example: `  aq toml encode -i values.yaml --pretty
  cat data.json | aq toml encode --from json --none-value null`,
	RunE: encodeRun,
}

func init() {
	encodeParams = &EncodeParams{}
	encodeCmd.Flags().StringVarP(&encodeParams.Input, "input", "i", "", "input file path")
	encodeCmd.Flags().StringVarP(&encodeParams.Output, "output", "o", "", "output path")
	encodeCmd.Flags().StringVar(&encodeParams.From, "from", "", "input format: yaml or json (default from the input extension, else yaml)")
	encodeCmd.Flags().BoolVarP(&encodeParams.Pretty, "pretty", "p", false, "pretty output")
	encodeCmd.Flags().StringVar(&encodeParams.NoneValue, "none-value", "", "string written in place of null")
}

func encodeRun(cmd *cobra.Command, args []string) error {
	logger := pkg.LoggerFrom(cmd.Context())
	opts := noneOptions(cmd, encodeParams.NoneValue)

	from := parse.FormatOf(encodeParams.Input, parse.FormatYaml)
	if encodeParams.From != "" {
		var err error
		if from, err = parse.ParseFormat(encodeParams.From); err != nil {
			return err
		}
	}
	if from == parse.FormatToml {
		return fmt.Errorf("input is already toml, use `aq toml fmt`")
	}

	in, err := pkg.OpenInput(encodeParams.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	start := time.Now()
	v, err := parse.ReadStructured(in)
	if err != nil {
		return err
	}
	out, err := parse.Render(v, parse.FormatToml, encodeParams.Pretty, opts...)
	if err != nil {
		return err
	}
	logger.Debug("toml encoded", "from", from, "bytes", len(out), "elapsed", time.Since(start))
	return pkg.WriteOutput(encodeParams.Output, withNewline(out), cmd.OutOrStdout())
}
