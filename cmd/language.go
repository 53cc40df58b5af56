package cmd

import (
	"strings"

	"toukei/internal/languages"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示当前已注册的语言、对应文件后缀以及是否支持函数长度统计。
func newLanguageCmd(registry *languages.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示已注册语言及后缀",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Key", "Language", "Extensions", "Functions"})
			table.SetBorder(false)
			table.SetColumnSeparator("|")
			table.SetAutoFormatHeaders(false)

			for _, item := range registry.Languages() {
				functions := "no"
				if item.Functions {
					functions = "yes"
				}
				table.Append([]string{string(item.Key), item.Name, strings.Join(item.Extensions, ", "), functions})
			}

			table.Render()
			return nil
		},
	}
}
