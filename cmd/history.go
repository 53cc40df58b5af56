package cmd

import (
	"fmt"
	"strconv"
	"time"

	"toukei/internal/languages"
	"toukei/internal/model"
	"toukei/internal/report"
	"toukei/internal/store"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// defaultHistoryDB 与 --output db 生成的文件名一致。
const defaultHistoryDB = report.DefaultOutputBase + ".db"

// newHistoryCmd 创建 history 子命令。
// 示例：
//
//	toukei history                     列出全部运行记录
//	toukei history <run-id> --functions 查看某次运行的完整报告
func newHistoryCmd(registry *languages.Registry) *cobra.Command {
	var dbPath string
	var functions bool

	historyCmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "查看通过 --output db 保存的历史统计",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if len(args) == 0 {
				runs, err := db.Runs(cmd.Context())
				if err != nil {
					return err
				}
				printRuns(cmd, runs)
				return nil
			}

			detail, err := db.LoadRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			// 历史库中保存的是 key 与当时的展示名，这里用当前注册表刷新名称。
			for key, entry := range detail.Languages {
				if _, ok := registry.Definition(key); ok {
					entry.Name = registry.Name(key)
				}
			}

			result := model.ScanResult{
				ScannedPath:   detail.ScannedPath,
				Languages:     detail.Languages,
				FunctionStats: functions,
			}
			return report.PrintTable(cmd.OutOrStdout(), result, report.Options{FunctionStats: functions})
		},
	}

	historyCmd.Flags().StringVar(&dbPath, "db", defaultHistoryDB, "历史数据库路径")
	historyCmd.Flags().BoolVar(&functions, "functions", false, "显示函数长度统计")

	return historyCmd
}

func printRuns(cmd *cobra.Command, runs []store.Run) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ID", "Created", "Path", "Files", "Total", "Code"})
	table.SetBorder(false)
	table.SetColumnSeparator("|")
	table.SetAutoFormatHeaders(false)

	for _, run := range runs {
		table.Append([]string{
			run.ID,
			run.CreatedAt.Local().Format(time.RFC3339),
			run.ScannedPath,
			strconv.FormatInt(run.Totals.Files, 10),
			strconv.FormatInt(run.Totals.Total, 10),
			strconv.FormatInt(run.Totals.Code, 10),
		})
	}
	table.Render()

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
	}
}
