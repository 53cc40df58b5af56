package report

import (
	"bufio"
	"fmt"
	"io"

	"toukei/internal/model"
	"toukei/internal/stats"
)

// funcMarker 是 TSV 中函数统计行的首列标记。
const funcMarker = "FUNC"

// PrintTSV 以制表符分隔的文本输出扫描结果，便于脚本消费。
//
// 每个语言一行：name files total code comment blank；随后是 TOTAL 行；
// 开启函数统计时再输出 FUNC name count mean min max median，均值与中位数保留两位小数。
// TSV 的列固定不变，不受 ignore 选项影响。
func PrintTSV(writer io.Writer, result model.ScanResult, options Options) error {
	buffered := bufio.NewWriter(writer)
	entries := result.Languages.Sorted()

	for _, entry := range entries {
		if _, err := fmt.Fprintf(buffered, "%s\t%d\t%d\t%d\t%d\t%d\n",
			entry.Name,
			entry.Files,
			entry.Metrics.Total,
			entry.Metrics.Code,
			entry.Metrics.Comment,
			entry.Metrics.Blank,
		); err != nil {
			return err
		}
	}

	total := result.Total()
	if _, err := fmt.Fprintf(buffered, "TOTAL\t%d\t%d\t%d\t%d\t%d\n",
		total.Files, total.Total, total.Code, total.Comment, total.Blank); err != nil {
		return err
	}

	if options.FunctionStats {
		for _, entry := range entries {
			summary, ok := stats.Summarize(entry.FunctionLengths)
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(buffered, "%s\t%s\t%d\t%.2f\t%d\t%d\t%.2f\n",
				funcMarker,
				entry.Name,
				summary.Count,
				summary.Mean,
				summary.Min,
				summary.Max,
				summary.Median,
			); err != nil {
				return err
			}
		}
	}

	return buffered.Flush()
}
