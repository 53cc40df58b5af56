package report

import (
	"fmt"
	"io"
	"strconv"

	"toukei/internal/model"
	"toukei/internal/stats"

	"github.com/olekukonko/tablewriter"
)

// PrintTable 使用表格展示扫描结果。
//
// 输出依次为：按总行数降序的语言表（末行为总计）、各语言占比、
// 可选的文件行数统计、可选的函数长度统计，以及扫描错误列表。
func PrintTable(writer io.Writer, result model.ScanResult, options Options) error {
	if _, err := fmt.Fprintf(writer, "Scanned path: %s\n\n", result.ScannedPath); err != nil {
		return err
	}

	entries := result.Languages.Sorted()
	total := result.Total()

	table := newTable(writer, countHeader(options))
	for _, entry := range entries {
		table.Append(countRow(entry.Name, entry.Files, entry.Metrics, options))
	}
	table.Append(countRow("TOTAL", total.Files, total.LineMetrics, options))
	table.Render()

	if len(entries) > 0 {
		if _, err := fmt.Fprintln(writer, "\n=== Breakdown ==="); err != nil {
			return err
		}
		breakdown := newTable(writer, percentHeader(options))
		for _, entry := range entries {
			breakdown.Append(percentRow(entry, options))
		}
		breakdown.Render()
	}

	if options.ShowStats {
		if err := printSummaryTable(writer, "=== File Lengths (lines) ===", entries, func(entry *model.LanguageTotals) []int {
			return entry.FileLengths
		}); err != nil {
			return err
		}
	}

	if options.FunctionStats {
		if err := printSummaryTable(writer, "=== Function Lengths (lines) ===", entries, func(entry *model.LanguageTotals) []int {
			return entry.FunctionLengths
		}); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		if _, err := fmt.Fprintln(writer, "\n=== Errors ==="); err != nil {
			return err
		}
		errorsTable := newTable(writer, []string{"Path", "Message"})
		for _, item := range result.Errors {
			errorsTable.Append([]string{item.Path, item.Error})
		}
		errorsTable.Render()
	}

	return nil
}

// printSummaryTable 输出样本统计表，空样本的语言不出现。
func printSummaryTable(writer io.Writer, title string, entries []*model.LanguageTotals, sample func(*model.LanguageTotals) []int) error {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		summary, ok := stats.Summarize(sample(entry))
		if !ok {
			continue
		}
		rows = append(rows, []string{
			entry.Name,
			strconv.Itoa(summary.Count),
			fmt.Sprintf("%.2f", summary.Mean),
			strconv.Itoa(summary.Max),
			strconv.Itoa(summary.Min),
			fmt.Sprintf("%.2f", summary.Median),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(writer, "\n%s\n", title); err != nil {
		return err
	}
	table := newTable(writer, []string{"Language", "Count", "Mean", "Max", "Min", "Median"})
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func newTable(writer io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetColumnSeparator("|")
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func countHeader(options Options) []string {
	header := []string{"Language", "Files", "Total", "Code"}
	if !options.IgnoreComments {
		header = append(header, "Comment")
	}
	if !options.IgnoreBlanks {
		header = append(header, "Blank")
	}
	return header
}

func countRow(name string, files int64, metrics model.LineMetrics, options Options) []string {
	row := []string{
		name,
		strconv.FormatInt(files, 10),
		strconv.FormatInt(metrics.Total, 10),
		strconv.FormatInt(metrics.Code, 10),
	}
	if !options.IgnoreComments {
		row = append(row, strconv.FormatInt(metrics.Comment, 10))
	}
	if !options.IgnoreBlanks {
		row = append(row, strconv.FormatInt(metrics.Blank, 10))
	}
	return row
}

func percentHeader(options Options) []string {
	header := []string{"Language", "Code %"}
	if !options.IgnoreComments {
		header = append(header, "Comment %")
	}
	if !options.IgnoreBlanks {
		header = append(header, "Blank %")
	}
	return header
}

func percentRow(entry *model.LanguageTotals, options Options) []string {
	row := []string{entry.Name, percent(entry.Metrics.Code, entry.Metrics.Total)}
	if !options.IgnoreComments {
		row = append(row, percent(entry.Metrics.Comment, entry.Metrics.Total))
	}
	if !options.IgnoreBlanks {
		row = append(row, percent(entry.Metrics.Blank, entry.Metrics.Total))
	}
	return row
}

// percent 返回保留一位小数的百分比，total 为 0 时返回 0.0。
func percent(part int64, total int64) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(part)/float64(total)*100)
}
