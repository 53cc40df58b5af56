// Package report 提供 toukei 的输出能力。
// 支持 table 控制台格式、TSV 文本格式、JSON 报告，以及 JSON/CSV/SQLite 文件导出。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"toukei/internal/config"
	"toukei/internal/model"
	"toukei/internal/stats"
)

// Options 控制报告中出现哪些内容。
type Options struct {
	// IgnoreBlanks 为 true 时报告中不出现空行计数。
	IgnoreBlanks bool
	// IgnoreComments 为 true 时报告中不出现注释行计数。
	IgnoreComments bool
	// ShowStats 为 true 时输出每个语言的文件行数统计。
	ShowStats bool
	// FunctionStats 为 true 时输出函数长度统计。
	FunctionStats bool
}

// OptionsFrom 把运行配置转换为报告选项。
func OptionsFrom(opts *config.Options) Options {
	return Options{
		IgnoreBlanks:   opts.IgnoreBlanks,
		IgnoreComments: opts.IgnoreComments,
		ShowStats:      opts.ShowStats,
		FunctionStats:  opts.ShowFunctionStats,
	}
}

// LanguageReport 是 JSON 报告中单个语言的条目。
// 被忽略的计数以及空样本的统计块不会出现在输出中。
type LanguageReport struct {
	Lang          string         `json:"lang"`
	Key           string         `json:"key"`
	Files         int64          `json:"files"`
	Lines         int64          `json:"lines"`
	Code          int64          `json:"code"`
	Comments      *int64         `json:"comments,omitempty"`
	Blanks        *int64         `json:"blanks,omitempty"`
	Functions     int            `json:"functions"`
	FunctionLines []int          `json:"function_lines"`
	Stats         *stats.Summary `json:"stats,omitempty"`
	FunctionStats *stats.Summary `json:"function_stats,omitempty"`
}

// BuildLanguageReports 把扫描结果转换为 JSON 报告条目，顺序与表格一致（总行数降序）。
func BuildLanguageReports(result model.ScanResult, options Options) []LanguageReport {
	entries := result.Languages.Sorted()
	reports := make([]LanguageReport, 0, len(entries))

	for _, entry := range entries {
		item := LanguageReport{
			Lang:          entry.Name,
			Key:           string(entry.Language),
			Files:         entry.Files,
			Lines:         entry.Metrics.Total,
			Code:          entry.Metrics.Code,
			Functions:     len(entry.FunctionLengths),
			FunctionLines: append([]int{}, entry.FunctionLengths...),
		}

		if !options.IgnoreComments {
			comments := entry.Metrics.Comment
			item.Comments = &comments
		}
		if !options.IgnoreBlanks {
			blanks := entry.Metrics.Blank
			item.Blanks = &blanks
		}

		if options.ShowStats {
			if summary, ok := stats.Summarize(entry.FileLengths); ok {
				item.Stats = &summary
			}
		}
		if options.FunctionStats {
			if summary, ok := stats.Summarize(entry.FunctionLengths); ok {
				item.FunctionStats = &summary
			}
		}

		reports = append(reports, item)
	}
	return reports
}

// MarshalJSON 把扫描结果序列化为紧凑 JSON 报告。
func MarshalJSON(result model.ScanResult, options Options) ([]byte, error) {
	content, err := json.Marshal(BuildLanguageReports(result, options))
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return content, nil
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult, options Options) error {
	content, err := json.MarshalIndent(BuildLanguageReports(result, options), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteJSONFile 将 JSON 结果导出到指定路径。
// 如果目录不存在会自动创建。
func WriteJSONFile(path string, result model.ScanResult, options Options) error {
	file, err := createOutputFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := PrintJSON(file, result, options); err != nil {
		return err
	}
	return file.Close()
}

// createOutputFile 创建输出文件，父目录不存在时自动创建。
func createOutputFile(path string) (*os.File, error) {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return nil, fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return file, nil
}
