package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"toukei/internal/model"
	"toukei/internal/stats"
	"toukei/internal/store"
)

// DefaultOutputBase 是只给出格式名时生成的文件名前缀。
const DefaultOutputBase = "toukei_output"

// ErrUnsupportedOutput 表示无法根据扩展名确定导出格式。
var ErrUnsupportedOutput = errors.New("unsupported output format")

// Format 是文件导出格式。
type Format string

const (
	// FormatJSON 导出为缩进的 JSON 数组，扩展名 .json。
	FormatJSON Format = "json"
	// FormatCSV 导出为带表头的 CSV，扩展名 .csv。
	FormatCSV Format = "csv"
	// FormatSQLite 追加一次运行记录到 SQLite 数据库，扩展名 .db / .sqlite。
	FormatSQLite Format = "sqlite"
)

// ResolveOutput 根据 --output 参数决定导出路径与格式。
//
// 参数中带有 '.' 或路径分隔符时视为文件路径；否则视为格式名，
// 写入 toukei_output.<参数>。格式由扩展名决定（大小写不敏感）。
func ResolveOutput(param string) (string, Format, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return "", "", fmt.Errorf("%w: empty output", ErrUnsupportedOutput)
	}

	path := param
	if !strings.ContainsAny(param, `./\`) {
		path = DefaultOutputBase + "." + param
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "json":
		return path, FormatJSON, nil
	case "csv":
		return path, FormatCSV, nil
	case "db", "sqlite", "sqlite3":
		return path, FormatSQLite, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedOutput, path)
	}
}

// Export 把扫描结果写入 --output 指定的文件，返回实际写入的路径。
func Export(ctx context.Context, param string, result model.ScanResult, options Options) (string, error) {
	path, format, err := ResolveOutput(param)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatJSON:
		err = WriteJSONFile(path, result, options)
	case FormatCSV:
		err = WriteCSVFile(path, result, options)
	case FormatSQLite:
		err = writeSQLiteFile(ctx, path, result)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV 输出每个语言一行的 CSV，包含函数长度统计列。
// 没有函数样本的语言，函数统计列留空。
func WriteCSV(writer io.Writer, result model.ScanResult, options Options) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{"Language", "Files", "Lines", "Code"}
	if !options.IgnoreComments {
		header = append(header, "Comments")
	}
	if !options.IgnoreBlanks {
		header = append(header, "Blanks")
	}
	header = append(header, "Functions", "FuncMin", "FuncMax", "FuncMedian", "FuncMean")
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, entry := range result.Languages.Sorted() {
		record := []string{
			entry.Name,
			strconv.FormatInt(entry.Files, 10),
			strconv.FormatInt(entry.Metrics.Total, 10),
			strconv.FormatInt(entry.Metrics.Code, 10),
		}
		if !options.IgnoreComments {
			record = append(record, strconv.FormatInt(entry.Metrics.Comment, 10))
		}
		if !options.IgnoreBlanks {
			record = append(record, strconv.FormatInt(entry.Metrics.Blank, 10))
		}

		record = append(record, strconv.Itoa(len(entry.FunctionLengths)))
		if summary, ok := stats.Summarize(entry.FunctionLengths); ok {
			record = append(record,
				strconv.Itoa(summary.Min),
				strconv.Itoa(summary.Max),
				strconv.FormatFloat(summary.Median, 'f', 2, 64),
				strconv.FormatFloat(summary.Mean, 'f', 2, 64),
			)
		} else {
			record = append(record, "", "", "", "")
		}

		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile 将 CSV 结果导出到指定路径。
func WriteCSVFile(path string, result model.ScanResult, options Options) error {
	file, err := createOutputFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, result, options); err != nil {
		return err
	}
	return file.Close()
}

// writeSQLiteFile 把本次运行追加到 SQLite 历史库。
func writeSQLiteFile(ctx context.Context, path string, result model.ScanResult) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.SaveRun(ctx, result); err != nil {
		return err
	}
	return db.Close()
}
