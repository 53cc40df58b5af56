// Package model 定义 toukei 的核心数据模型。
// 这些结构会被分析器、扫描器、输出层和命令层共同使用。
package model

import (
	"sort"

	"toukei/internal/languages"
)

// LineMetrics 表示一组行级统计值。
//
// 每行只属于 code/comment/blank 之一，因此 Code+Comment+Blank 恒等于 Total。
type LineMetrics struct {
	Total   int64 `json:"total"`
	Code    int64 `json:"code"`
	Comment int64 `json:"comment"`
	Blank   int64 `json:"blank"`
}

// Add 将另一个统计结果叠加到当前对象。
func (m *LineMetrics) Add(other LineMetrics) {
	m.Total += other.Total
	m.Code += other.Code
	m.Comment += other.Comment
	m.Blank += other.Blank
}

// FileScanResult 是单文件分析结果，产生后立即交给聚合层消费。
type FileScanResult struct {
	Metrics         LineMetrics
	FunctionLengths []int
}

// LanguageTotals 是某个语言在整个运行期间的累计值。
// 计数只增不减，FunctionLengths 是无序样本。
type LanguageTotals struct {
	Language        languages.Key `json:"language"`
	Name            string        `json:"name"`
	Files           int64         `json:"files"`
	Metrics         LineMetrics   `json:"metrics"`
	FileLengths     []int         `json:"-"`
	FunctionLengths []int         `json:"function_lines"`
}

// Merge 把单文件结果合并进累计值：四个行计数相加，函数样本追加。
// 合并满足交换律和结合律，文件处理顺序不影响最终计数。
func (t *LanguageTotals) Merge(result FileScanResult) {
	t.Files++
	t.Metrics.Add(result.Metrics)
	t.FileLengths = append(t.FileLengths, int(result.Metrics.Total))
	for _, length := range result.FunctionLengths {
		if length > 0 {
			t.FunctionLengths = append(t.FunctionLengths, length)
		}
	}
}

// Totals 按语言 key 保存累计值，条目在该语言的第一个文件出现时创建。
type Totals map[languages.Key]*LanguageTotals

// Entry 返回语言对应的累计值，不存在时创建。
func (t Totals) Entry(key languages.Key, name string) *LanguageTotals {
	entry, ok := t[key]
	if !ok {
		entry = &LanguageTotals{Language: key, Name: name}
		t[key] = entry
	}
	return entry
}

// Sorted 返回至少包含一个文件的语言，按总行数降序，行数相同时按 key 升序。
func (t Totals) Sorted() []*LanguageTotals {
	result := make([]*LanguageTotals, 0, len(t))
	for _, entry := range t {
		if entry.Files > 0 {
			result = append(result, entry)
		}
	}

	sort.Slice(result, func(i int, j int) bool {
		if result[i].Metrics.Total != result[j].Metrics.Total {
			return result[i].Metrics.Total > result[j].Metrics.Total
		}
		return result[i].Language < result[j].Language
	})
	return result
}

// Sum 计算全部语言的总计。
func (t Totals) Sum() TotalMetrics {
	var total TotalMetrics
	for _, entry := range t {
		total.Files += entry.Files
		total.LineMetrics.Add(entry.Metrics)
	}
	return total
}

// TotalMetrics 表示项目级总计信息。
// 在 LineMetrics 基础上额外增加 Files 字段。
type TotalMetrics struct {
	Files int64 `json:"files"`
	LineMetrics
}

// ScanError 记录单文件或单目录扫描失败信息。
// 错误不阻断全量扫描。
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ScanResult 是一次扫描的完整输出模型。
type ScanResult struct {
	ScannedPath   string      `json:"scanned_path"`
	Languages     Totals      `json:"-"`
	Errors        []ScanError `json:"errors"`
	FunctionStats bool        `json:"-"`
}

// Total 返回项目级总计。
func (r ScanResult) Total() TotalMetrics {
	return r.Languages.Sum()
}
