// Package analyzer 实现单文件的行分类与函数范围检测。
// 分析过程只读取一个文件的内容并产出一个 FileScanResult，不持有任何共享状态，
// 因此可以在多个 worker 中并发调用。
package analyzer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"toukei/internal/languages"
	"toukei/internal/model"
)

// Analyzer 按注册表中的语言定义分析文件内容。
type Analyzer struct {
	registry  *languages.Registry
	functions bool
}

// New 创建分析器。functions 为 true 时对支持的语言收集函数长度。
func New(registry *languages.Registry, functions bool) *Analyzer {
	return &Analyzer{
		registry:  registry,
		functions: functions,
	}
}

// AnalyzeBytes 分析已完整读入内存的文件内容。
func (a *Analyzer) AnalyzeBytes(key languages.Key, content []byte) (model.FileScanResult, error) {
	return a.Analyze(key, bytes.NewReader(content))
}

// Analyze 逐行读取并分类，必要时同步驱动函数检测器。
func (a *Analyzer) Analyze(key languages.Key, reader io.Reader) (model.FileScanResult, error) {
	var result model.FileScanResult

	def, ok := a.registry.Definition(key)
	if !ok {
		return result, fmt.Errorf("unknown language: %s", key)
	}

	classifier := NewClassifier(def)

	var detector *FunctionDetector
	if a.functions && a.registry.SupportsFunctions(key) {
		detector = NewFunctionDetector(a.registry.Patterns(key), def.IndentBased)
	}

	bufferedReader := bufio.NewReader(reader)
	for {
		line, err := bufferedReader.ReadString('\n')
		// EOF 且没有剩余字符，说明已经没有可处理的行。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return result, err
		}

		currentLine := normalizeLine(line)
		class := classifier.Classify(currentLine)
		applyLineClass(&result.Metrics, class)
		if detector != nil {
			detector.Observe(currentLine, class)
		}

		// 最后一行没有换行符，处理完即退出。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if detector != nil {
		result.FunctionLengths = detector.Finish()
	}

	return result, nil
}

// normalizeLine 去除行尾换行符，兼容 \r\n 与 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// applyLineClass 根据分类结果更新统计值，每行 Total 固定 +1。
func applyLineClass(metrics *model.LineMetrics, class LineClass) {
	metrics.Total++

	switch class {
	case ClassBlank:
		metrics.Blank++
	case ClassComment:
		metrics.Comment++
	default:
		metrics.Code++
	}
}
