package analyzer

import (
	"regexp"
	"strings"
)

// tabWidth 是计算缩进宽度时一个制表符对应的列数。
const tabWidth = 4

// FunctionDetector 按行追踪函数范围并记录函数长度。
//
// 状态只有 idle 与 inFunction 两种；大括号模式维护括号平衡值，
// 缩进模式记录签名行的缩进宽度。
type FunctionDetector struct {
	patterns    []*regexp.Regexp
	indentBased bool

	inFunction bool
	length     int
	indent     int
	balance    int

	lengths []int
}

// NewFunctionDetector 创建函数检测器。patterns 为空时检测器永远不会进入函数状态。
func NewFunctionDetector(patterns []*regexp.Regexp, indentBased bool) *FunctionDetector {
	return &FunctionDetector{
		patterns:    patterns,
		indentBased: indentBased,
	}
}

// Observe 处理一行。class 是分类器对同一行给出的结果。
func (d *FunctionDetector) Observe(line string, class LineClass) {
	// 新签名总是重新开始计数，尚未结束的上一个函数长度被丢弃。
	if d.isSignature(line) {
		d.inFunction = true
		d.length = 1
		if d.indentBased {
			d.indent = IndentWidth(line)
		} else {
			d.balance = braceDelta(line)
		}
		return
	}

	if !d.inFunction {
		return
	}

	d.length++

	if d.indentBased {
		if class != ClassCode {
			return
		}
		if IndentWidth(line) <= d.indent {
			// 触发结束的反缩进行不属于函数体。
			if body := d.length - 1; body > 1 {
				d.lengths = append(d.lengths, body)
			}
			d.reset()
		}
		return
	}

	d.balance += braceDelta(line)
	if d.balance == 0 && strings.TrimSpace(line) != "" {
		d.lengths = append(d.lengths, d.length)
		d.reset()
	}
}

// Finish 在文件结束时调用，返回本文件的全部函数长度。
// 仍处于函数中的范围（例如括号不平衡的截断文件）按已累计长度记录。
func (d *FunctionDetector) Finish() []int {
	if d.inFunction && d.length > 0 {
		d.lengths = append(d.lengths, d.length)
	}
	d.reset()

	lengths := d.lengths
	d.lengths = nil
	return lengths
}

func (d *FunctionDetector) isSignature(line string) bool {
	for _, pattern := range d.patterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

func (d *FunctionDetector) reset() {
	d.inFunction = false
	d.length = 0
	d.indent = 0
	d.balance = 0
}

// IndentWidth 计算行首空白宽度：空格计 1，制表符计 4，遇到其他字符停止。
func IndentWidth(line string) int {
	width := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width
		}
	}
	return width
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}
