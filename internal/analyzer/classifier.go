package analyzer

import (
	"strings"

	"toukei/internal/languages"
)

// LineClass 是单行的分类结果。
type LineClass int

const (
	// ClassCode 表示代码行。
	ClassCode LineClass = iota
	// ClassComment 表示注释行。
	ClassComment
	// ClassBlank 表示空白行。
	ClassBlank
)

// String 返回分类名称。
func (c LineClass) String() string {
	switch c {
	case ClassCode:
		return "code"
	case ClassComment:
		return "comment"
	case ClassBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Classifier 是单文件的行分类状态机。
// 唯一的跨行状态是“是否处于块注释中”。
type Classifier struct {
	lineComments []string
	blockStarts  []string
	blockEnds    []string
	insideBlock  bool
}

// NewClassifier 为一种语言创建分类器，每个文件使用一个新实例。
func NewClassifier(def *languages.Definition) *Classifier {
	return &Classifier{
		lineComments: def.LineComments,
		blockStarts:  def.BlockStarts(),
		blockEnds:    def.BlockEnds(),
	}
}

// InsideBlockComment 表示上一行结束时是否仍处于块注释中。
func (c *Classifier) InsideBlockComment() bool {
	return c.insideBlock
}

// Classify 对一行分类并推进状态。判定顺序严格如下，先命中者生效：
//
//  1. 仅含空白字符 → blank（块注释内部的空行同样计为 blank）
//  2. 已处于块注释中 → comment；行内出现任一结束标记则退出块注释
//  3. 行内出现块注释起始标记 → comment；起始位置之后没有结束标记时进入块注释
//  4. 去掉前导空白后以单行注释标记开头 → comment
//  5. 其余 → code
func (c *Classifier) Classify(line string) LineClass {
	if isBlank(line) {
		return ClassBlank
	}

	if c.insideBlock {
		// 结束标记之后的内容直接丢弃，不再重新分类。
		if containsAny(line, c.blockEnds) {
			c.insideBlock = false
		}
		return ClassComment
	}

	for _, start := range c.blockStarts {
		position := strings.Index(line, start)
		if position < 0 {
			continue
		}

		// 没有结束标记的语言视为自闭合。
		terminated := len(c.blockEnds) == 0 || containsAny(line[position+len(start):], c.blockEnds)
		c.insideBlock = !terminated
		return ClassComment
	}

	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range c.lineComments {
		if marker != "" && strings.HasPrefix(trimmed, marker) {
			return ClassComment
		}
	}

	return ClassCode
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
