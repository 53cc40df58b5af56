// Package languages 维护语言定义注册表。
// 注册表在进程启动时构建一次，之后只读共享给分析器与扫描器。
package languages

import (
	"io"
	"log"
	"regexp"
	"sort"
	"strings"
)

// Key 是语言的短标识（例如 cpp、python）。
type Key string

// BlockMarker 描述一对块注释起止标记。
type BlockMarker struct {
	Start string
	End   string
}

// Definition 是一种语言的静态定义。
//
// 注意：
// - Extensions 含点号，且在整个注册表内唯一
// - End 为空的 BlockMarker 表示该语言没有块注释结束标记
// - IndentBased 为 true 时按缩进而非大括号判断函数结束
type Definition struct {
	Key              Key
	Name             string
	Extensions       []string
	LineComments     []string
	BlockComments    []BlockMarker
	FunctionPatterns []string
	IndentBased      bool
}

// BlockStarts 返回全部块注释起始标记，保持注册顺序。
func (d *Definition) BlockStarts() []string {
	result := make([]string, 0, len(d.BlockComments))
	for _, marker := range d.BlockComments {
		if marker.Start != "" {
			result = append(result, marker.Start)
		}
	}
	return result
}

// BlockEnds 返回全部块注释结束标记，保持注册顺序。
func (d *Definition) BlockEnds() []string {
	result := make([]string, 0, len(d.BlockComments))
	for _, marker := range d.BlockComments {
		if marker.End != "" {
			result = append(result, marker.End)
		}
	}
	return result
}

// LanguageDescriptor 用于对外展示语言及后缀信息。
type LanguageDescriptor struct {
	Key        Key
	Name       string
	Extensions []string
	Functions  bool
}

// Registry 管理语言定义、后缀映射与已编译的函数签名正则。
type Registry struct {
	definitions []Definition
	byKey       map[Key]*Definition
	byExt       map[string]Key
	patterns    map[Key][]*regexp.Regexp
}

// NewRegistry 使用内置语言表创建注册表，诊断信息输出到标准日志。
func NewRegistry() *Registry {
	return Build(BuiltinDefinitions(), log.Default())
}

// Build 根据给定定义构建注册表。
// 无法编译的函数签名正则会被丢弃并记录诊断，构建本身不会失败；
// 因此某种语言可能最终没有任何可用签名，也就不会产生函数统计。
func Build(definitions []Definition, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	registry := &Registry{
		definitions: make([]Definition, 0, len(definitions)),
		byKey:       make(map[Key]*Definition, len(definitions)),
		byExt:       make(map[string]Key),
		patterns:    make(map[Key][]*regexp.Regexp),
	}

	seen := make(map[Key]struct{}, len(definitions))
	for _, def := range definitions {
		if _, exists := seen[def.Key]; exists {
			logger.Printf("duplicate language key %q ignored", def.Key)
			continue
		}
		seen[def.Key] = struct{}{}
		registry.definitions = append(registry.definitions, def)
	}

	for i := range registry.definitions {
		def := &registry.definitions[i]
		registry.byKey[def.Key] = def

		for _, ext := range def.Extensions {
			if owner, taken := registry.byExt[ext]; taken {
				logger.Printf("extension %s already claimed by %s, ignored for %s", ext, owner, def.Key)
				continue
			}
			registry.byExt[ext] = def.Key
		}

		compiled := make([]*regexp.Regexp, 0, len(def.FunctionPatterns))
		for _, source := range def.FunctionPatterns {
			pattern, err := regexp.Compile(source)
			if err != nil {
				logger.Printf("drop function pattern for %s: %v", def.Key, err)
				continue
			}
			compiled = append(compiled, pattern)
		}
		if len(compiled) > 0 {
			registry.patterns[def.Key] = compiled
		}
	}

	return registry
}

// Lookup 按后缀（含点号，区分大小写）查找语言。
func (r *Registry) Lookup(ext string) (Key, bool) {
	key, ok := r.byExt[ext]
	return key, ok
}

// Definition 返回语言定义。
func (r *Registry) Definition(key Key) (*Definition, bool) {
	def, ok := r.byKey[key]
	return def, ok
}

// Name 返回语言展示名，未知语言返回 key 本身。
func (r *Registry) Name(key Key) string {
	if def, ok := r.byKey[key]; ok {
		return def.Name
	}
	return string(key)
}

// Patterns 返回语言的函数签名正则，顺序与注册顺序一致。
func (r *Registry) Patterns(key Key) []*regexp.Regexp {
	return r.patterns[key]
}

// SupportsFunctions 表示该语言是否至少有一个可用签名正则。
func (r *Registry) SupportsFunctions(key Key) bool {
	return len(r.patterns[key]) > 0
}

// IsEnabled 判断语言是否通过过滤器。
// 过滤器为空时总是启用；否则任一 token（忽略大小写）是 key 或展示名的子串即启用。
func (r *Registry) IsEnabled(key Key, filters []string) bool {
	if len(filters) == 0 {
		return true
	}

	lowerKey := strings.ToLower(string(key))
	lowerName := ""
	if def, ok := r.byKey[key]; ok {
		lowerName = strings.ToLower(def.Name)
	}

	for _, token := range filters {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if strings.Contains(lowerKey, token) {
			return true
		}
		if lowerName != "" && strings.Contains(lowerName, token) {
			return true
		}
	}
	return false
}

// Languages 返回已注册语言清单，按展示名排序。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.definitions))
	for _, def := range r.definitions {
		extensions := append([]string(nil), def.Extensions...)
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			Key:        def.Key,
			Name:       def.Name,
			Extensions: extensions,
			Functions:  r.SupportsFunctions(def.Key),
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
