// Package config 定义一次统计运行的全部选项。
// 命令行通过 viper 汇总 flag、环境变量与 .toukei.yaml；
// 嵌入接口直接解析 YAML/JSON 配置文档。
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath 是未指定目录时扫描的路径。
const DefaultPath = "."

// Options 是一次统计运行的配置。
type Options struct {
	Path              string   `mapstructure:"path" yaml:"path" json:"path"`
	Types             []string `mapstructure:"types" yaml:"types" json:"types"`
	IgnoreBlanks      bool     `mapstructure:"ignore_blanks" yaml:"ignore_blanks" json:"ignore_blanks"`
	IgnoreComments    bool     `mapstructure:"ignore_comments" yaml:"ignore_comments" json:"ignore_comments"`
	IgnoreFiles       []string `mapstructure:"ignore_files" yaml:"ignore_files" json:"ignore_files"`
	ShowStats         bool     `mapstructure:"show_stats" yaml:"show_stats" json:"show_stats"`
	ShowFunctionStats bool     `mapstructure:"show_function_stats" yaml:"show_function_stats" json:"show_function_stats"`
	Output            string   `mapstructure:"output" yaml:"output" json:"output"`
	TSV               bool     `mapstructure:"tsv" yaml:"tsv" json:"tsv"`
	SkipVendor        bool     `mapstructure:"skip_vendor" yaml:"skip_vendor" json:"skip_vendor"`
	Workers           int      `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// Load 从 viper 读取配置并补齐默认值。
func Load(v *viper.Viper) (*Options, error) {
	opts := &Options{}

	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(opts)

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseDocument 解析嵌入接口传入的配置文档。
// 以 '{' 开头的文档按 JSON 解码（支持 \/ 与 UTF-16 代理对等全部 JSON 转义），其余按 YAML 解码。
func ParseDocument(document []byte) (*Options, error) {
	opts := &Options{}

	if err := decodeDocument(document, opts); err != nil {
		return nil, fmt.Errorf("parse config document: %w", err)
	}
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("path is required")
	}

	applyDefaults(opts)

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func decodeDocument(document []byte, opts *Options) error {
	if bytes.HasPrefix(bytes.TrimSpace(document), []byte("{")) {
		return json.Unmarshal(document, opts)
	}
	return yaml.Unmarshal(document, opts)
}

// applyDefaults 补齐未设置的字段并规范化语言过滤器。
func applyDefaults(opts *Options) {
	opts.Path = strings.TrimSpace(opts.Path)
	if opts.Path == "" {
		opts.Path = DefaultPath
	}

	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}

	opts.Types = NormalizeFilters(opts.Types)
	opts.Output = strings.TrimSpace(opts.Output)
}

// Validate 校验配置。
func (o *Options) Validate() error {
	if o.Workers < 0 {
		return fmt.Errorf("workers must be greater than 0, got %d", o.Workers)
	}

	for _, pattern := range o.IgnoreFiles {
		if strings.TrimSpace(pattern) == "" {
			return errors.New("ignore_files must not contain empty patterns")
		}
	}

	return nil
}

// NormalizeFilters 把过滤 token 拆分（逗号分隔）、去空白并转为小写，丢弃空 token。
func NormalizeFilters(tokens []string) []string {
	var result []string
	seen := make(map[string]struct{})

	for _, token := range tokens {
		for _, part := range strings.Split(token, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			result = append(result, part)
		}
	}
	return result
}
