// Package toukei 是供其他程序嵌入的统计接口。
//
// 两个入口都返回 JSON 报告；任何失败都返回 nil，不向调用方抛出错误。
// 需要错误细节时使用 Run。
package toukei

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"toukei/internal/config"
	"toukei/internal/languages"
	"toukei/internal/model"
	"toukei/internal/report"
	"toukei/internal/scanner"
)

var (
	registryOnce sync.Once
	registry     *languages.Registry
)

// sharedRegistry 在进程内只构建一次注册表，之后只读共享。
func sharedRegistry() *languages.Registry {
	registryOnce.Do(func() {
		registry = languages.NewRegistry()
	})
	return registry
}

// exportResult 是指定 output 时返回的确认信息。
type exportResult struct {
	Status string `json:"status"`
	Output string `json:"output"`
}

// Count 使用默认选项统计目录，返回 JSON 报告；失败时返回 nil。
func Count(path string) []byte {
	content, err := Run(context.Background(), &config.Options{Path: path})
	if err != nil {
		return nil
	}
	return content
}

// CountWithConfig 按配置文档（JSON 或 YAML）统计，返回 JSON 报告；失败时返回 nil。
// 配置中设置了 output 时，结果写入文件，返回 {"status":"ok","output":...}。
func CountWithConfig(document []byte) []byte {
	opts, err := config.ParseDocument(document)
	if err != nil {
		return nil
	}

	content, err := Run(context.Background(), opts)
	if err != nil {
		return nil
	}
	return content
}

// Run 执行一次统计并返回 JSON 结果，失败时返回错误。
// Workers 未设置时按 CPU 核数并发。
func Run(ctx context.Context, opts *config.Options) ([]byte, error) {
	service := scanner.NewService(sharedRegistry(), scanner.Options{
		Workers:    opts.Workers,
		Functions:  opts.ShowFunctionStats,
		Filters:    config.NormalizeFilters(opts.Types),
		Exclude:    opts.IgnoreFiles,
		SkipVendor: opts.SkipVendor,
		Logger:     log.New(io.Discard, "", 0),
	})

	result, err := service.ScanPath(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	return render(ctx, result, opts)
}

func render(ctx context.Context, result model.ScanResult, opts *config.Options) ([]byte, error) {
	reportOptions := report.OptionsFrom(opts)

	if opts.Output == "" {
		return report.MarshalJSON(result, reportOptions)
	}

	written, err := report.Export(ctx, opts.Output, result, reportOptions)
	if err != nil {
		return nil, err
	}

	content, err := json.Marshal(exportResult{Status: "ok", Output: written})
	if err != nil {
		return nil, fmt.Errorf("marshal export result: %w", err)
	}
	return content, nil
}
