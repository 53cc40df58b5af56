// Package scanner 提供并发扫描调度能力。
// 该层负责目录遍历、任务分发、并发执行和结果聚合，不负责行分类细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"toukei/internal/analyzer"
	"toukei/internal/languages"
	"toukei/internal/model"

	"github.com/go-enry/go-enry/v2"
)

var (
	// ErrPathNotFound 表示扫描目标不存在。
	ErrPathNotFound = errors.New("path does not exist")
	// ErrNotDirectory 表示扫描目标不是目录。
	ErrNotDirectory = errors.New("path is not a directory")
)

// Options 控制一次扫描的行为。
type Options struct {
	// Workers 是并发 worker 数量，<=0 时取 CPU 核数。
	Workers int
	// Functions 为 true 时收集函数长度样本。
	Functions bool
	// Filters 是语言过滤 token，为空表示全部语言。
	Filters []string
	// Exclude 是按文件名或相对路径匹配的 glob，命中的文件或目录被跳过。
	Exclude []string
	// SkipVendor 为 true 时跳过 node_modules、vendor 等第三方目录。
	SkipVendor bool
	// Logger 接收遍历与读取错误的诊断信息，nil 时丢弃。
	Logger *log.Logger
}

// Service 是扫描服务对象。
type Service struct {
	registry *languages.Registry
	analyzer *analyzer.Analyzer
	options  Options
	logger   *log.Logger
	// readFile 读取单个文件内容，默认 os.ReadFile。
	readFile func(name string) ([]byte, error)
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	absolutePath string
	displayPath  string
	language     languages.Key
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	language   languages.Key
	fileResult *model.FileScanResult
	scanError  *model.ScanError
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, options Options) *Service {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}

	logger := options.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Service{
		registry: registry,
		analyzer: analyzer.New(registry, options.Functions),
		options:  options,
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// ScanPath 扫描目录并返回按语言聚合的结果。
// 目标不存在或不是目录时返回错误；单个文件或子目录的错误只记录，不中断扫描。
func (s *Service) ScanPath(ctx context.Context, targetPath string) (model.ScanResult, error) {
	result := model.ScanResult{
		Languages:     model.Totals{},
		Errors:        make([]model.ScanError, 0),
		FunctionStats: s.options.Functions,
	}

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, errors.New("scan path is empty")
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w: %s", ErrPathNotFound, trimmedPath)
		}
		return result, fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("%w: %s", ErrNotDirectory, trimmedPath)
	}

	result.ScannedPath = absoluteTarget

	tasks := make(chan scanTask, s.options.Workers*4)
	results := make(chan workerResult, s.options.Workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.options.Workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		walkErrChan <- s.enqueueDirectoryTasks(ctx, absoluteTarget, tasks, results)
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	// 唯一的聚合点：所有合并都在这个循环里串行完成。
	for item := range results {
		if item.fileResult != nil {
			result.Languages.Entry(item.language, s.registry.Name(item.language)).Merge(*item.fileResult)
		}
		if item.scanError != nil {
			result.Errors = append(result.Errors, *item.scanError)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return result, walkErr
	}

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	return result, nil
}

// enqueueDirectoryTasks 遍历目录并把可识别语言文件推入任务队列。
// 遍历错误（权限不足、扫描中途被删除等）会记录诊断并继续处理其余条目。
func (s *Service) enqueueDirectoryTasks(ctx context.Context, root string, tasks chan<- scanTask, results chan<- workerResult) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relativePath = path
		}
		displayPath := filepath.ToSlash(relativePath)

		if walkErr != nil {
			s.logger.Printf("skip %s: %v", displayPath, walkErr)
			results <- workerResult{
				scanError: &model.ScanError{Path: displayPath, Error: walkErr.Error()},
			}
			if entry != nil && entry.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && s.skipDirectory(displayPath, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegularFile(path, entry) || s.excluded(displayPath, entry.Name()) {
			return nil
		}

		// 扩展名未注册或被语言过滤器排除的文件在扫描阶段直接跳过，不更新任何计数。
		key, ok := s.registry.Lookup(filepath.Ext(path))
		if !ok || !s.registry.IsEnabled(key, s.options.Filters) {
			return nil
		}

		select {
		case tasks <- scanTask{absolutePath: path, displayPath: displayPath, language: key}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// runWorker 执行文件读取和行分类。
// 文件整体读入后再分析，不做流式的部分统计。
func (s *Service) runWorker(tasks <-chan scanTask, results chan<- workerResult) {
	for task := range tasks {
		content, readErr := s.readFile(task.absolutePath)
		if readErr != nil {
			s.logger.Printf("skip %s: %v", task.displayPath, readErr)
			results <- workerResult{
				scanError: &model.ScanError{Path: task.displayPath, Error: readErr.Error()},
			}
			continue
		}

		if enry.IsBinary(content) {
			continue
		}

		fileResult, analyzeErr := s.analyzer.AnalyzeBytes(task.language, content)
		if analyzeErr != nil {
			s.logger.Printf("skip %s: %v", task.displayPath, analyzeErr)
			results <- workerResult{
				scanError: &model.ScanError{Path: task.displayPath, Error: analyzeErr.Error()},
			}
			continue
		}

		results <- workerResult{
			language:   task.language,
			fileResult: &fileResult,
		}
	}
}

func (s *Service) skipDirectory(displayPath string, name string) bool {
	if s.options.SkipVendor && enry.IsVendor(displayPath+"/") {
		return true
	}
	return s.excluded(displayPath, name)
}

// excluded 判断文件名或相对路径是否命中排除 glob。
func (s *Service) excluded(displayPath string, name string) bool {
	for _, pattern := range s.options.Exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, displayPath); matched {
			return true
		}
	}
	return false
}

// isRegularFile 判断条目是否为普通文件，符号链接按目标判断。
func isRegularFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
