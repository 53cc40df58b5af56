// Package cmd 提供 toukei 的命令行入口与子命令编排。
package cmd

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"strings"

	"toukei/internal/config"
	"toukei/internal/languages"
	"toukei/internal/report"
	"toukei/internal/scanner"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix 是环境变量前缀，例如 TOUKEI_WORKERS=4。
const envPrefix = "TOUKEI"

// configFlagBindings 是配置 key 到根命令 flag 名称的映射。
var configFlagBindings = map[string]string{
	"path":                "dir",
	"tsv":                 "tsv",
	"show_function_stats": "functions",
	"types":               "languages",
	"ignore_blanks":       "ignore-blanks",
	"ignore_comments":     "ignore-comments",
	"show_stats":          "stats",
	"output":              "output",
	"workers":             "workers",
	"ignore_files":        "exclude",
	"skip_vendor":         "skip-vendor",
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	registry := languages.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
// 根命令本身就是统计命令：toukei [path] [flags]。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "toukei [path]",
		Short: "按语言统计代码行数与函数长度",
		Long: "toukei 按语言统计目录中的代码行、注释行与空行，\n" +
			"可选统计函数长度分布，并支持表格、TSV、JSON/CSV/SQLite 输出。\n\n" +
			"配置按优先级合并：命令行参数 > TOUKEI_ 环境变量 > .toukei.yaml。",
		Example: "  toukei .\n" +
			"  toukei --dir=./src --functions --languages=go,py\n" +
			"  toukei --tsv --functions ./project\n" +
			"  toukei --output csv",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfigFile(v, cfgFile); err != nil {
				return err
			}
			if len(args) == 1 {
				v.Set("path", args[0])
			}

			opts, err := config.Load(v)
			if err != nil {
				return err
			}
			return runCount(cmd, registry, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "配置文件路径，默认读取当前目录的 .toukei.yaml")
	flags.String("dir", config.DefaultPath, "扫描目录，也可以直接作为位置参数传入")
	flags.Bool("tsv", false, "以制表符分隔的文本输出")
	flags.Bool("functions", false, "统计函数长度")
	flags.StringSlice("languages", nil, "只统计匹配的语言，逗号分隔，按 key 或名称子串匹配")
	flags.Bool("ignore-blanks", false, "报告中不显示空行")
	flags.Bool("ignore-comments", false, "报告中不显示注释行")
	flags.Bool("stats", false, "显示每个语言的文件行数统计")
	flags.String("output", "", "导出文件：路径（.json/.csv/.db）或格式名（json/csv/db）")
	flags.Int("workers", runtime.NumCPU(), "并发 worker 数量")
	flags.StringSlice("exclude", nil, "排除匹配的文件或目录（glob）")
	flags.Bool("skip-vendor", false, "跳过 vendor、node_modules 等第三方目录")

	if err := bindFlags(v, flags, configFlagBindings); err != nil {
		panic(err)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newHistoryCmd(registry))

	return rootCmd
}

// bindFlags 把 flag 绑定到 viper 配置 key，任一 flag 不存在即返回错误。
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, flagName := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("bind config key %q: flag --%s is not defined", key, flagName)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind config key %q: %w", key, err)
		}
	}
	return nil
}

// loadConfigFile 读取配置文件。未显式指定时 .toukei.yaml 不存在不算错误。
func loadConfigFile(v *viper.Viper, cfgFile string) error {
	if strings.TrimSpace(cfgFile) != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".toukei")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

// runCount 执行一次统计并按选项输出。
func runCount(cmd *cobra.Command, registry *languages.Registry, opts *config.Options) error {
	logger := log.New(cmd.ErrOrStderr(), "toukei: ", 0)

	service := scanner.NewService(registry, scanner.Options{
		Workers:    opts.Workers,
		Functions:  opts.ShowFunctionStats,
		Filters:    opts.Types,
		Exclude:    opts.IgnoreFiles,
		SkipVendor: opts.SkipVendor,
		Logger:     logger,
	})

	result, err := service.ScanPath(cmd.Context(), opts.Path)
	if err != nil {
		return err
	}

	reportOptions := report.OptionsFrom(opts)
	if opts.TSV {
		err = report.PrintTSV(cmd.OutOrStdout(), result, reportOptions)
	} else {
		err = report.PrintTable(cmd.OutOrStdout(), result, reportOptions)
	}
	if err != nil {
		return err
	}

	if opts.Output == "" {
		return nil
	}

	written, err := report.Export(cmd.Context(), opts.Output, result, reportOptions)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", written)
	return nil
}
