//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default 是未指定目标时执行的任务。
var Default = Build

// binaryName 返回当前平台的可执行文件名。
func binaryName() string {
	if runtime.GOOS == "windows" {
		return "toukei.exe"
	}
	return "toukei"
}

// libraryName 返回当前平台的共享库文件名。
func libraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "toukei.dll"
	case "darwin":
		return "libtoukei.dylib"
	default:
		return "libtoukei.so"
	}
}

// Build 编译命令行程序，版本号取自 VERSION 环境变量。
func Build() error {
	fmt.Println("Building toukei...")

	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return sh.Run("go", "build", "-ldflags", "-X main.version="+version, "-o", binaryName(), ".")
}

// Lib 编译 C ABI 共享库（需要 cgo）。
func Lib() error {
	fmt.Println("Building shared library...")
	return sh.RunWith(map[string]string{"CGO_ENABLED": "1"},
		"go", "build", "-buildmode=c-shared", "-o", libraryName(), "./cmd/libtoukei")
}

// Test 运行全部测试。
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "./...")
}

// All 先测试再构建程序与共享库。
func All() {
	mg.SerialDeps(Test, Build, Lib)
}

// Clean 删除构建产物和默认导出文件。
func Clean() error {
	fmt.Println("Cleaning up build artifacts...")

	patterns := []string{
		binaryName(),
		libraryName(),
		"libtoukei.h",
		"toukei.h",
		"toukei_output.*",
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("Error finding files matching %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil {
				fmt.Printf("Warning: could not remove %s: %v\n", match, err)
			} else {
				fmt.Printf("Removed: %s\n", match)
			}
		}
	}

	fmt.Println("Clean completed")
	return nil
}
