//go:build cgo

// libtoukei 把统计接口导出为 C ABI，构建方式：
//
//	go build -buildmode=c-shared -o libtoukei.so ./cmd/libtoukei
//
// 返回的字符串由 Go 侧分配，调用方必须且只能通过 toukei_free_string 释放一次；
// 返回 NULL 表示失败，不需要释放。
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"toukei/pkg/toukei"
)

//export toukei_count_path
func toukei_count_path(path *C.char) *C.char {
	if path == nil {
		return nil
	}
	return toCString(toukei.Count(C.GoString(path)))
}

//export toukei_count_with_config
func toukei_count_with_config(configDocument *C.char) *C.char {
	if configDocument == nil {
		return nil
	}
	return toCString(toukei.CountWithConfig([]byte(C.GoString(configDocument))))
}

//export toukei_free_string
func toukei_free_string(value *C.char) {
	if value == nil {
		return
	}
	C.free(unsafe.Pointer(value))
}

func toCString(content []byte) *C.char {
	if content == nil {
		return nil
	}
	return C.CString(string(content))
}

func main() {}
