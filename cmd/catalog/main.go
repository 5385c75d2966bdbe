package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// main 程序入口
// 依赖由Wire生成的InitializeApp组装,退出前执行cleanup释放存储连接
func main() {
	os.Exit(run())
}

func run() int {
	app, cleanup, err := InitializeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
