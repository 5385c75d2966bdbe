package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// New 按LogConfig创建结构化日志
// 返回的cleanup负责关闭日志文件（输出到stdout/stderr时为空操作）
func New(cfg *config.Config) (*slog.Logger, func(), error) {
	w, cleanup, err := openOutput(cfg.Log.Output)
	if err != nil {
		return nil, nil, err
	}

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "console", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		cleanup()
		return nil, nil, fmt.Errorf("不支持的日志格式: %q", cfg.Log.Format)
	}

	logger := slog.New(handler).With("app", cfg.App.Name)
	return logger, cleanup, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("无效的日志级别 %q: %w", s, err)
	}
	return level, nil
}

func openOutput(output string) (io.Writer, func(), error) {
	switch output {
	case "", "stderr":
		return os.Stderr, func() {}, nil
	case "stdout":
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
