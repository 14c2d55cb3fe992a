package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Plugin 是日志的输出端，本质上就是一个 zapcore.Core
type Plugin = zapcore.Core

// NewLogger 将多个插件合并为一个 logger
func NewLogger(plugins ...Plugin) *zap.Logger {
	return zap.New(zapcore.NewTee(plugins...), DefaultOption()...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

// NewStdoutPlugin 终端使用 console 格式
func NewStdoutPlugin(enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(ConsoleEncoder(), zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

// NewFilePlugin 写文件并按大小切割，调用方负责 Close
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	var writer = DefaultLumberjackLogger()
	writer.Filename = filePath
	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

// New 按日志级别和可选的文件路径构造 logger
// file 为空时只输出到标准输出
func New(level string, file string) (*zap.Logger, io.Closer, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	plugins := []Plugin{NewStdoutPlugin(lvl)}
	var closer io.Closer = nopCloser{}
	if file != "" {
		var p Plugin
		p, closer = NewFilePlugin(file, lvl)
		plugins = append(plugins, p)
	}
	return NewLogger(plugins...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
