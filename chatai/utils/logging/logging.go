package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Loggers default to no-op until InitLogger runs, so library-style use
// (tests, the terminal client) never hits a nil logger.
var (
	AppLogger     = zap.NewNop()
	RequestLogger = zap.NewNop()
	ErrorLogger   = zap.NewNop()
)

// ensureLogsDir makes sure the ./logs folder exists
func ensureLogsDir() {
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		panic("Failed to create logs directory: " + err.Error())
	}
}

func newRotatedLogger(filename string, maxSizeMB, maxAgeDays int, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename: filename,
			MaxSize:  maxSizeMB,
			MaxAge:   maxAgeDays,
			Compress: true,
		}),
		level,
	)
	return zap.New(core)
}

func InitLogger() {
	ensureLogsDir()
	AppLogger = newRotatedLogger("./logs/app.log", 100, 28, zap.InfoLevel)
	RequestLogger = newRotatedLogger("./logs/request.log", 50, 7, zap.InfoLevel)
	ErrorLogger = newRotatedLogger("./logs/error.log", 100, 30, zap.ErrorLevel)
}
