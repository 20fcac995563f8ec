package router

import "fmt"

// LoggerEnabled toggles output of the default logger.
var LoggerEnabled = false

// Logger is the printf style logger used by routers, matches,
// the broadcaster and the link interceptor.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type defaultLogger struct {
}

func (d *defaultLogger) Debug(format string, args ...any) {
	if LoggerEnabled {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

func (d *defaultLogger) Info(format string, args ...any) {
	if LoggerEnabled {
		fmt.Printf("[INFO] "+format+"\n", args...)
	}
}

func (d *defaultLogger) Warn(format string, args ...any) {
	if LoggerEnabled {
		fmt.Printf("[WARN] "+format+"\n", args...)
	}
}

func (d *defaultLogger) Error(format string, args ...any) {
	if LoggerEnabled {
		if len(args) == 1 {
			if t, ok := args[0].(map[string]any); ok {
				fmt.Printf("[ERROR] %s %+v\n", format, t)
				return
			}
		}
		fmt.Printf("[ERROR] "+format+"\n", args...)
	}
}

func loggerOrDefault(l Logger) Logger {
	if l == nil {
		return &defaultLogger{}
	}
	return l
}
