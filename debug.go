package router

import (
	"reflect"
	"runtime"
	"strings"
)

// funcName returns a friendly name for a component factory. If the
// factory is anonymous or its name is not extractable, it returns a
// default name.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "non-function"
	}
	if v.IsNil() {
		return "nil"
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "unknown"
	}

	fullName := f.Name()

	// trim package path to keep only the name.
	if idx := strings.LastIndex(fullName, "."); idx != -1 {
		fullName = fullName[idx+1:]
	}

	if strings.HasPrefix(fullName, "func") {
		return "anonymous"
	}

	return fullName
}
