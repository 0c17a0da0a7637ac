//go:build js
// +build js

package common

import (
	"github.com/gopherjs/gopherjs/js"
)

var EnableDebug = true

// ConsoleLogger writes engine logs to the browser console.
type ConsoleLogger struct{}

// Debug logs a message to the browser console if debug mode is enabled.
func (ConsoleLogger) Debug(msg string, args ...interface{}) {
	if EnableDebug {
		js.Global.Get("console").Call("log", append([]interface{}{msg}, args...)...)
	}
}

// Warn logs a warning to the browser console.
func (ConsoleLogger) Warn(msg string, args ...interface{}) {
	js.Global.Get("console").Call("warn", append([]interface{}{msg}, args...)...)
}
