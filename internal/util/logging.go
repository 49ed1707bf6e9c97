// Package util provides shared helper utilities.
package util

import (
	"fmt"
	"log"

	"github.com/logrusorgru/aurora"
)

// Infof logs an info message.
func Infof(format string, args ...any) {
	log.Printf("%s %s", aurora.Green("INFO"), fmt.Sprintf(format, args...))
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	log.Printf("%s %s", aurora.Yellow("WARN"), fmt.Sprintf(format, args...))
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	log.Printf("%s %s", aurora.Red("ERROR"), fmt.Sprintf(format, args...))
}

// Highlightf logs a highlighted message.
func Highlightf(format string, args ...any) {
	log.Printf("%s %s", aurora.Cyan("NOTE"), fmt.Sprintf(format, args...))
}
