// Package api ties the lowering pipeline together: it maps the public
// option names onto the internal configuration, runs the passes over a
// tree, prints the result and converts accumulated log messages into a
// caller-friendly shape. One call handles one file; calls are independent
// and safe to run concurrently on different trees.
package api

import (
	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/config"
	"github.com/tslower/tslower/internal/js_printer"
	"github.com/tslower/tslower/internal/logger"
	"github.com/tslower/tslower/internal/ts_lower"
)

type ImportsNotUsedAsValues uint8

const (
	ImportsNotUsedAsValuesRemove ImportsNotUsedAsValues = iota
	ImportsNotUsedAsValuesPreserve
	ImportsNotUsedAsValuesError
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LowerOptions struct {
	ImportsNotUsedAsValues ImportsNotUsedAsValues
	PreserveConstEnums     bool
	VerbatimModuleSyntax   bool

	// Diagnostics at or above this level are also rendered to stderr in
	// clang style as they are reported. They are returned on the result
	// either way; the default is to render nothing.
	LogLevel LogLevel
	Color    StderrColor

	// When false, class field initializers are compiled to constructor and
	// post-class assignments
	SupportsClassFields bool

	// Optional hook for referencing shared runtime helpers by name instead
	// of emitting plain assignments
	RequireHelper func(name string) ast.Ref
}

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type LowerResult struct {
	Code string

	Errors   []Message
	Warnings []Message
}

// Lower rewrites the tree in place, then prints it. Diagnostics never
// abort the pass: the returned code is always the best-effort output and
// callers decide whether errors are fatal.
func Lower(tree *ast.Tree, source logger.Source, options LowerOptions) LowerResult {
	log := logger.NewDeferLog()
	if options.LogLevel != LogLevelSilent {
		log = logger.NewStderrLog(logger.StderrOptions{
			IncludeSource: true,
			Color:         convertColor(options.Color),
			LogLevel:      convertLogLevel(options.LogLevel),
		})
	}

	cfg := config.Options{
		PreserveConstEnums:        options.PreserveConstEnums,
		VerbatimModuleSyntax:      options.VerbatimModuleSyntax,
		TargetSupportsClassFields: options.SupportsClassFields,
		RequireHelper:             options.RequireHelper,
	}
	switch options.ImportsNotUsedAsValues {
	case ImportsNotUsedAsValuesPreserve:
		cfg.UnusedImports = config.UnusedImportsPreserve
	case ImportsNotUsedAsValuesError:
		cfg.UnusedImports = config.UnusedImportsError
	default:
		cfg.UnusedImports = config.UnusedImportsRemove
	}

	ts_lower.Lower(log, source, &cfg, tree)

	result := LowerResult{Code: string(js_printer.Print(tree).JS)}
	for _, msg := range log.Done() {
		converted := Message{Text: msg.Text, Location: convertLocation(msg.Location)}
		if msg.Kind == logger.Error {
			result.Errors = append(result.Errors, converted)
		} else {
			result.Warnings = append(result.Warnings, converted)
		}
	}
	return result
}

func convertColor(color StderrColor) logger.StderrColor {
	switch color {
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	}
	return logger.ColorIfTerminal
}

func convertLogLevel(level LogLevel) logger.LogLevel {
	switch level {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	}
	return logger.LevelSilent
}

func convertLocation(loc *logger.MsgLocation) *Location {
	if loc == nil {
		return nil
	}
	return &Location{
		File:     loc.File,
		Line:     loc.Line,
		Column:   loc.Column,
		Length:   loc.Length,
		LineText: loc.LineText,
	}
}
