package logger

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultOutput keeps stdout free for results.
const DefaultOutput = "stderr"

type Options struct {
	JSON  bool
	Debug bool
	// Output is a zap sink: "stderr", "stdout" or a file path.
	Output string
}

func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if opts.JSON {
		encoding = "json"
	}

	if opts.Debug {
		level = zapcore.DebugLevel
	}

	output := strings.TrimSpace(opts.Output)
	if output == "" {
		output = DefaultOutput
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{DefaultOutput},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",
			NameKey:    "component",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return cfg.Build()
}

// Preview returns at most limit runes of a response body on one line.
// Whitespace runs collapse to a single space; a cut preview ends with "...".
func Preview(body []byte, limit int) string {
	if limit <= 0 {
		return ""
	}

	var b strings.Builder
	n := 0
	space := false
	for _, r := range strings.TrimSpace(string(body)) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			if n == limit {
				return b.String() + "..."
			}
			b.WriteByte(' ')
			n++
			space = false
		}
		if n == limit {
			return b.String() + "..."
		}
		b.WriteRune(r)
		n++
	}

	return b.String()
}
