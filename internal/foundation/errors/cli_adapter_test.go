package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitOK},
		{"syntax", SyntaxError("bad").Build(), ExitSyntax},
		{"unknown option", UnknownOptionError("bad").Build(), ExitUnknownOption},
		{"type mismatch", TypeMismatchError("bad").Build(), ExitTypeMismatch},
		{"config", ConfigError("bad").Build(), ExitConfig},
		{"validation", ValidationError("bad").Build(), ExitValidation},
		{"filesystem", FileSystemError("bad").Build(), ExitFileSystem},
		{"render", RenderError("bad").Build(), ExitRender},
		{"internal", InternalError("bad").Build(), ExitInternal},
		{"unclassified error", errors.New("unknown error"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := UnknownOptionError(`unknown directive "activat"`).WithPosition("config.rb", 4, 1).Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	if got := quiet.FormatError(err); got != `Error: config.rb:4:1: unknown directive "activat"` {
		t.Errorf("FormatError() = %q", got)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default())
	if got := verbose.FormatError(err); !strings.Contains(got, "[unknown_option:fatal]") {
		t.Errorf("verbose FormatError() = %q, want classified form", got)
	}

	internal := InternalError("boom").Build()
	if got := quiet.FormatError(internal); !strings.Contains(got, "use -v") {
		t.Errorf("internal FormatError() = %q", got)
	}

	if quiet.FormatError(nil) != "" {
		t.Error("expected empty format for nil error")
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	code := -1
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger).WithOutput(&out, func(c int) { code = c })

	adapter.HandleError(TypeMismatchError("per_page expects integer").WithPosition("config.rb", 9, 3).Build())

	if code != ExitTypeMismatch {
		t.Errorf("exit code = %d, want %d", code, ExitTypeMismatch)
	}
	if !strings.Contains(out.String(), "config.rb:9:3") {
		t.Errorf("output %q does not carry the position", out.String())
	}
	if logs.Len() != 0 {
		t.Errorf("expected no log output for user-facing errors, got %q", logs.String())
	}

	adapter.HandleError(nil)
	if code != ExitTypeMismatch {
		t.Error("nil error must not call exit")
	}
}
