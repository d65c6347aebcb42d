package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext(ContextFile, "config.rb").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString(ContextFile)
		if !exists || file != "config.rb" {
			t.Errorf("expected context file=config.rb, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := UnknownOptionError("unknown directive").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryUnknownOption) {
			t.Error("expected error to have unknown_option category")
		}
		if err.CanRetry() {
			t.Error("expected unknown option error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected unknown option error to be fatal")
		}
	})

	t.Run("Position prefix", func(t *testing.T) {
		err := SyntaxError("unterminated string").WithPosition("config.rb", 12, 5).Build()
		want := "config.rb:12:5: [syntax:fatal] unterminated string"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if err.Position() != "config.rb:12:5" {
			t.Errorf("Position() = %q", err.Position())
		}
	})

	t.Run("Position without line", func(t *testing.T) {
		err := FileSystemError("read failed").WithPosition("config.rb", 0, 0).Build()
		if err.Position() != "config.rb" {
			t.Errorf("Position() = %q, want config.rb", err.Position())
		}
	})

	t.Run("Wrapped chain", func(t *testing.T) {
		inner := TypeMismatchError("per_page expects integer").Build()
		wrapped := fmt.Errorf("load: %w", inner)

		if !HasCategory(wrapped, CategoryTypeMismatch) {
			t.Error("expected category to be found through fmt wrapping")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain errors to map to internal")
		}
		if GetSeverity(wrapped) != SeverityFatal {
			t.Errorf("expected fatal severity, got %s", GetSeverity(wrapped))
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := WrapError(originalErr, CategoryFileSystem, "cannot read config").
			Warning().
			WithContext(ContextFile, "config.rb").
			WithContext(ContextLine, 3).
			Build()

		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		line, _ := err.Context().GetInt(ContextLine)
		if line != 3 {
			t.Errorf("expected line context 3, got %d", line)
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"SyntaxError", SyntaxError("test"), CategorySyntax, SeverityFatal, RetryUserAction},
			{"UnknownOptionError", UnknownOptionError("test"), CategoryUnknownOption, SeverityFatal, RetryUserAction},
			{"TypeMismatchError", TypeMismatchError("test"), CategoryTypeMismatch, SeverityFatal, RetryUserAction},
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryNever},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryNever},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityFatal, RetryNever},
			{"RenderError", RenderError("test"), CategoryRender, SeverityError, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.RetryStrategy() != tt.retry {
					t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
				}
			})
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := ConfigError("nested scope").Build()
		derived := base.WithContext(ContextKey, "blog")
		if _, ok := base.Context().Get(ContextKey); ok {
			t.Error("expected original error context to be untouched")
		}
		if key, _ := derived.Context().GetString(ContextKey); key != "blog" {
			t.Errorf("expected derived key context, got %q", key)
		}
	})
}

func TestErrorContext(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	value1, _ := merged.GetString("key1")
	value2, _ := merged.GetString("key2")
	shared, _ := merged.GetString("shared")

	if value1 != "value1" || value2 != "value2" {
		t.Errorf("expected both keys after merge, got %q %q", value1, value2)
	}
	if shared != "overridden" {
		t.Errorf("expected shared=overridden, got %s", shared)
	}
	if _, ok := merged.GetInt("key1"); ok {
		t.Error("expected GetInt to reject string values")
	}
}
