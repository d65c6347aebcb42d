// Package errors provides the classified error primitives used across siteconfig.
//
// Every failure raised while loading a site configuration is a ClassifiedError
// carrying a category (syntax, unknown option, type mismatch, ...), a severity,
// a retry strategy and structured context such as the source position.
//
// Key features:
//   - ErrorCategory: Broad error classification (syntax, unknown_option, type_mismatch, ...)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior (never, user)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for exit codes and error presentation
//
// Example usage:
//
//	err := errors.UnknownOptionError("unknown blog option \"per_pag\"").
//		WithPosition("config.rb", 7, 3).
//		WithContext("directive", "activate").
//		Build()
package errors
