// Package error provides the coded error type used across microscheme.
//
// Package: error
// Title: microscheme Error Handling
// Description: Structured errors carrying a code, a severity, an operation name
//              and free-form details. Syntax errors from the parser are plain
//              values (see internal/parser); this package covers everything
//              around them: configuration, file access, history persistence
//              and the compile service.
//
// Usage:
//
//	err := mserror.Wrap(ioErr, "cannot read source file").
//		WithCode(mserror.CodeFileRead).
//		WithDetail("path", path)
//
//	if mserror.HasCode(err, mserror.CodeSyntax) {
//		os.Exit(2)
//	}
package error
