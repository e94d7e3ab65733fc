// Package logger provides a small wrapper around zap to offer:
//   - a sugared logger writing `[YYYY-MM-DD HH:MM:SS] message` lines,
//   - a console sink optionally teed with an append-only file sink,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and convenience functions (Infof, WarnKV, etc.).
//
// Services accept a context and extract the logger from it, so the logger
// instance is scoped to the process that created it instead of being global.
package logger
