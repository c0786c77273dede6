// Package logger wraps zap to offer:
//   - a global sugared logger writing to standard error, so standard output
//     stays free for stamps consumed by build scripts,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - key-value helpers (DebugKV, InfoKV).
package logger
