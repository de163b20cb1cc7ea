// Package log is a small wrapper around the standard library logger used by
// every trialsearch component.
//
// Loggers are named per component (ForService("client"), ForService("ui"),
// ForService("api")) and prefix each line with "[name>]". Debug output is off
// by default and can be enabled globally with the --debug flag
// (SetGlobalDebug) or per component (EnableDebugFor).
//
//	l := log.ForService("client")
//	l.Infof("search %q page %d", q, page)
//	l.Debugf("suggest failed: %v", err) // only with debug enabled
//
// The interactive terminal UI takes over the screen, so while it runs output
// is redirected with ToFile; non-interactive commands log to stderr.
//
// Tests can capture output with SetOutput(&bytes.Buffer{}).
package log
