// Package mlogger manages the lifecycle of a single file-backed logging
// sink shared by many goroutines.
//
// A Manager is created once and then initialized, reinitialized and
// terminated any number of times. Logging calls made while it is
// uninitialized are discarded. Runtime failures never surface as panics or
// returned errors; they are delivered to an ErrorCallback (or, without one,
// to a zerolog console stream on stderr) tagged with the name of the
// operation that failed.
//
// Two delivery modes are available:
//   - direct: records are encoded and written on the calling goroutine
//   - async: records are queued and written by a supervised worker pool;
//     Flush waits for the queue to drain
//
// Files rotate by size through lumberjack. Records at Error and above are
// flushed immediately.
//
// Typical usage
//
//	m := mlogger.New()
//	defer m.Close()
//
//	m.SetErrorCallback(func(msg, fn string) { fmt.Fprintln(os.Stderr, fn, msg) })
//	if !m.Initialize(mlogger.DefaultConfig("logs/app.log")) {
//		return
//	}
//	m.Log(mlogger.SeverityInfo, "started")
//	m.Flush()
package mlogger
