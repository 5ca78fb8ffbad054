// Package logger wraps zerolog behind a small structured-logging interface.
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("component", "finder")
//	log.InfoWithFields("Theme search finished", map[string]interface{}{
//	    "theme": "vintage",
//	    "posts": 500,
//	})
//
// Console output is colorized and written to stderr; setting File writes
// JSON lines to that file instead. TestLogger captures messages for
// assertions in tests.
package logger
