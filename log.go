package clipweave

import "github.com/sirupsen/logrus"

// diagLog is the out-of-band logger referenced by §7: rendering itself is
// total and never surfaces a thrown fault, but degraded paths (a skipped
// filter argument, an unparsable JSON-LD blob, a DOM exception) are worth
// recording for whoever operates the extension.
var diagLog = logrus.New()

func init() {
	diagLog.SetLevel(logrus.WarnLevel)
}

func logDegraded(reason string, fields logrus.Fields) {
	diagLog.WithFields(fields).Debug(reason)
}

// SetDiagVerbose raises the out-of-band logger to Debug level, for CLI -v.
func SetDiagVerbose(verbose bool) {
	if verbose {
		diagLog.SetLevel(logrus.DebugLevel)
	} else {
		diagLog.SetLevel(logrus.WarnLevel)
	}
}

// SetDiagColor toggles logrus's colored text formatter, gated by the caller
// on TTY detection (go-isatty) rather than forced.
func SetDiagColor(color bool) {
	diagLog.SetFormatter(&logrus.TextFormatter{ForceColors: color, DisableColors: !color})
}
