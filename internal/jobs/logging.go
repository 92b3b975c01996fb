package jobs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const lineTimeLayout = "2006-01-02 15:04:05"

// LineFormatter writes "2006-01-02 15:04:05 - LEVEL - message" lines.
// An error attached with WithError is appended with its stack trace when it has one.
type LineFormatter struct{}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s - %s\n", e.Time.Format(lineTimeLayout), strings.ToUpper(e.Level.String()), e.Message)
	if err, ok := e.Data[logrus.ErrorKey].(error); ok {
		if st, ok := err.(stackTracer); ok {
			fmt.Fprintf(&b, "Traceback:%+v\n", st.StackTrace())
		}
	}
	return []byte(b.String()), nil
}

// OpenLog returns a logger appending to the file at path. Close the returned
// closer when the job is done.
func OpenLog(path string) (*logrus.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening job log %s", path)
	}
	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(LineFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	return logger, f, nil
}

// kvLogger adapts logrus to the key/value logger interfaces of
// go-retryablehttp and robfig/cron.
type kvLogger struct {
	log logrus.FieldLogger
}

func (l kvLogger) with(keysAndValues []interface{}) logrus.FieldLogger {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.log.WithFields(fields)
}

func (l kvLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l kvLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Info(msg)
}

func (l kvLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l kvLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

type cronLogger struct {
	kvLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).WithError(err).Error(msg)
}
