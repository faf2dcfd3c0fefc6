package log

import (
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Print(...interface{})
	Printf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

type logger struct {
	*logrus.Entry
}

func New(env string) Logger {
	l := logrus.New()

	if env == "prod" {
		l.Formatter = &logrus.JSONFormatter{}
		l.Level = logrus.InfoLevel
	} else {
		l.Formatter = &logrus.TextFormatter{}
		l.Level = logrus.DebugLevel
	}

	return logger{l.WithField("env", env)}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() Logger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return logger{l.WithField("env", "test")}
}

func (l logger) Debug(args ...interface{}) {
	l.Debugln(args...)
}

func (l logger) Print(args ...interface{}) {
	l.Println(args...)
}

func (l logger) Error(args ...interface{}) {
	l.Errorln(args...)
}

func (l logger) Fatal(args ...interface{}) {
	l.Fatalln(args...)
}
