package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trysabi/sabi-admin/core"
)

// RollbarLogger mirrors everything to the local std logger; Rollbar only
// sees Warn and up. A desktop client mostly errors because the network or
// the spreadsheet backend did, so Debug/Info stay local.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetPlatform("client")
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(!conf.Debug && conf.RollbarToken != "")
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected args: error, map[string]interface{}
func (l RollbarLogger) report(level, msg string, args []interface{}) {
	// connection failures are the admin's network acting up, not a defect;
	// keep them out of the error feed
	for _, arg := range args {
		if err, ok := arg.(error); ok && core.IsConnectionError(err) {
			level = rollbar.WARN
			break
		}
	}
	payload := make([]interface{}, 0, len(args)+1)
	payload = append(payload, msg)
	payload = append(payload, args...)
	rollbar.Log(level, payload...)
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.WARN, msg, args)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.ERR, msg, args)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.print(msg, args)
	l.std.Fatal(msg)
}
