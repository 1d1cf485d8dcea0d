package reporting

import (
	"net/http"
	"os"

	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/pkg/config"
)

// Person identifies the authenticated caller attached to a report.
type Person struct {
	ID    string
	Name  string
	Email string
}

type notifyFunc func(err error, req *http.Request, person *Person, extras map[string]interface{})

// Reporter forwards server-side failures to Rollbar. A reporter without a token only logs.
type Reporter struct {
	enabled bool
	logger  *zap.Logger
	notify  notifyFunc
}

// NewRollbarReporter configures the process-wide Rollbar client.
func NewRollbarReporter(cfg config.RollbarConfig, env string, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reporter{enabled: cfg.Token != "", logger: logger}
	if !r.enabled {
		return r
	}

	rollbar.SetToken(cfg.Token)
	rollbar.SetEnvironment(env)
	rollbar.SetCodeVersion(cfg.CodeVersion)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	r.notify = sendToRollbar
	return r
}

// Enabled reports whether events leave the process.
func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled && r.notify != nil
}

// Report records err for the given request.
func (r *Reporter) Report(err error, req *http.Request, person *Person, extras map[string]interface{}) {
	if r == nil || err == nil {
		return
	}
	r.logger.Error("server error reported", zap.Error(err), zap.Any("extras", extras))
	if !r.Enabled() {
		return
	}
	r.notify(err, req, person, extras)
}

// Flush blocks until queued reports are delivered.
func (r *Reporter) Flush() {
	if r.Enabled() {
		rollbar.Wait()
	}
}

func sendToRollbar(err error, req *http.Request, person *Person, extras map[string]interface{}) {
	if person != nil {
		rollbar.SetPerson(person.ID, person.Name, person.Email)
	} else {
		rollbar.ClearPerson()
	}
	if req != nil {
		rollbar.RequestErrorWithExtras(rollbar.ERR, req, err, extras)
		return
	}
	rollbar.ErrorWithExtras(rollbar.ERR, err, extras)
}
