package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the errors into one, nil when there are none.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong
// with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.App.Addr = strings.TrimSpace(out.App.Addr)
	out.App.DataDir = strings.TrimSpace(out.App.DataDir)
	out.API.BaseURL = strings.TrimRight(strings.TrimSpace(out.API.BaseURL), "/")
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))

	if out.App.DataDir == "" {
		out.App.DataDir = "."
	}

	// app
	if out.App.Addr == "" {
		res.addErr("app.addr is required")
	} else if _, _, err := net.SplitHostPort(out.App.Addr); err != nil {
		res.addErr("app.addr %q is not host:port: %v", out.App.Addr, err)
	}

	// api
	if out.API.BaseURL == "" {
		res.addErr("api.base_url is required")
	} else if u, err := url.Parse(out.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("api.base_url %q must be an absolute URL", out.API.BaseURL)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		res.addErr("api.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if out.API.MaxRPS < 0 {
		res.addErr("api.max_rps must be >= 0")
	} else if out.API.MaxRPS == 0 {
		res.addWarn("api.max_rps is 0; requests to the backend are not rate limited.")
	}
	if out.API.MaxRPS > 0 && out.API.Burst <= 0 {
		res.addWarn("api.burst is %d; using 1.", out.API.Burst)
		out.API.Burst = 1
	}

	// bootstrap
	if out.Bootstrap.StepPauseMS < 0 {
		res.addErr("bootstrap.step_pause_ms must be >= 0")
	}
	if out.Bootstrap.FinalPauseMS < 0 {
		res.addErr("bootstrap.final_pause_ms must be >= 0")
	}
	if out.Bootstrap.StepPauseMS > 5000 {
		res.addWarn("bootstrap.step_pause_ms is %d; the loading screen will feel slow.", out.Bootstrap.StepPauseMS)
	}

	// dashboard
	if out.Dashboard.MessageTTLSeconds <= 0 {
		res.addErr("dashboard.message_ttl_seconds must be > 0")
	}

	// log
	if out.Log.Level == "" {
		out.Log.Level = "info"
	}
	if _, err := log.ParseLevel(out.Log.Level); err != nil {
		res.addErr("log.level: %v", err)
	}
	switch out.Log.Format {
	case "":
		out.Log.Format = "text"
	case "text", "json":
	default:
		res.addErr("log.format must be text or json, got %q", out.Log.Format)
	}

	return out, res
}
