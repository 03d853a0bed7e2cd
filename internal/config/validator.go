package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}

func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		add("log.level", c.Log.Level, "must be one of "+strings.Join(ValidLogLevels(), ", "))
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		add("log.format", c.Log.Format, "must be one of "+strings.Join(ValidLogFormats(), ", "))
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		add("web.port", c.Web.Port, "must be between 1 and 65535")
	}
	if c.Web.MaxPortAttempts < 1 {
		add("web.max_port_attempts", c.Web.MaxPortAttempts, "must be at least 1")
	}
	if c.Web.TickIntervalMs < 10 {
		add("web.tick_interval_ms", c.Web.TickIntervalMs, "must be at least 10")
	}
	if c.Web.HatchDurationMs < 0 {
		add("web.hatch_duration_ms", c.Web.HatchDurationMs, "must not be negative")
	}

	if c.Terminal.TickIntervalMs < 10 {
		add("terminal.tick_interval_ms", c.Terminal.TickIntervalMs, "must be at least 10")
	}
	if c.Terminal.HatchFrameMs < 10 {
		add("terminal.hatch_frame_ms", c.Terminal.HatchFrameMs, "must be at least 10")
	}

	if c.NATS.URL != "" && strings.TrimSpace(c.NATS.Subject) == "" {
		add("nats.subject", c.NATS.Subject, "is required when nats.url is set")
	}
	if u := strings.TrimSpace(c.Remote.URL); u != "" {
		if parsed, err := url.Parse(u); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			add("remote.url", c.Remote.URL, "must be an absolute http(s) url")
		}
	}
	if c.Remote.TimeoutMs < 0 {
		add("remote.timeout_ms", c.Remote.TimeoutMs, "must not be negative")
	}
	return errs
}
