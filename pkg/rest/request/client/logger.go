package client

import "net/http"

// Logger is satisfied by *slog.Logger and *bslog.Logger
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type LogInterception struct {
	Transport http.RoundTripper
	logger    Logger
}

func (li *LogInterception) RoundTrip(req *http.Request) (*http.Response, error) {
	trip := li.Transport
	if trip == nil {
		trip = http.DefaultTransport
	}

	li.logger.Debug("sending request", "method", req.Method, "endpoint", req.URL.String())
	resp, err := trip.RoundTrip(req)
	switch {
	case err != nil:
		li.logger.Error("request failed", "reason", err.Error(), "method", req.Method, "endpoint", req.URL.String())
	case resp.StatusCode >= http.StatusInternalServerError:
		li.logger.Error("server error", "status_code", resp.StatusCode, "endpoint", req.URL.String())
	default:
		li.logger.Debug("response received", "status_code", resp.StatusCode, "endpoint", req.URL.String())
	}

	return resp, err
}

func NewLogInterception(log Logger, base http.RoundTripper) http.RoundTripper {
	return &LogInterception{
		Transport: base,
		logger:    log,
	}
}
