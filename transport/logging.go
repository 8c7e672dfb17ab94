package transport

const defaultMaxPayloadLog = 2048

func (e *Executor) logAttempt(p *prepared, attempt int, requestID string) {
	e.log.Debug().
		Str("method", p.method).
		Str("url", p.url).
		Int("attempt", attempt).
		Str("request_id", requestID).
		Msg("Sending Holded request")
	if attempt == 1 {
		e.logPayload(p, "request_body", p.body)
	}
}

func (e *Executor) logSuccess(p *prepared, resp *Response, requestID string) {
	e.log.Debug().
		Str("method", p.method).
		Str("path", p.path).
		Int("status", resp.StatusCode).
		Str("kind", resp.Kind.String()).
		Int("attempts", resp.Attempts).
		Dur("duration", resp.Duration).
		Str("request_id", requestID).
		Msg("Holded request completed")
}

func (e *Executor) logRetry(p *prepared, state RetryState, d Decision, failure *Error, requestID string) {
	e.log.Warn().
		Str("method", p.method).
		Str("path", p.path).
		Int("attempt", state.Attempt).
		Int("max_attempts", e.policy.MaxAttempts).
		Str("error_type", string(failure.Type)).
		Int("status", failure.StatusCode).
		Dur("delay", d.Delay).
		Dur("retry_after", failure.RetryAfter).
		Str("request_id", requestID).
		Msg("Retrying Holded request after transient failure")
}

func (e *Executor) logFailure(p *prepared, failure *Error) {
	e.log.Error().
		Err(failure).
		Str("method", p.method).
		Str("path", p.path).
		Str("error_type", string(failure.Type)).
		Int("status", failure.StatusCode).
		Int("attempts", failure.Attempts).
		Str("request_id", failure.RequestID).
		Msg("Holded request failed")
}

// logPayload logs a body at debug level when payload logging is enabled,
// truncated to maxPayloadLog bytes.
func (e *Executor) logPayload(p *prepared, field string, body []byte) {
	if !e.logPayloads || len(body) == 0 {
		return
	}
	if len(body) > e.maxPayloadLog {
		body = body[:e.maxPayloadLog]
	}
	e.log.Debug().
		Str("method", p.method).
		Str("path", p.path).
		Bytes(field, body).
		Msg("Holded payload")
}
