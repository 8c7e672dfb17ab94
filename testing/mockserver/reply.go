package mockserver

import (
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Reply is one scripted response.
type Reply struct {
	Status      int
	ContentType string
	Body        []byte
	Header      http.Header
	// Delay holds the response back, to exercise client timeouts.
	Delay time.Duration
}

// JSON replies with v encoded as JSON.
func JSON(status int, v any) Reply {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		panic("mockserver: unencodable reply body: " + err.Error())
	}
	return Reply{Status: status, ContentType: "application/json", Body: body}
}

// Raw replies with data verbatim.
func Raw(status int, contentType string, data []byte) Reply {
	return Reply{Status: status, ContentType: contentType, Body: data}
}

// Status replies with an empty body.
func Status(status int) Reply {
	return Reply{Status: status}
}

// Error replies with the {"status":0,"info":...} body Holded uses for failures.
func Error(status int, info string) Reply {
	return JSON(status, map[string]any{"status": 0, "info": info})
}

// Ack replies with the acknowledgement Holded returns for writes.
func Ack(id string) Reply {
	return JSON(http.StatusOK, map[string]any{"status": 1, "info": "Created", "id": id})
}

// WithHeader returns a copy of r carrying an extra header.
func (r Reply) WithHeader(key, value string) Reply {
	h := r.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(key, value)
	r.Header = h
	return r
}

// WithRetryAfter sets Retry-After in whole seconds.
func (r Reply) WithRetryAfter(d time.Duration) Reply {
	return r.WithHeader("Retry-After", strconv.Itoa(int(d/time.Second)))
}

// WithDelay holds the response for d.
func (r Reply) WithDelay(d time.Duration) Reply {
	r.Delay = d
	return r
}
