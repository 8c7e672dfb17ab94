// Package mockserver runs an in-process stand-in for the Holded API so the
// client and resource packages can be tested against real HTTP round trips.
//
// Responses are scripted per method and path. Each call consumes the next
// scripted Reply and the last one repeats, which makes retry sequences such
// as 503, 503, 200 easy to express:
//
//	srv := mockserver.New(t)
//	srv.On(http.MethodGet, "invoicing/v1/contacts",
//		mockserver.Status(http.StatusServiceUnavailable),
//		mockserver.JSON(http.StatusOK, []any{}),
//	)
//
// Every request must carry the configured API key; requests without it get
// the 401 body Holded itself returns.
package mockserver
