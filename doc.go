// Package holded is a Go client for the Holded REST API.
//
// A Client wraps the retrying transport in package transport and exposes the
// Holded APIs as typed services:
//
//	client, err := holded.New(os.Getenv("HOLDED_API_KEY"))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	contacts, err := client.Invoicing.Contacts.List(ctx, nil)
//
// Every call blocks until it succeeds, fails terminally or ctx ends.
// Transient failures (429, 5xx, timeouts and connection errors) are retried
// with capped exponential backoff; everything else fails on the first attempt
// with a *holded.Error whose Type tells the failure kinds apart. Go runs a
// call in the background with the same retry loop.
//
// Clients are safe for concurrent use. Build one per API key and reuse it.
package holded
