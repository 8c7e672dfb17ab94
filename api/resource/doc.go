// Package resource holds the building blocks shared by the Holded API
// packages: a generic CRUD Service, the write acknowledgement Holded returns,
// page walking and binary downloads. Everything here talks to the API through
// a transport.Requester, so services work with a holded.Client, a bare
// transport.Executor or a test double alike.
package resource
