package resource

import (
	"fmt"

	"github.com/gaborage/go-holded/transport"
)

// Ack is the body Holded answers writes with, e.g.
// {"status":1,"info":"Created","id":"5f3a..."}.
type Ack struct {
	Status int    `json:"status"`
	Info   string `json:"info,omitempty"`
	ID     string `json:"id,omitempty"`
}

// OK reports whether Holded accepted the write.
func (a *Ack) OK() bool {
	return a != nil && a.Status == 1
}

func decodeAck(resp *transport.Response) (*Ack, error) {
	ack := &Ack{}
	if resp.Kind == transport.BodyEmpty {
		// Some deletes answer 204 without a body.
		ack.Status = 1
		return ack, nil
	}
	if err := resp.DecodeObject(ack); err != nil {
		return nil, fmt.Errorf("decode acknowledgement: %w", err)
	}
	return ack, nil
}
