package export

import "context"

// TransferReport summarizes a send.
type TransferReport struct {
	Delivered []string
	Failed    map[string]error
}

// Transport delivers an export payload to target devices.
type Transport interface {
	Send(ctx context.Context, payload []byte, targets []string) (TransferReport, error)
}

// Unimplemented is a Transport that never sends.
type Unimplemented struct{}

func (Unimplemented) Send(_ context.Context, _ []byte, _ []string) (TransferReport, error) {
	return TransferReport{}, ErrTransportUnavailable
}
