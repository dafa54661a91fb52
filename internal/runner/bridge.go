package runner

import (
	"context"

	"github.com/pinchtab/swiftcheck/internal/bridge"
)

// FromBridge adapts a browser bridge to the Provisioner interface.
func FromBridge(b *bridge.Bridge) Provisioner {
	return bridgeProvisioner{b}
}

type bridgeProvisioner struct {
	b *bridge.Bridge
}

func (p bridgeProvisioner) Open(ctx context.Context) (Session, error) {
	s, err := p.b.Open(ctx)
	if err != nil {
		return nil, err
	}
	return bridgeSession{s}, nil
}

type bridgeSession struct {
	s *bridge.Session
}

func (bs bridgeSession) LocateInput(ctx context.Context) (Input, error) {
	h, err := bs.s.LocateInput(ctx)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (bs bridgeSession) LocateOutputScope(ctx context.Context) (Output, error) {
	o, err := bs.s.LocateOutputScope(ctx)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (bs bridgeSession) Close() error {
	return bs.s.Close()
}
