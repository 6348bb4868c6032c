package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a local server accepts connections on.
type SecurityLayer interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is a local listener with graceful shutdown, such as the OAuth callback server.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
