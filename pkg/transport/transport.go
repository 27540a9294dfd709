// Package transport defines how piplayer reaches a player: an Executor runs
// one shell script on a host and a Syncer copies one media file there.
//
// Implementations live in subpackages: native (golang.org/x/crypto/ssh),
// openssh (the system ssh and rsync binaries), local (this machine) and
// preview (dry runs).
package transport

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultConnectTimeout bounds connection setup for every remote call.
const DefaultConnectTimeout = 3 * time.Second

// Endpoint identifies a login on a player.
type Endpoint struct {
	User string
	Host string
	Port int
}

// String renders the endpoint as user@host[:port].
func (e Endpoint) String() string {
	if e.Port == 0 || e.Port == 22 {
		return e.User + "@" + e.Host
	}
	return e.User + "@" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Address returns host:port, defaulting to the SSH port.
func (e Endpoint) Address() string {
	port := e.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(port))
}

// Executor runs a shell script on an endpoint. Implementations must never
// prompt: missing or rejected credentials fail fast. A nil error means the
// script exited zero.
type Executor interface {
	Execute(ctx context.Context, ep Endpoint, script string) error
}

// Syncer copies a local file into a directory on an endpoint, skipping it
// when a file of the same name already exists there. remoteDir is relative
// to the remote user's home and is created when missing. Files are copied
// verbatim; existence is judged by name only.
type Syncer interface {
	Sync(ctx context.Context, localPath string, ep Endpoint, remoteDir string) error
}

// Transport bundles the two capabilities a provisioning run needs.
type Transport interface {
	Executor
	Syncer
	// Close releases connections held across calls.
	Close() error
}
