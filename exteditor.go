// Package exteditor is the native messaging host behind the External
// Editor Revived mail extension. It re-exports the types a caller needs
// to embed the host or drive it as a client.
package exteditor

import (
	"github.com/machinefabric/exteditor-go/compose"
	"github.com/machinefabric/exteditor-go/dispatch"
	"github.com/machinefabric/exteditor-go/editor"
	"github.com/machinefabric/exteditor-go/frame"
	"github.com/machinefabric/exteditor-go/host"
	"github.com/machinefabric/exteditor-go/protocol"
	"github.com/machinefabric/exteditor-go/session"
)

// Message types
type ComposeDetails = compose.ComposeDetails
type Configuration = compose.Configuration
type Request = compose.Request
type Response = compose.Response
type Notification = compose.Notification
type Ping = compose.Ping
type Pong = compose.Pong
type Warning = compose.Warning

// Runtime
type Host = host.Host
type Channel = frame.Channel
type Controller = editor.Controller
type Registry = session.Registry
type Accumulator = dispatch.Accumulator

var (
	NewHost        = host.New
	NewChannel     = frame.NewChannel
	NewRegistry    = session.NewRegistry
	NewAccumulator = dispatch.NewAccumulator
	CodecByName    = frame.CodecByName
	DefaultLimits  = frame.DefaultLimits
)

// Version returns the host version
func Version() string {
	return protocol.HostVersion
}
