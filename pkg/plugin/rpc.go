// Package plugin provides the public API for bandtint device adapter plugins.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"net/rpc"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-plugin"
)

// DeviceAdapterRPC implements the go-plugin Plugin interface for device adapters.
type DeviceAdapterRPC struct {
	plugin.Plugin
	Impl DeviceAdapter
}

// Server returns an RPC server for this plugin.
func (p *DeviceAdapterRPC) Server(*plugin.MuxBroker) (any, error) {
	return NewDeviceAdapterRPCServer(p.Impl), nil
}

// Client returns an RPC client for this plugin.
func (p *DeviceAdapterRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return NewDeviceAdapterRPCClient(c), nil
}

// Ack is the reply of RPC methods that return no data.
// It has a field because gob rejects structs without exported fields.
type Ack struct {
	OK bool
}

// ConnectArgs are the arguments of the Connect RPC.
type ConnectArgs struct {
	CallID uint64
	Target Descriptor
}

// SessionReply identifies a session opened by Connect.
type SessionReply struct {
	Session uint64
}

// SessionArgs address an open session.
type SessionArgs struct {
	CallID  uint64
	Session uint64
}

// SetThemeArgs are the arguments of the SetTheme RPC.
type SetThemeArgs struct {
	CallID  uint64
	Session uint64
	Theme   NativeTheme
}

// SetMeTileImageArgs are the arguments of the SetMeTileImage RPC.
type SetMeTileImageArgs struct {
	CallID  uint64
	Session uint64
	Image   NativeImage
}

// CancelArgs identify an in-flight call to cancel.
type CancelArgs struct {
	CallID uint64
}

// cancelRetention bounds how long unmatched cancels and finished call IDs are kept.
const cancelRetention = time.Minute

// DeviceAdapterRPCServer is the RPC server implementation for device adapters.
// Sessions live in the adapter process and are addressed by opaque handles.
type DeviceAdapterRPCServer struct {
	Impl DeviceAdapter

	mu          sync.Mutex
	nextSession uint64
	sessions    map[uint64]Session
	inflight    map[uint64]context.CancelFunc
	canceled    map[uint64]time.Time // cancels that overtook their call
	finished    map[uint64]time.Time // completed calls, so a late cancel is dropped
	lastPrune   time.Time
	now         func() time.Time
}

// NewDeviceAdapterRPCServer creates a server around impl.
func NewDeviceAdapterRPCServer(impl DeviceAdapter) *DeviceAdapterRPCServer {
	return &DeviceAdapterRPCServer{
		Impl:     impl,
		sessions: make(map[uint64]Session),
		inflight: make(map[uint64]context.CancelFunc),
		canceled: make(map[uint64]time.Time),
		finished: make(map[uint64]time.Time),
		now:      time.Now,
	}
}

// begin returns the context for one call. A Cancel that overtook its call
// yields an already cancelled context.
func (s *DeviceAdapterRPCServer) begin(callID uint64) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if _, ok := s.canceled[callID]; ok {
		delete(s.canceled, callID)
		cancel()
	} else {
		s.inflight[callID] = cancel
	}
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		delete(s.inflight, callID)
		now := s.now()
		s.finished[callID] = now
		s.prune(now)
		s.mu.Unlock()
		cancel()
	}
}

// prune forgets cancel bookkeeping older than cancelRetention. Callers hold s.mu.
func (s *DeviceAdapterRPCServer) prune(now time.Time) {
	if now.Sub(s.lastPrune) < cancelRetention/2 {
		return
	}
	s.lastPrune = now
	for id, at := range s.canceled {
		if now.Sub(at) > cancelRetention {
			delete(s.canceled, id)
		}
	}
	for id, at := range s.finished {
		if now.Sub(at) > cancelRetention {
			delete(s.finished, id)
		}
	}
}

func (s *DeviceAdapterRPCServer) session(handle uint64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[handle]
	if !ok {
		return nil, fmt.Errorf("unknown session %d", handle)
	}
	return session, nil
}

// Connect implements the RPC method for opening a session.
func (s *DeviceAdapterRPCServer) Connect(args ConnectArgs, resp *SessionReply) error {
	ctx, done := s.begin(args.CallID)
	defer done()

	session, err := s.Impl.Connect(ctx, args.Target)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.nextSession++
	handle := s.nextSession
	s.sessions[handle] = session
	s.mu.Unlock()

	resp.Session = handle
	return nil
}

// GetTheme implements the RPC method for reading the theme.
func (s *DeviceAdapterRPCServer) GetTheme(args SessionArgs, resp *NativeTheme) error {
	session, err := s.session(args.Session)
	if err != nil {
		return err
	}

	ctx, done := s.begin(args.CallID)
	defer done()

	theme, err := session.GetTheme(ctx)
	if err != nil {
		return err
	}
	*resp = theme
	return nil
}

// SetTheme implements the RPC method for writing the theme.
func (s *DeviceAdapterRPCServer) SetTheme(args SetThemeArgs, resp *Ack) error {
	session, err := s.session(args.Session)
	if err != nil {
		return err
	}

	ctx, done := s.begin(args.CallID)
	defer done()

	return session.SetTheme(ctx, args.Theme)
}

// GetMeTileImage implements the RPC method for reading the Me Tile image.
func (s *DeviceAdapterRPCServer) GetMeTileImage(args SessionArgs, resp *NativeImage) error {
	session, err := s.session(args.Session)
	if err != nil {
		return err
	}

	ctx, done := s.begin(args.CallID)
	defer done()

	img, err := session.GetMeTileImage(ctx)
	if err != nil {
		return err
	}
	*resp = img
	return nil
}

// SetMeTileImage implements the RPC method for writing the Me Tile image.
func (s *DeviceAdapterRPCServer) SetMeTileImage(args SetMeTileImageArgs, resp *Ack) error {
	session, err := s.session(args.Session)
	if err != nil {
		return err
	}

	ctx, done := s.begin(args.CallID)
	defer done()

	return session.SetMeTileImage(ctx, args.Image)
}

// Release implements the RPC method for closing a session.
func (s *DeviceAdapterRPCServer) Release(args SessionArgs, resp *Ack) error {
	s.mu.Lock()
	session, ok := s.sessions[args.Session]
	delete(s.sessions, args.Session)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown session %d", args.Session)
	}
	return session.Release()
}

// Cancel implements the RPC method for cancelling an in-flight call.
func (s *DeviceAdapterRPCServer) Cancel(args CancelArgs, resp *Ack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.inflight[args.CallID]; ok {
		cancel()
		return nil
	}
	if _, ok := s.finished[args.CallID]; ok {
		delete(s.finished, args.CallID)
		return nil
	}
	now := s.now()
	s.canceled[args.CallID] = now
	s.prune(now)
	return nil
}

// DeviceAdapterRPCClient is the RPC client implementation for device adapters.
type DeviceAdapterRPCClient struct {
	client   *rpc.Client
	nextCall atomic.Uint64
}

// NewDeviceAdapterRPCClient creates a client over an established RPC connection.
func NewDeviceAdapterRPCClient(c *rpc.Client) *DeviceAdapterRPCClient {
	return &DeviceAdapterRPCClient{client: c}
}

// start issues an asynchronous call and waits for it or for ctx.
// When ctx wins, the adapter is asked to cancel the call and ctx.Err() is returned
// together with the still pending call; otherwise the returned call is nil.
func (c *DeviceAdapterRPCClient) start(ctx context.Context, callID uint64, method string, args, reply any) (*rpc.Call, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := c.client.Go("Plugin."+method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		return nil, convertError(call.Error)
	case <-ctx.Done():
		c.client.Go("Plugin.Cancel", CancelArgs{CallID: callID}, &Ack{}, make(chan *rpc.Call, 1))
		return call, ctx.Err()
	}
}

// Connect calls the remote Connect method.
func (c *DeviceAdapterRPCClient) Connect(ctx context.Context, target Descriptor) (Session, error) {
	callID := c.nextCall.Add(1)
	reply := &SessionReply{}

	call, err := c.start(ctx, callID, "Connect", ConnectArgs{CallID: callID, Target: target}, reply)
	if err != nil {
		if call != nil {
			// The adapter may still open the session; release it once it does.
			go func() {
				<-call.Done
				if call.Error == nil {
					_ = c.client.Call("Plugin.Release", SessionArgs{Session: reply.Session}, &Ack{})
				}
			}()
		}
		return nil, err
	}

	return &rpcSession{client: c, handle: reply.Session}, nil
}

// rpcSession is a Session living in the adapter process.
type rpcSession struct {
	client *DeviceAdapterRPCClient
	handle uint64
}

func (s *rpcSession) GetTheme(ctx context.Context) (NativeTheme, error) {
	callID := s.client.nextCall.Add(1)
	var theme NativeTheme
	if _, err := s.client.start(ctx, callID, "GetTheme", SessionArgs{CallID: callID, Session: s.handle}, &theme); err != nil {
		return NativeTheme{}, err
	}
	return theme, nil
}

func (s *rpcSession) SetTheme(ctx context.Context, theme NativeTheme) error {
	callID := s.client.nextCall.Add(1)
	_, err := s.client.start(ctx, callID, "SetTheme", SetThemeArgs{CallID: callID, Session: s.handle, Theme: theme}, &Ack{})
	return err
}

func (s *rpcSession) GetMeTileImage(ctx context.Context) (NativeImage, error) {
	callID := s.client.nextCall.Add(1)
	var img NativeImage
	if _, err := s.client.start(ctx, callID, "GetMeTileImage", SessionArgs{CallID: callID, Session: s.handle}, &img); err != nil {
		return NativeImage{}, err
	}
	return img, nil
}

func (s *rpcSession) SetMeTileImage(ctx context.Context, img NativeImage) error {
	callID := s.client.nextCall.Add(1)
	_, err := s.client.start(ctx, callID, "SetMeTileImage", SetMeTileImageArgs{CallID: callID, Session: s.handle, Image: img}, &Ack{})
	return err
}

func (s *rpcSession) Release() error {
	return convertError(s.client.client.Call("Plugin.Release", SessionArgs{Session: s.handle}, &Ack{}))
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}

func convertError(err error) error {
	var serverErr rpc.ServerError
	if errors.As(err, &serverErr) {
		return &RPCError{Message: string(serverErr)}
	}
	return err
}
