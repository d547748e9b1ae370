package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/runtimepath"
)

// LoadFunc loads a fresh configuration for RELOAD.
type LoadFunc func() (*config.Config, error)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desktop      *desktop.Desktop
	load         LoadFunc
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on the default socket path.
func NewServer(d *desktop.Desktop, load LoadFunc, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, d, load, reloadChan), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, d *desktop.Desktop, load LoadFunc, reloadChan chan struct{}) *Server {
	if load == nil {
		load = config.Load
	}

	// Remove a stale socket left by a previous run
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desktop:    d,
		load:       load,
		reloadChan: reloadChan,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandOpen:
		return s.handleOpen(req.Payload)
	case CommandClose, CommandFocus, CommandMinimize, CommandRestore, CommandToggleMaximize:
		return s.handleWindowAction(req.Command, req.Payload)
	case CommandUpdateBounds:
		return s.handleUpdateBounds(req.Payload)
	case CommandRetitle:
		return s.handleRetitle(req.Payload)
	case CommandMove:
		return s.handleMove(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandCycleFocus:
		return s.handleCycleFocus(req.Payload)
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetWorkArea:
		return ok(s.desktop.Registry.WorkArea())
	case CommandSetViewport:
		return s.handleSetViewport(req.Payload)
	case CommandGetStatus:
		return ok(s.desktop.Status())
	case CommandGestureBegin:
		return s.handleGestureBegin(req.Payload)
	case CommandGestureMove:
		return s.handleGestureMove(req.Payload)
	case CommandGestureEnd:
		return s.handleGestureEnd(req.Payload)
	case CommandGestureCancelAll:
		return s.handleGestureCancelAll(req.Payload)
	case CommandListIcons:
		return s.handleListIcons()
	case CommandIconDrag:
		return s.handleIconDrag(req.Payload)
	case CommandIconSelect:
		return s.handleIconSelect(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(command CommandType, payload json.RawMessage, v interface{}) *Response {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", command, err))
	}
	return nil
}

func (s *Server) windowData(id string) *Response {
	w, found := s.desktop.Registry.Window(id)
	if !found {
		return ok(nil)
	}
	return ok(WindowData{Window: w})
}

func (s *Server) handleOpen(payload json.RawMessage) *Response {
	var req OpenPayload
	if resp := decodePayload(CommandOpen, payload, &req); resp != nil {
		return resp
	}
	w, err := s.desktop.OpenWindow(req.ID, req.Title, req.Position, req.Size)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	log.Printf("IPC: Opened window '%s'", req.ID)
	return ok(WindowData{Window: w})
}

// handleWindowAction runs the registry operations that only take an id.
// Unknown ids are accepted and change nothing.
func (s *Server) handleWindowAction(command CommandType, payload json.RawMessage) *Response {
	var req WindowPayload
	if resp := decodePayload(command, payload, &req); resp != nil {
		return resp
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	reg := s.desktop.Registry
	switch command {
	case CommandClose:
		reg.Close(req.ID)
	case CommandFocus:
		reg.Focus(req.ID)
	case CommandMinimize:
		reg.Minimize(req.ID)
	case CommandRestore:
		reg.Restore(req.ID)
	case CommandToggleMaximize:
		reg.ToggleMaximize(req.ID)
	}
	return s.windowData(req.ID)
}

func (s *Server) handleUpdateBounds(payload json.RawMessage) *Response {
	var req BoundsPayload
	if resp := decodePayload(CommandUpdateBounds, payload, &req); resp != nil {
		return resp
	}
	s.desktop.Registry.UpdateBounds(req.ID, req.Bounds)
	return s.windowData(req.ID)
}

func (s *Server) handleRetitle(payload json.RawMessage) *Response {
	var req RetitlePayload
	if resp := decodePayload(CommandRetitle, payload, &req); resp != nil {
		return resp
	}
	if req.ID == "" || req.Title == "" {
		return NewErrorResponse("id and title are required")
	}
	s.desktop.Registry.SetTitle(req.ID, req.Title)
	return s.windowData(req.ID)
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var req MovePayload
	if resp := decodePayload(CommandMove, payload, &req); resp != nil {
		return resp
	}
	w, err := s.desktop.MoveWindow(req.ID, req.Position)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Move refused: %v", err))
	}
	return ok(WindowData{Window: w})
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if resp := decodePayload(CommandResize, payload, &req); resp != nil {
		return resp
	}
	w, err := s.desktop.ResizeWindow(req.ID, req.Size)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Resize refused: %v", err))
	}
	return ok(WindowData{Window: w})
}

func (s *Server) handleCycleFocus(payload json.RawMessage) *Response {
	var req CycleFocusPayload
	if resp := decodePayload(CommandCycleFocus, payload, &req); resp != nil {
		return resp
	}
	id, found := s.desktop.Registry.CycleFocus(!req.Backward)
	if !found {
		return NewErrorResponse("no visible windows")
	}
	return s.windowData(id)
}

func (s *Server) handleListWindows() *Response {
	reg := s.desktop.Registry
	return ok(WindowsData{
		Windows:  reg.Windows(),
		Dock:     reg.DockEntries(),
		ActiveID: reg.ActiveID(),
	})
}

func (s *Server) handleSetViewport(payload json.RawMessage) *Response {
	var size geometry.Size
	if resp := decodePayload(CommandSetViewport, payload, &size); resp != nil {
		return resp
	}
	if err := s.desktop.SetViewport(size); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set viewport: %v", err))
	}
	log.Printf("IPC: Viewport set to %dx%d", size.Width, size.Height)
	return ok(s.desktop.Registry.WorkArea())
}

func (s *Server) handleGestureBegin(payload json.RawMessage) *Response {
	var req GestureBeginPayload
	if resp := decodePayload(CommandGestureBegin, payload, &req); resp != nil {
		return resp
	}

	var (
		token string
		err   error
	)
	if req.Handle == "" {
		token, err = s.desktop.Gestures.BeginDrag(req.ID, req.Pointer)
	} else {
		handle, perr := gesture.ParseHandle(req.Handle)
		if perr != nil {
			return NewErrorResponse(perr.Error())
		}
		token, err = s.desktop.Gestures.BeginResize(req.ID, handle, req.Pointer)
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Gesture refused: %v", err))
	}

	b, _ := s.desktop.Gestures.Transient(req.ID)
	return ok(GestureData{ID: req.ID, Token: token, Bounds: b})
}

func (s *Server) handleGestureMove(payload json.RawMessage) *Response {
	var req GestureMovePayload
	if resp := decodePayload(CommandGestureMove, payload, &req); resp != nil {
		return resp
	}
	b, active := s.desktop.Gestures.Move(req.ID, req.Pointer)
	if !active {
		return NewErrorResponse(fmt.Sprintf("No gesture in flight for '%s'", req.ID))
	}
	return ok(GestureData{ID: req.ID, Bounds: b})
}

func (s *Server) handleGestureEnd(payload json.RawMessage) *Response {
	var req GestureEndPayload
	if resp := decodePayload(CommandGestureEnd, payload, &req); resp != nil {
		return resp
	}
	if req.Reason == "" {
		req.Reason = gesture.EndPointerUp
	}

	var (
		b     geometry.Bounds
		ended bool
	)
	if req.Token != "" {
		b, ended = s.desktop.Gestures.EndToken(req.ID, req.Token, req.Reason)
	} else {
		b, ended = s.desktop.Gestures.End(req.ID, req.Reason)
	}
	if !ended {
		if w, found := s.desktop.Registry.Window(req.ID); found {
			b = w.Bounds()
		}
	}
	return ok(GestureData{ID: req.ID, Bounds: b, Ended: ended})
}

func (s *Server) handleGestureCancelAll(payload json.RawMessage) *Response {
	var req GestureCancelAllPayload
	if resp := decodePayload(CommandGestureCancelAll, payload, &req); resp != nil {
		return resp
	}
	if req.Reason == "" {
		req.Reason = gesture.EndBlur
	}
	return ok(CancelledData{IDs: s.desktop.Gestures.CancelAll(req.Reason)})
}

func (s *Server) handleListIcons() *Response {
	cols, rows := s.desktop.Icons.GridSize()
	selected, _ := s.desktop.Selection.Selected()
	return ok(IconsData{Icons: s.desktop.Icons.Icons(), Cols: cols, Rows: rows, Selected: selected})
}

func (s *Server) handleIconSelect(payload json.RawMessage) *Response {
	var req IconSelectPayload
	if resp := decodePayload(CommandIconSelect, payload, &req); resp != nil {
		return resp
	}

	var (
		id  string
		err error
	)
	switch {
	case req.ID != "":
		id, err = s.desktop.SelectIcon(req.ID)
	case req.Step != "":
		id, err = s.desktop.StepIconSelection(req.Step)
	default:
		return NewErrorResponse("id or step is required")
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Icon select refused: %v", err))
	}
	return ok(SelectionData{Selected: id})
}

func (s *Server) handleIconDrag(payload json.RawMessage) *Response {
	var req IconDragPayload
	if resp := decodePayload(CommandIconDrag, payload, &req); resp != nil {
		return resp
	}
	icon, err := s.desktop.DragIcon(req.ID, req.To)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Icon drag refused: %v", err))
	}
	return ok(icon)
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := s.load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.desktop.Reload(newCfg)

	// Notify the daemon (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")
	return ok(nil)
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
