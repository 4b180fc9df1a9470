package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/javapro/tweakctl/internal/booster"
	"github.com/javapro/tweakctl/internal/fps"
	"github.com/javapro/tweakctl/internal/shell"
)

// frameWindow is how long read_fps counts SurfaceFlinger frames when no
// hardware node exists.
var frameWindow = time.Second

// registerDeviceTools registers the game list, FPS, shell and status tools.
func (s *Server) registerDeviceTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_games",
		Description: "List the packages the game monitor treats as games.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "List Games",
			ReadOnlyHint: true,
		},
	}, s.handleListGames)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_game",
		Description: "Add a package to the game list.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Add Game",
			DestructiveHint: boolPtr(false),
			IdempotentHint:  true,
		},
	}, s.handleAddGame)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_game",
		Description: "Remove a package from the game list.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Remove Game",
			DestructiveHint: boolPtr(true),
			IdempotentHint:  true,
		},
	}, s.handleRemoveGame)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "read_fps",
		Description: "Read the current display frame rate from the hardware FPS node, or by counting SurfaceFlinger frames for one second when no node exists.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "Read FPS",
			ReadOnlyHint: true,
		},
	}, s.handleReadFPS)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "shell_exec",
		Description: "Run one command in a root shell and return its stdout. Commands run with full root privileges.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Root Shell Exec",
			DestructiveHint: boolPtr(true),
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleShellExec)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "device_status",
		Description: "Report root access, performance mode, the focused app and whether it is a listed game, and the FPS node in use.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "Device Status",
			ReadOnlyHint: true,
		},
	}, s.handleDeviceStatus)
}

// ListGamesInput defines the input parameters for the list_games tool.
type ListGamesInput struct{}

// ListGamesOutput defines the output for the list_games tool.
type ListGamesOutput struct {
	Games        []string `json:"games"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// handleListGames handles the list_games tool call.
func (s *Server) handleListGames(ctx context.Context, req *mcp.CallToolRequest, input ListGamesInput) (*mcp.CallToolResult, ListGamesOutput, error) {
	games, err := s.app.Games.List()
	if err != nil {
		return nil, ListGamesOutput{Games: []string{}, ErrorMessage: err.Error()}, nil
	}
	if games == nil {
		games = []string{}
	}
	return nil, ListGamesOutput{Games: games}, nil
}

// GameInput defines the input parameters for the add_game and remove_game tools.
type GameInput struct {
	Package string `json:"package" jsonschema:"Android package name (REQUIRED)"`
}

// handleAddGame handles the add_game tool call.
func (s *Server) handleAddGame(ctx context.Context, req *mcp.CallToolRequest, input GameInput) (*mcp.CallToolResult, ActionOutput, error) {
	err := s.app.Games.Add(input.Package)
	return nil, actionResult(strings.TrimSpace(input.Package)+" added to games", err), nil
}

// handleRemoveGame handles the remove_game tool call.
func (s *Server) handleRemoveGame(ctx context.Context, req *mcp.CallToolRequest, input GameInput) (*mcp.CallToolResult, ActionOutput, error) {
	if strings.TrimSpace(input.Package) == "" {
		return nil, ActionOutput{ErrorMessage: booster.ErrEmptyPackage.Error()}, nil
	}
	err := s.app.Games.Remove(input.Package)
	return nil, actionResult(strings.TrimSpace(input.Package)+" removed from games", err), nil
}

// ReadFPSInput defines the input parameters for the read_fps tool.
type ReadFPSInput struct{}

// ReadFPSOutput defines the output for the read_fps tool.
type ReadFPSOutput struct {
	FPS          int    `json:"fps"`
	Source       string `json:"source"`
	Node         string `json:"node,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// handleReadFPS handles the read_fps tool call.
func (s *Server) handleReadFPS(ctx context.Context, req *mcp.CallToolRequest, input ReadFPSInput) (*mcp.CallToolResult, ReadFPSOutput, error) {
	reader := s.app.FPS
	node := reader.Node()
	if node == "" {
		node, _ = reader.Probe(ctx)
	}
	if node != "" {
		return nil, ReadFPSOutput{FPS: reader.Read(ctx), Source: string(fps.SourceSysfs), Node: node}, nil
	}

	counter := fps.NewFrameCounter(s.app.Exec)
	if err := counter.Enable(ctx); err != nil {
		return nil, ReadFPSOutput{Source: string(fps.SourceTimestats), ErrorMessage: err.Error()}, nil
	}
	defer func() { _ = counter.Disable(context.WithoutCancel(ctx)) }()

	counter.Sample(ctx)
	select {
	case <-ctx.Done():
		return nil, ReadFPSOutput{Source: string(fps.SourceTimestats), ErrorMessage: ctx.Err().Error()}, nil
	case <-time.After(frameWindow):
	}
	rate, ok := counter.Sample(ctx)
	if !ok {
		return nil, ReadFPSOutput{Source: string(fps.SourceTimestats), ErrorMessage: "no frames counted"}, nil
	}
	return nil, ReadFPSOutput{FPS: rate, Source: string(fps.SourceTimestats)}, nil
}

// ShellExecInput defines the input parameters for the shell_exec tool.
type ShellExecInput struct {
	Command string `json:"command" jsonschema:"Shell command to run as root (REQUIRED)"`
}

// ShellExecOutput defines the output for the shell_exec tool.
type ShellExecOutput struct {
	Success      bool   `json:"success"`
	Stdout       string `json:"stdout"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// handleShellExec handles the shell_exec tool call.
func (s *Server) handleShellExec(ctx context.Context, req *mcp.CallToolRequest, input ShellExecInput) (*mcp.CallToolResult, ShellExecOutput, error) {
	command := strings.TrimSpace(input.Command)
	if command == "" {
		return nil, ShellExecOutput{ErrorMessage: "command is required"}, nil
	}
	out, err := s.app.Exec.Output(ctx, command)
	if err != nil {
		return nil, ShellExecOutput{Stdout: out, ErrorMessage: err.Error()}, nil
	}
	return nil, ShellExecOutput{Success: true, Stdout: out}, nil
}

// DeviceStatusInput defines the input parameters for the device_status tool.
type DeviceStatusInput struct{}

// DeviceStatusOutput defines the output for the device_status tool.
type DeviceStatusOutput struct {
	Root            bool   `json:"root"`
	PerformanceMode bool   `json:"performance_mode"`
	FocusedApp      string `json:"focused_app,omitempty"`
	FocusedIsGame   bool   `json:"focused_is_game"`
	FPSNode         string `json:"fps_node,omitempty"`
	Version         string `json:"version"`
}

// handleDeviceStatus handles the device_status tool call.
func (s *Server) handleDeviceStatus(ctx context.Context, req *mcp.CallToolRequest, input DeviceStatusInput) (*mcp.CallToolResult, DeviceStatusOutput, error) {
	out := DeviceStatusOutput{
		Root:            shell.CheckRoot(ctx, s.app.Exec),
		PerformanceMode: s.app.Tweaks.PerformanceMode(),
		FocusedApp:      booster.TopApp(ctx, s.app.Exec),
		Version:         s.version,
	}
	out.FocusedIsGame = s.app.Games.Contains(out.FocusedApp)

	node := s.app.FPS.Node()
	if node == "" {
		node, _ = s.app.FPS.Probe(ctx)
	}
	out.FPSNode = node
	return nil, out, nil
}
