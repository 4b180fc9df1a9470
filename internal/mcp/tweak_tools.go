package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/javapro/tweakctl/internal/app"
	"github.com/javapro/tweakctl/internal/profile"
	"github.com/javapro/tweakctl/internal/tweak"
)

// registerTweakTools registers the tweak, performance mode and profile tools.
func (s *Server) registerTweakTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_tweaks",
		Description: "List every tweak with its effective state, the stored preference and whether performance mode is forcing it on.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "List Tweaks",
			ReadOnlyHint: true,
		},
	}, s.handleListTweaks)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_tweak",
		Description: "Enable or disable one tweak by key (e.g. perf_gpu, game_touch, bat_doze). While performance mode is on, performance tweaks only store the preference.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Set Tweak",
			DestructiveHint: boolPtr(false),
		},
	}, s.handleSetTweak)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_performance_mode",
		Description: "Turn global performance mode on or off. On forces every performance tweak on and starts the game monitor; off restores stored preferences.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Set Performance Mode",
			DestructiveHint: boolPtr(false),
		},
	}, s.handleSetPerformanceMode)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "reset_tweaks",
		Description: "Disable every tweak, turn performance mode off and stop the monitor.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Reset Tweaks",
			DestructiveHint: boolPtr(true),
		},
	}, s.handleResetTweaks)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "apply_preset",
		Description: "Apply a one-step preset: performance, balance or powersave.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Apply Preset",
			DestructiveHint: boolPtr(false),
		},
	}, s.handleApplyPreset)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_app_profile",
		Description: "Get the CPU profile (balance, performance or powersave) stored for an app package.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "Get App Profile",
			ReadOnlyHint: true,
		},
	}, s.handleGetAppProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_app_profile",
		Description: "Store a CPU profile for an app package and apply it immediately.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Set App Profile",
			DestructiveHint: boolPtr(false),
		},
	}, s.handleSetAppProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_app_profiles",
		Description: "List every app package with a stored profile.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "List App Profiles",
			ReadOnlyHint: true,
		},
	}, s.handleListAppProfiles)
}

// TweakInfo describes one tweak in list_tweaks output.
type TweakInfo struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Enabled     bool   `json:"enabled"`
	Stored      bool   `json:"stored"`
	Forced      bool   `json:"forced"`
	Reversible  bool   `json:"reversible"`
	Description string `json:"description"`
}

// ListTweaksInput defines the input parameters for the list_tweaks tool.
type ListTweaksInput struct{}

// ListTweaksOutput defines the output for the list_tweaks tool.
type ListTweaksOutput struct {
	PerformanceMode bool        `json:"performance_mode"`
	Tweaks          []TweakInfo `json:"tweaks"`
}

// handleListTweaks handles the list_tweaks tool call.
func (s *Server) handleListTweaks(ctx context.Context, req *mcp.CallToolRequest, input ListTweaksInput) (*mcp.CallToolResult, ListTweaksOutput, error) {
	out := ListTweaksOutput{PerformanceMode: s.app.Tweaks.PerformanceMode()}
	for _, st := range s.app.Tweaks.States() {
		out.Tweaks = append(out.Tweaks, TweakInfo{
			Key:         st.Kind.Key(),
			Title:       st.Kind.Title(),
			Category:    string(st.Kind.Category()),
			Enabled:     st.Enabled,
			Stored:      st.Stored,
			Forced:      st.Forced,
			Reversible:  st.Kind.Reversible(),
			Description: st.Kind.Description(),
		})
	}
	return nil, out, nil
}

// SetTweakInput defines the input parameters for the set_tweak tool.
type SetTweakInput struct {
	Key     string `json:"key" jsonschema:"Tweak key, e.g. perf_gpu or game_touch (REQUIRED)"`
	Enabled bool   `json:"enabled" jsonschema:"true to enable, false to disable"`
}

// ActionOutput is the shared output of tools that change device state.
type ActionOutput struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func actionResult(message string, err error) ActionOutput {
	if err != nil {
		return ActionOutput{Success: false, ErrorMessage: err.Error()}
	}
	return ActionOutput{Success: true, Message: message}
}

// handleSetTweak handles the set_tweak tool call.
func (s *Server) handleSetTweak(ctx context.Context, req *mcp.CallToolRequest, input SetTweakInput) (*mcp.CallToolResult, ActionOutput, error) {
	if input.Key == "" {
		return nil, ActionOutput{ErrorMessage: "key is required"}, nil
	}
	if _, err := tweak.ParseKey(input.Key); err != nil {
		return nil, ActionOutput{ErrorMessage: err.Error()}, nil
	}
	err := s.app.Tweaks.SetKeyState(ctx, input.Key, input.Enabled)

	msg := fmt.Sprintf("%s set to %t", input.Key, input.Enabled)
	if err == nil && !input.Enabled && s.app.Tweaks.IsKeyEnabled(input.Key) {
		msg += " (stored; performance mode keeps it on)"
	}
	return nil, actionResult(msg, err), nil
}

// SetPerformanceModeInput defines the input parameters for the set_performance_mode tool.
type SetPerformanceModeInput struct {
	Enabled bool `json:"enabled" jsonschema:"true to turn performance mode on"`
}

// handleSetPerformanceMode handles the set_performance_mode tool call.
func (s *Server) handleSetPerformanceMode(ctx context.Context, req *mcp.CallToolRequest, input SetPerformanceModeInput) (*mcp.CallToolResult, ActionOutput, error) {
	err := s.app.Tweaks.SetPerformanceMode(ctx, input.Enabled)
	return nil, actionResult(fmt.Sprintf("performance mode set to %t", input.Enabled), err), nil
}

// ResetTweaksInput defines the input parameters for the reset_tweaks tool.
type ResetTweaksInput struct{}

// handleResetTweaks handles the reset_tweaks tool call.
func (s *Server) handleResetTweaks(ctx context.Context, req *mcp.CallToolRequest, input ResetTweaksInput) (*mcp.CallToolResult, ActionOutput, error) {
	err := s.app.Tweaks.ResetAll(ctx)
	return nil, actionResult("all tweaks reset", err), nil
}

// ApplyPresetInput defines the input parameters for the apply_preset tool.
type ApplyPresetInput struct {
	Preset string `json:"preset" jsonschema:"performance, balance or powersave (REQUIRED)"`
}

// handleApplyPreset handles the apply_preset tool call.
func (s *Server) handleApplyPreset(ctx context.Context, req *mcp.CallToolRequest, input ApplyPresetInput) (*mcp.CallToolResult, ActionOutput, error) {
	if !profile.Valid(input.Preset) {
		return nil, ActionOutput{ErrorMessage: "preset must be performance, balance or powersave"}, nil
	}
	preset := app.Preset(profile.ParseMode(input.Preset))
	err := s.app.ApplyPreset(ctx, preset)
	return nil, actionResult(string(preset)+" preset applied", err), nil
}

// AppProfileInput defines the input parameters for the get_app_profile tool.
type AppProfileInput struct {
	Package string `json:"package" jsonschema:"Android package name, e.g. com.example.game (REQUIRED)"`
}

// AppProfileOutput defines the output for the get_app_profile tool.
type AppProfileOutput struct {
	Package      string `json:"package"`
	Mode         string `json:"mode"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// handleGetAppProfile handles the get_app_profile tool call.
func (s *Server) handleGetAppProfile(ctx context.Context, req *mcp.CallToolRequest, input AppProfileInput) (*mcp.CallToolResult, AppProfileOutput, error) {
	if input.Package == "" {
		return nil, AppProfileOutput{ErrorMessage: "package is required"}, nil
	}
	return nil, AppProfileOutput{
		Package: input.Package,
		Mode:    string(s.app.Profiles.Get(input.Package)),
	}, nil
}

// SetAppProfileInput defines the input parameters for the set_app_profile tool.
type SetAppProfileInput struct {
	Package string `json:"package" jsonschema:"Android package name (REQUIRED)"`
	Mode    string `json:"mode" jsonschema:"balance, performance or powersave (REQUIRED)"`
}

// handleSetAppProfile handles the set_app_profile tool call.
func (s *Server) handleSetAppProfile(ctx context.Context, req *mcp.CallToolRequest, input SetAppProfileInput) (*mcp.CallToolResult, ActionOutput, error) {
	if input.Package == "" {
		return nil, ActionOutput{ErrorMessage: "package is required"}, nil
	}
	if !profile.Valid(input.Mode) {
		return nil, ActionOutput{ErrorMessage: "mode must be balance, performance or powersave"}, nil
	}
	err := s.app.Profiles.Set(ctx, input.Package, profile.Mode(input.Mode))
	return nil, actionResult(fmt.Sprintf("%s profile set to %s", input.Package, input.Mode), err), nil
}

// ListAppProfilesInput defines the input parameters for the list_app_profiles tool.
type ListAppProfilesInput struct{}

// ListAppProfilesOutput defines the output for the list_app_profiles tool.
type ListAppProfilesOutput struct {
	Profiles     []profile.Assignment `json:"profiles"`
	ErrorMessage string               `json:"error_message,omitempty"`
}

// handleListAppProfiles handles the list_app_profiles tool call.
func (s *Server) handleListAppProfiles(ctx context.Context, req *mcp.CallToolRequest, input ListAppProfilesInput) (*mcp.CallToolResult, ListAppProfilesOutput, error) {
	list, err := s.app.Profiles.List()
	if err != nil {
		return nil, ListAppProfilesOutput{Profiles: []profile.Assignment{}, ErrorMessage: err.Error()}, nil
	}
	return nil, ListAppProfilesOutput{Profiles: list}, nil
}
