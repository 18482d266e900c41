package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/config"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/provider"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/relay"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
	"github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
)

// Tool names exposed by the gateway.
const (
	GenerateTextToolName  = "generate_text"
	GenerateImageToolName = "generate_image"
)

// GenerationClient is the downstream generation API the tools proxy to.
type GenerationClient interface {
	GenerateText(ctx context.Context, token string, req *provider.TextRequest) (*provider.TextResponse, error)
	GenerateImage(ctx context.Context, token string, req *provider.ImageRequest) (*provider.ImageResponse, error)
}

// Registry wires the generation-proxy tools to the MCP server. Each tool
// handler reads its session's relayed credential out of the store at execution
// time; the handler itself never sees the original HTTP request that carried
// the credential.
type Registry struct {
	store  relay.CredentialStore
	client GenerationClient
	cfg    config.ProviderConfig
}

// NewRegistry creates a tool registry over the given store and provider.
func NewRegistry(store relay.CredentialStore, client GenerationClient, cfg config.ProviderConfig) *Registry {
	return &Registry{
		store:  store,
		client: client,
		cfg:    cfg,
	}
}

// Register adds the gateway's tools to the MCP server.
func (t *Registry) Register(srv *mcpserver.MCPServer) {
	srv.AddTool(
		mcp.NewTool(GenerateTextToolName,
			mcp.WithDescription("Generate text from a prompt via the configured downstream provider."),
			mcp.WithString("prompt",
				mcp.Required(),
				mcp.Description("The text prompt to generate from"),
			),
			mcp.WithNumber("max_tokens",
				mcp.Description("Maximum number of tokens to generate"),
			),
		),
		t.handleGenerateText,
	)

	srv.AddTool(
		mcp.NewTool(GenerateImageToolName,
			mcp.WithDescription("Generate an image from a prompt via the configured downstream provider."),
			mcp.WithString("prompt",
				mcp.Required(),
				mcp.Description("The image prompt to generate from"),
			),
			mcp.WithString("size",
				mcp.Description("Requested image size, e.g. 512x512"),
			),
		),
		t.handleGenerateImage,
	)

	logging.Info("Tools", "Registered generation tools: %s, %s", GenerateTextToolName, GenerateImageToolName)
}

// textParams is the validated parameter set for generate_text.
type textParams struct {
	Prompt    string
	MaxTokens int
}

// imageParams is the validated parameter set for generate_image.
type imageParams struct {
	Prompt string
	Size   string
}

func parseTextParams(req mcp.CallToolRequest) (textParams, error) {
	args := req.GetArguments()

	prompt, ok := args["prompt"].(string)
	if !ok || prompt == "" {
		return textParams{}, fmt.Errorf("prompt is required")
	}

	params := textParams{Prompt: prompt}
	if raw, ok := args["max_tokens"]; ok {
		maxTokens, ok := raw.(float64)
		if !ok || maxTokens < 0 {
			return textParams{}, fmt.Errorf("max_tokens must be a non-negative number")
		}
		params.MaxTokens = int(maxTokens)
	}
	return params, nil
}

func parseImageParams(req mcp.CallToolRequest) (imageParams, error) {
	args := req.GetArguments()

	prompt, ok := args["prompt"].(string)
	if !ok || prompt == "" {
		return imageParams{}, fmt.Errorf("prompt is required")
	}

	params := imageParams{Prompt: prompt}
	if raw, ok := args["size"]; ok {
		size, ok := raw.(string)
		if !ok {
			return imageParams{}, fmt.Errorf("size must be a string")
		}
		params.Size = size
	}
	return params, nil
}

// sessionCredential resolves the calling session's relayed credential. The
// second return value is a ready-made tool error result when the credential
// cannot be resolved; credential absence is reported distinctly from provider
// failures so the two are never conflated.
func (t *Registry) sessionCredential(ctx context.Context, toolName string) (string, *mcp.CallToolResult) {
	key, ok := session.KeyFromContext(ctx)
	if !ok {
		return "", mcp.NewToolResultError(fmt.Sprintf(
			"tool %q invoked outside a gateway session; no session context available", toolName))
	}

	token, found, err := t.store.RetrieveCredential(ctx, key)
	if err != nil {
		logging.Error("Tools", err, "Credential lookup failed for session %s", logging.TruncateSessionID(key.ID))
		return "", mcp.NewToolResultError(fmt.Sprintf(
			"credential lookup failed for tool %q in session %s", toolName, key.ActorAddress()))
	}
	if !found {
		return "", mcp.NewToolResultError(fmt.Sprintf(
			"no credential available for session %s: tool %q requires a relayed bearer credential (authentication error, not a provider failure)",
			key.ActorAddress(), toolName))
	}
	return token, nil
}

func (t *Registry) handleGenerateText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, err := parseTextParams(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	token, errResult := t.sessionCredential(ctx, GenerateTextToolName)
	if errResult != nil {
		return errResult, nil
	}

	resp, err := t.client.GenerateText(ctx, token, &provider.TextRequest{
		Model:     t.cfg.TextModel,
		Prompt:    params.Prompt,
		MaxTokens: params.MaxTokens,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("provider request failed: %v", err)), nil
	}

	return mcp.NewToolResultText(resp.Output), nil
}

func (t *Registry) handleGenerateImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, err := parseImageParams(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	token, errResult := t.sessionCredential(ctx, GenerateImageToolName)
	if errResult != nil {
		return errResult, nil
	}

	resp, err := t.client.GenerateImage(ctx, token, &provider.ImageRequest{
		Model:  t.cfg.ImageModel,
		Prompt: params.Prompt,
		Size:   params.Size,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("provider request failed: %v", err)), nil
	}

	return mcp.NewToolResultText(resp.URL), nil
}
