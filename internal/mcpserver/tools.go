package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/apresai/comedian/internal/pipeline"
	"github.com/apresai/comedian/internal/script"
)

var tracer = otel.Tracer("comedian-mcp")

// ToolDefs returns the MCP tool definitions.
func ToolDefs() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "generate_comedy",
			Description: "Turn random thoughts into a stand-up comedy script and an MP3 of it being performed. Blocks until the audio is written and returns the output folder and a preview of the script.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"thoughts": map[string]any{
						"type":        "string",
						"description": "The thoughts to riff on",
					},
					"voice": map[string]any{
						"type":        "string",
						"description": "Voice name or ID (see list_voices). Defaults to the last voice used.",
					},
					"style": map[string]any{
						"type":        "string",
						"description": "Comedy style: " + strings.Join(script.StyleNames(), ", ") + ". Defaults to the last style used.",
					},
					"clean": map[string]any{
						"type":        "boolean",
						"description": "Strip stage directions and audience reactions before synthesis",
					},
					"publish": map[string]any{
						"type":        "boolean",
						"description": "Upload the finished run to the configured S3 bucket",
						"default":     false,
					},
				},
				Required: []string{"thoughts"},
			},
		},
		{
			Name:        "list_voices",
			Description: "List the voices available for performing a script.",
			InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
		},
		{
			Name:        "list_styles",
			Description: "List the supported comedy styles.",
			InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}},
		},
	}
}

// Handlers contains tool handler implementations.
type Handlers struct {
	comedian Comedian
	voices   VoiceCatalog
	pub      FolderPublisher
	log      *slog.Logger
}

func NewHandlers(comedian Comedian, voices VoiceCatalog, pub FolderPublisher, logger *slog.Logger) *Handlers {
	return &Handlers{comedian: comedian, voices: voices, pub: pub, log: logger}
}

// HandleGenerateComedy runs one pipeline submission.
func (h *Handlers) HandleGenerateComedy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.generate_comedy")
	defer span.End()

	thoughts := mcp.ParseString(req, "thoughts", "")
	if strings.TrimSpace(thoughts) == "" {
		span.SetStatus(codes.Error, "missing thoughts")
		return mcp.NewToolResultError("thoughts is required and cannot be blank"), nil
	}

	current := h.comedian.Preferences()

	voiceID, err := h.voices.Resolve(mcp.ParseString(req, "voice", current.VoiceID))
	if err != nil {
		span.SetStatus(codes.Error, "unknown voice")
		return mcp.NewToolResultError(fmt.Sprintf("%v (see list_voices)", err)), nil
	}

	style := mcp.ParseString(req, "style", "")
	switch {
	case style == "":
		style = current.ComedyStyle
		if !script.IsValidStyle(style) {
			style = string(script.StyleObservational)
		}
	case !script.IsValidStyle(style):
		span.SetStatus(codes.Error, "unknown style")
		return mcp.NewToolResultError(fmt.Sprintf("unknown style %q: choose one of %s", style, strings.Join(script.StyleNames(), ", "))), nil
	}

	clean := mcp.ParseBoolean(req, "clean", current.CleanScript)
	wantPublish := mcp.ParseBoolean(req, "publish", false)

	span.SetAttributes(
		attribute.String("voice_id", voiceID),
		attribute.String("style", style),
		attribute.Bool("clean", clean),
		attribute.Bool("publish", wantPublish),
	)

	res, err := h.comedian.Submit(ctx, pipeline.Request{
		Thoughts: thoughts,
		VoiceID:  voiceID,
		Style:    script.Style(style),
		Clean:    clean,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		h.log.ErrorContext(ctx, "Comedy generation failed", "error", err)
		return mcp.NewToolResultError(describeError(err)), nil
	}

	span.SetAttributes(attribute.String("run_id", res.RunID), attribute.String("folder", res.Folder))
	h.log.InfoContext(ctx, "Comedy generated", "run_id", res.RunID, "folder", res.Folder)

	result := map[string]any{
		"run_id":          res.RunID,
		"folder":          res.Folder,
		"transcript_path": res.TranscriptPath,
		"audio_path":      res.AudioPath,
		"audio_bytes":     res.AudioBytes,
		"preview":         res.Preview,
		"script":          res.Script,
	}

	if wantPublish {
		if h.pub == nil {
			result["publish_error"] = "no S3 bucket configured on this server"
		} else if objects, err := h.pub.PublishFolder(ctx, res.Folder); err != nil {
			span.RecordError(err)
			h.log.WarnContext(ctx, "Publish failed", "folder", res.Folder, "error", err)
			result["publish_error"] = err.Error()
		} else {
			urls := make([]string, 0, len(objects))
			for _, o := range objects {
				urls = append(urls, o.URL)
			}
			result["published"] = urls
		}
	}

	return jsonResult(result)
}

// HandleListVoices returns the voice catalog.
func (h *Handlers) HandleListVoices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, span := tracer.Start(ctx, "tool.list_voices")
	defer span.End()

	voices := h.voices.Voices()
	out := make([]map[string]any, 0, len(voices))
	for _, v := range voices {
		entry := map[string]any{"id": v.ID, "name": v.Name}
		if v.Category != "" {
			entry["category"] = v.Category
		}
		out = append(out, entry)
	}
	span.SetAttributes(attribute.Int("result_count", len(out)))

	return jsonResult(map[string]any{"voices": out, "count": len(out)})
}

// HandleListStyles returns the style names and their instruction sentences.
func (h *Handlers) HandleListStyles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	styles := make([]map[string]any, 0, len(script.Styles()))
	for _, s := range script.Styles() {
		styles = append(styles, map[string]any{"name": string(s), "prompt": script.StylePrompt(s)})
	}
	return jsonResult(map[string]any{"styles": styles})
}

func describeError(err error) string {
	var rerr *pipeline.RemoteServiceError
	var ferr *pipeline.FilesystemError
	var verr *pipeline.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &rerr):
		return fmt.Sprintf("the %s service failed: %v", rerr.Service, rerr.Err)
	case errors.As(err, &ferr):
		return fmt.Sprintf("could not save output (%s): %v", ferr.Op, ferr.Err)
	default:
		return fmt.Sprintf("generation failed: %v", err)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
