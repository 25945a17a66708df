package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"worldsweep/internal/cleaner"
	"worldsweep/internal/config"
)

type RunScanInput struct{}

type RunScanOutput struct {
	Completed bool `json:"completed"`
}

type PreviewFindingsInput struct {
	Category string `json:"category,omitempty" jsonschema:"restrict to a single anomaly category"`
}

type CategoryPreviewOutput struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Enabled  bool     `json:"enabled"`
	Action   string   `json:"action"`
	Count    int      `json:"count"`
	Entries  []string `json:"entries"`
}

type PreviewFindingsOutput struct {
	Categories []CategoryPreviewOutput `json:"categories"`
}

type ApplyOrganizationInput struct{}

type ApplyOrganizationOutput struct {
	Moved    int      `json:"moved"`
	Failed   int      `json:"failed"`
	Warnings []string `json:"warnings"`
}

type GetConfigInput struct{}

type CategoryConfigOutput struct {
	Enabled bool   `json:"enabled"`
	Action  string `json:"action"`
}

type ScanConfigOutput struct {
	FrequencyHours        int                  `json:"frequency_hours"`
	OnLoad                bool                 `json:"scan_on_load"`
	ConfirmOnly           bool                 `json:"confirm_only"`
	StrictEmpty           bool                 `json:"strict_empty"`
	ChatMessageAgeDays    int                  `json:"chat_message_age_days"`
	UnlinkedTokens        CategoryConfigOutput `json:"unlinked_tokens"`
	OrphanedActiveEffects CategoryConfigOutput `json:"orphaned_active_effects"`
	EmptyDocuments        CategoryConfigOutput `json:"empty_documents"`
	DuplicateAssets       CategoryConfigOutput `json:"duplicate_assets"`
	OldChatMessages       CategoryConfigOutput `json:"old_chat_messages"`
}

type GetConfigOutput struct {
	Operator   string           `json:"operator"`
	Gamemaster bool             `json:"gamemaster"`
	Scan       ScanConfigOutput `json:"scan"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "run_scan",
		Description: "Run a full anomaly scan and remediate findings per the configured actions",
	}, s.handleRunScan)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "preview_findings",
		Description: "List what each anomaly detector would flag, without changing anything",
	}, s.handlePreviewFindings)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "apply_organization",
		Description: "Move referenced asset files into the configured folder layout",
	}, s.handleApplyOrganization)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_config",
		Description: "Return the active scan configuration",
	}, s.handleGetConfig)
}

func (s *Server) handleRunScan(ctx context.Context, req *sdk.CallToolRequest, input RunScanInput) (*sdk.CallToolResult, RunScanOutput, error) {
	if err := s.runner.RunScan(ctx); err != nil {
		return nil, RunScanOutput{}, err
	}
	return nil, RunScanOutput{Completed: true}, nil
}

func (s *Server) handlePreviewFindings(ctx context.Context, req *sdk.CallToolRequest, input PreviewFindingsInput) (*sdk.CallToolResult, PreviewFindingsOutput, error) {
	previews, err := s.runner.Preview(ctx)
	if err != nil {
		return nil, PreviewFindingsOutput{}, err
	}

	output := make([]CategoryPreviewOutput, 0, len(previews))
	for _, p := range previews {
		if input.Category != "" && input.Category != string(p.Category) {
			continue
		}
		output = append(output, previewOutput(p))
	}
	return nil, PreviewFindingsOutput{Categories: output}, nil
}

func (s *Server) handleApplyOrganization(ctx context.Context, req *sdk.CallToolRequest, input ApplyOrganizationInput) (*sdk.CallToolResult, ApplyOrganizationOutput, error) {
	if s.organizer == nil {
		return nil, ApplyOrganizationOutput{}, fmt.Errorf("organization is unavailable: no files base_url configured")
	}
	results, err := s.organizer.Run(ctx)
	if err != nil {
		return nil, ApplyOrganizationOutput{}, err
	}
	return nil, ApplyOrganizationOutput{
		Moved:    results.Success,
		Failed:   len(results.Failed),
		Warnings: results.Warnings,
	}, nil
}

func (s *Server) handleGetConfig(ctx context.Context, req *sdk.CallToolRequest, input GetConfigInput) (*sdk.CallToolResult, GetConfigOutput, error) {
	scan := s.cfg.Scan
	return nil, GetConfigOutput{
		Operator:   s.cfg.Operator.Name,
		Gamemaster: s.cfg.Operator.Gamemaster,
		Scan: ScanConfigOutput{
			FrequencyHours:        scan.FrequencyHours,
			OnLoad:                scan.OnLoad,
			ConfirmOnly:           scan.ConfirmOnly,
			StrictEmpty:           scan.StrictEmpty,
			ChatMessageAgeDays:    scan.ChatMessageAgeDays,
			UnlinkedTokens:        categoryOutput(scan.UnlinkedTokens),
			OrphanedActiveEffects: categoryOutput(scan.OrphanedActiveEffects),
			EmptyDocuments:        categoryOutput(scan.EmptyDocuments),
			DuplicateAssets:       categoryOutput(scan.DuplicateAssets),
			OldChatMessages:       categoryOutput(scan.OldChatMessages),
		},
	}, nil
}

func categoryOutput(cc config.CategoryConfig) CategoryConfigOutput {
	return CategoryConfigOutput{Enabled: cc.Enabled, Action: cc.Action}
}

func previewOutput(p cleaner.CategoryPreview) CategoryPreviewOutput {
	return CategoryPreviewOutput{
		Category: string(p.Category),
		Label:    p.Label,
		Enabled:  p.Enabled,
		Action:   p.Action,
		Count:    p.Count,
		Entries:  p.Entries,
	}
}
