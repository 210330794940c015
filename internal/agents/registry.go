package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"

	"marketsage/internal/config"
	"marketsage/internal/dataflows"
	"marketsage/internal/tools"
)

// Registry binds each fixed role to a chat model and, for the Accountant
// and Chatbot, an attached tool.
type Registry struct {
	agents   map[Role]*Agent
	maxSteps int
}

// NewRegistry builds the production registry from config. The Researcher
// and Accountant use the research model, the Recommender the analysis
// model, and the Blogger and Chatbot the lighter chat model.
func NewRegistry(ctx context.Context, cfg *config.Config, data dataflows.MarketData) (*Registry, error) {
	newModel := func(name string) (model.ToolCallingChatModel, error) {
		maxTokens := cfg.MaxTokens
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     name,
			MaxTokens: &maxTokens,
		})
	}

	researchModel, err := newModel(cfg.ResearchModel)
	if err != nil {
		return nil, fmt.Errorf("create research model: %w", err)
	}
	analysisModel, err := newModel(cfg.AnalysisModel)
	if err != nil {
		return nil, fmt.Errorf("create analysis model: %w", err)
	}
	chatModel, err := newModel(cfg.ChatModel)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	roleModels := map[Role]model.ToolCallingChatModel{
		RoleResearcher:  researchModel,
		RoleAccountant:  researchModel,
		RoleRecommender: analysisModel,
		RoleBlogger:     chatModel,
		RoleChatbot:     chatModel,
	}
	return NewRegistryWithModels(roleModels, data, cfg.MaxAgentSteps), nil
}

// NewRegistryWithModels wires a registry from explicit role-model
// bindings. Every role in the closed set must be bound.
func NewRegistryWithModels(roleModels map[Role]model.ToolCallingChatModel, data dataflows.MarketData, maxSteps int) *Registry {
	if maxSteps <= 0 {
		maxSteps = 10
	}

	roleTools := map[Role][]tool.BaseTool{
		RoleAccountant: {tools.NewCalculatorTool()},
		RoleChatbot:    {tools.NewMarketDataTool(data)},
	}

	agents := make(map[Role]*Agent, len(rolePersonas))
	for role, p := range rolePersonas {
		agents[role] = &Agent{
			Role:    role,
			Goal:    p.goal,
			Persona: p.persona,
			Model:   roleModels[role],
			Tools:   roleTools[role],
		}
	}
	return &Registry{agents: agents, maxSteps: maxSteps}
}

// Agent returns the binding for a role.
func (r *Registry) Agent(role Role) (*Agent, error) {
	a, ok := r.agents[role]
	if !ok || a.Model == nil {
		return nil, fmt.Errorf("no agent bound for role %q", role)
	}
	return a, nil
}
