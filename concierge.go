// Package concierge wires the grounded conversational agent together: the
// grounding store, the capture recorder and its tools, the model capability
// client, and the agent session. Front ends call Initialize once, then
// Submit per user turn.
package concierge

import (
	"context"

	"go.uber.org/zap"

	"github.com/atelierhq/concierge/agent"
	"github.com/atelierhq/concierge/capture"
	"github.com/atelierhq/concierge/config"
	"github.com/atelierhq/concierge/grounding"
	"github.com/atelierhq/concierge/llmclient"
)

// Options configures Initialize. Config is required; the zero Persona is
// replaced by DefaultPersona; a nil Completer builds a real provider client
// from Config (tests substitute a scripted one). SummaryPath and
// ReferencePath override the Config-derived grounding paths when set.
type Options struct {
	Config        config.Config
	Persona       agent.PersonaConfig
	Logger        *zap.Logger
	Completer     llmclient.Completer
	SummaryPath   string
	ReferencePath string
}

// Concierge is the assembled agent: one session plus the resources it
// depends on.
type Concierge struct {
	session  *agent.Session
	recorder *capture.Recorder
}

// DefaultPersona returns the persona the agent ships with.
func DefaultPersona() agent.PersonaConfig {
	return agent.PersonaConfig{
		BusinessName: "Ramadan & Co. Writing Consultancy",
		Identity: "A Beirut-rooted, tri-lingual (Arabic/French/English) writing consultancy " +
			"providing clear, contract-savvy guidance to authors, poets, screenwriters, and songwriters.",
		ToneDirectives: []string{"warm", "professional", "editorially precise", "industry-savvy"},
		PolicyRules: []string{
			"Keep privacy in mind. Only store personal information via the approved tools upon user consent or clear intent.",
			"Default to English; if the user writes in Arabic or French, switch or mix naturally while keeping clarity.",
			"Be concise, structured, and actionable. Offer concrete next steps such as sample pages, a query package, or a lyrics brief.",
		},
	}
}

// Initialize loads the grounding documents, opens the capture logs, builds
// the model client, and returns a ready Concierge. A grounding failure
// returns a *grounding.LoadError and no session is created; the agent may
// not run ungrounded.
func Initialize(opts Options) (*Concierge, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	persona := opts.Persona
	if persona.BusinessName == "" {
		persona = DefaultPersona()
	}
	cfg := opts.Config

	summaryPath := opts.SummaryPath
	if summaryPath == "" {
		summaryPath = cfg.SummaryPath()
	}
	referencePath := opts.ReferencePath
	if referencePath == "" {
		referencePath = cfg.ReferencePath()
	}

	store, err := grounding.Load(summaryPath, referencePath)
	if err != nil {
		return nil, err
	}

	recorder, err := capture.NewRecorder(cfg.LogDir, logger)
	if err != nil {
		return nil, err
	}

	registry, err := agent.NewRegistry(capture.Tools(recorder)...)
	if err != nil {
		recorder.Close()
		return nil, err
	}

	completer := opts.Completer
	if completer == nil {
		completer, err = buildClient(cfg, logger)
		if err != nil {
			recorder.Close()
			return nil, err
		}
	}

	prompt := agent.BuildSystemPrompt(persona, store.Summary(), store.Reference(), registry.Declarations())

	sessionCfg := agent.DefaultSessionConfig()
	sessionCfg.Model = cfg.Model
	sessionCfg.Provider = cfg.Provider

	return &Concierge{
		session:  agent.NewSession(completer, prompt, registry, &sessionCfg),
		recorder: recorder,
	}, nil
}

// buildClient constructs the provider client for the configured backend.
func buildClient(cfg config.Config, logger *zap.Logger) (llmclient.Completer, error) {
	var adapter llmclient.ProviderAdapter
	var err error
	switch cfg.Provider {
	case "", "gemini":
		adapter, err = llmclient.NewGeminiAdapter(cfg.GeminiAPIKey,
			llmclient.WithGeminiModel(cfg.Model))
	default:
		adapter, err = llmclient.NewGollmAdapter(cfg.Provider, cfg.GeminiAPIKey, cfg.Model)
	}
	if err != nil {
		return nil, err
	}

	return llmclient.NewClient(
		llmclient.WithProvider(adapter.Name(), adapter),
		llmclient.WithMiddleware(llmclient.LoggingMiddleware(logger)),
	), nil
}

// Submit processes one user turn and returns the final answer.
func (c *Concierge) Submit(ctx context.Context, userText string) (string, error) {
	return c.session.Submit(ctx, userText)
}

// Session exposes the underlying agent session.
func (c *Concierge) Session() *agent.Session { return c.session }

// Events returns the session event channel.
func (c *Concierge) Events() <-chan agent.SessionEvent { return c.session.Events() }

// Close releases the session and the capture logs.
func (c *Concierge) Close() error {
	c.session.Close()
	return c.recorder.Close()
}
