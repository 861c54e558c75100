// Package initcmd implements the interactive `codereview init` wizard.
package initcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/codereview/internal/core/config"
	"github.com/hay-kot/codereview/internal/core/styles"
	"github.com/hay-kot/codereview/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool   // skip prompts, use defaults
	Force      bool   // overwrite existing config
	Provider   string // pre-selected provider ("" = prompt)
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Answers holds everything the wizard asks for.
type Answers struct {
	Provider  string
	Model     string
	APIKeyEnv string
	Endpoint  string
	Addr      string
	Theme     string
}

// DefaultAnswers returns the answers used with --yes.
func DefaultAnswers() Answers {
	cfg := config.DefaultConfig()
	return Answers{
		Provider:  cfg.Provider.Name,
		APIKeyEnv: DefaultKeyEnv(cfg.Provider.Name),
		Endpoint:  cfg.Client.Endpoint,
		Addr:      cfg.Server.Addr,
		Theme:     cfg.TUI.Theme,
	}
}

// DefaultKeyEnv returns the conventional API key variable for a provider.
func DefaultKeyEnv(provider string) string {
	switch provider {
	case config.ProviderGemini:
		return "GEMINI_API_KEY"
	case config.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case config.ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// BuildConfig turns answers into a config.
func BuildConfig(a Answers) config.Config {
	cfg := config.DefaultConfig()
	cfg.Provider.Name = a.Provider
	cfg.Provider.Model = a.Model
	cfg.Provider.APIKeyEnv = a.APIKeyEnv
	if a.Endpoint != "" {
		cfg.Client.Endpoint = a.Endpoint
	}
	if a.Addr != "" {
		cfg.Server.Addr = a.Addr
	}
	if a.Theme != "" {
		cfg.TUI.Theme = a.Theme
	}
	return cfg
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := DefaultAnswers()
	if w.opts.Provider != "" {
		answers.Provider = w.opts.Provider
		answers.APIKeyEnv = DefaultKeyEnv(w.opts.Provider)
	}

	if !w.opts.Yes {
		var err error
		answers, err = w.promptUser(answers)
		if err != nil {
			return err
		}
	}

	cfg := BuildConfig(answers)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		p.Successf("Backed up config to: %s", backupPath)
	}

	if err := cfg.Write(w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Wrote config: %s", w.opts.ConfigPath)

	w.printNextSteps(p, cfg)
	return nil
}

func (w *Wizard) promptUser(a Answers) (Answers, error) {
	providerOpts := make([]huh.Option[string], 0, len(config.ProviderNames()))
	for _, name := range config.ProviderNames() {
		providerOpts = append(providerOpts, huh.NewOption(name, name))
	}

	themeOpts := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Review provider").
				Description("Backend the server sends code to").
				Options(providerOpts...).
				Value(&a.Provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Description("Leave empty for the provider's default (required for ollama)").
				Value(&a.Model),
			huh.NewInput().
				Title("API key environment variable").
				DescriptionFunc(func() string {
					if env := DefaultKeyEnv(a.Provider); env != "" {
						return "Conventional name: " + env
					}
					return "Not needed for this provider"
				}, &a.Provider).
				Value(&a.APIKeyEnv),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Server listen address").
				Value(&a.Addr),
			huh.NewInput().
				Title("Review endpoint").
				Description("URL the editor posts code to").
				Value(&a.Endpoint),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&a.Theme),
		),
	)

	if err := form.Run(); err != nil {
		return a, err
	}
	return a, nil
}

func (w *Wizard) printNextSteps(p *printer.Printer, cfg config.Config) {
	p.Printf("")
	p.Section("Next Steps")

	step := 1
	if env := cfg.Provider.APIKeyEnv; env != "" && os.Getenv(env) == "" {
		p.Printf("  %d. Export %s with your %s API key", step, env, cfg.Provider.Name)
		step++
	}

	p.Printf("  %d. Run 'codereview serve' to start the review server", step)
	step++
	p.Printf("  %d. Run 'codereview' to open the editor", step)
}
