package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to manualsite! Let's describe the manual you want to serve.")
	fmt.Println()

	cfg := DefaultConfig()
	def := DefaultManual()

	// 1. Manual name (route prefix).
	namePrompt := promptui.Prompt{
		Label:   "Manual name (route prefix)",
		Default: def.Name,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("name is required")
			}
			if strings.ContainsAny(s, "@/") {
				return fmt.Errorf("name must not contain '@' or '/'")
			}
			return nil
		},
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("manual name: %w", err)
	}

	// 2. Source repository.
	repoPrompt := promptui.Prompt{
		Label:   "Source repository (owner/repo)",
		Default: def.Owner + "/" + def.Repo,
		Validate: func(s string) error {
			if _, _, ok := strings.Cut(strings.TrimSpace(s), "/"); !ok {
				return fmt.Errorf("expected owner/repo")
			}
			return nil
		},
	}
	repoStr, err := repoPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source repository: %w", err)
	}
	owner, repo, _ := strings.Cut(strings.TrimSpace(repoStr), "/")

	// 3. Docs directory inside the repository.
	dirPrompt := promptui.Prompt{
		Label:   "Docs directory inside the repository",
		Default: "docs",
	}
	docsDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs directory: %w", err)
	}
	docsDir = strings.Trim(docsDir, "/")

	// 4. Default branch.
	branchPrompt := promptui.Select{
		Label: "Default branch",
		Items: []string{"master", "main"},
	}
	_, branch, err := branchPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default branch: %w", err)
	}

	// 5. Supported version prefix.
	prefixPrompt := promptui.Prompt{
		Label:   "Only list versions starting with (blank for all)",
		Default: def.VersionPrefix,
	}
	prefix, err := prefixPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("version prefix: %w", err)
	}

	cfg.Manuals = []ManualConfig{{
		Name:          strings.TrimSpace(name),
		Title:         strings.TrimSpace(name),
		Owner:         owner,
		Repo:          repo,
		RawBaseURL:    fmt.Sprintf("https://cdn.jsdelivr.net/gh/%s/%s@{version}/%s", owner, repo, docsDir),
		ViewBaseURL:   fmt.Sprintf("https://github.com/%s/%s/blob/{version}/%s", owner, repo, docsDir),
		DefaultBranch: branch,
		DefaultPath:   def.DefaultPath,
		VersionPrefix: strings.TrimSpace(prefix),
	}}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
