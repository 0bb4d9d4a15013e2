package cmd

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	if root.Use != "linkedin-mcp" {
		t.Errorf("Expected Use to be 'linkedin-mcp', got %s", root.Use)
	}
	if root.Long == "" {
		t.Error("Expected Long description to be set")
	}
	if !root.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestSubcommands(t *testing.T) {
	root := newRootCmd()

	found := make(map[string]bool)
	for _, c := range root.Commands() {
		found[c.Name()] = true
	}

	for _, expected := range []string{
		"auth", "whoami", "profile", "post", "article", "posts",
		"delete", "connections", "serve", "version", "self-update",
	} {
		if !found[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestAuthSubcommands(t *testing.T) {
	root := newRootCmd()

	authCmd, _, err := root.Find([]string{"auth"})
	if err != nil {
		t.Fatalf("auth command not found: %v", err)
	}
	for _, name := range []string{"login", "status"} {
		sub, _, err := authCmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("Expected auth %s to be registered", name)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"output", "quiet", "debug", "config-path"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
	if f := root.PersistentFlags().Lookup("output"); f != nil && f.Shorthand != "o" {
		t.Errorf("Expected -o shorthand for --output, got %q", f.Shorthand)
	}
}

func TestNewRootCmdIsolatesFlags(t *testing.T) {
	first := newRootCmd()
	if err := first.PersistentFlags().Set("output", "json"); err != nil {
		t.Fatal(err)
	}

	second := newRootCmd()
	if got := second.PersistentFlags().Lookup("output").Value.String(); got != "table" {
		t.Errorf("Expected a fresh tree to default to table, got %s", got)
	}
}
