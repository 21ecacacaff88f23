package keybinds

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMatchFallsBackToGlobal(t *testing.T) {
	r := NewDefaultRegistry()

	if action, ok := r.Match(ContextNormal, "2"); !ok || action != ActionRunCFSM {
		t.Errorf("Match(normal, 2) = %v, %v", action, ok)
	}
	if action, ok := r.Match(ContextOverlay, "ctrl+c"); !ok || action != ActionQuitForce {
		t.Errorf("Match(overlay, ctrl+c) = %v, %v", action, ok)
	}
	if _, ok := r.Match(ContextEditor, "x"); ok {
		t.Error("Expected printable key to be unbound in editor")
	}
}

func TestMatchMultiKey(t *testing.T) {
	r := NewDefaultRegistry()

	_, complete, partial := r.MatchMultiKey(ContextNormal, "g")
	if complete || !partial {
		t.Fatalf("first g: complete=%v partial=%v", complete, partial)
	}

	action, complete, _ := r.MatchMultiKey(ContextNormal, "g")
	if !complete || action != ActionGoToTop {
		t.Errorf("gg = %v, complete=%v", action, complete)
	}

	// sequence broken by another key
	r.MatchMultiKey(ContextNormal, "g")
	if _, complete, _ := r.MatchMultiKey(ContextNormal, "x"); complete {
		t.Error("Expected gx not to match")
	}

	action, complete, partial = r.MatchMultiKey(ContextNormal, "G")
	if !complete || partial || action != ActionGoToBottom {
		t.Errorf("G = %v, complete=%v partial=%v", action, complete, partial)
	}
}

func TestGetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBindingString(ContextOverlay, ActionCloseModal); got != "esc, q" {
		t.Errorf("GetBindingString = %q", got)
	}
	if got := r.GetBindingString(ContextNormal, ActionHistoryClear); got != "unbound" {
		t.Errorf("GetBindingString = %q", got)
	}
}

func TestListBindingsGlobalLast(t *testing.T) {
	r := NewDefaultRegistry()

	bindings := r.ListBindings(ContextEditor)
	if len(bindings) != 2 {
		t.Fatalf("Expected 2 bindings, got %d", len(bindings))
	}
	if bindings[0].Context != ContextEditor || bindings[1].Context != ContextGlobal {
		t.Errorf("Unexpected order: %+v", bindings)
	}
}

func TestCloneAndMerge(t *testing.T) {
	base := NewDefaultRegistry()
	clone := base.Clone()

	other := NewRegistry()
	other.Register(ContextNormal, "x", ActionRunCFSM)
	clone.Merge(other)

	if base.HasBinding(ContextNormal, "x") {
		t.Error("Merge into clone modified the original")
	}
	if action, _ := clone.Match(ContextNormal, "x"); action != ActionRunCFSM {
		t.Errorf("Expected merged binding, got %v", action)
	}
}

func TestLoadOrDefaultJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	content := `{
  // remap cfsm extraction
  "version": "1.0",
  "normal": {
    "x": "run_cfsm",
    "2": "noop", // disable the default key
  },
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}

	if action, _ := r.Match(ContextNormal, "x"); action != ActionRunCFSM {
		t.Errorf("x = %v", action)
	}
	if action, _ := r.Match(ContextNormal, "2"); action != ActionNoOp {
		t.Errorf("2 = %v", action)
	}
	if action, _ := r.Match(ContextNormal, "1"); action != ActionRunSSA {
		t.Errorf("default binding lost: 1 = %v", action)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	r, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if !r.HasBinding(ContextNormal, "q") {
		t.Error("Expected default bindings")
	}
}

func TestExportDefaultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := CreateExampleConfig(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Normal, ExportDefaults().Normal) {
		t.Error("Exported normal bindings differ after reload")
	}

	r := NewRegistry()
	if err := ApplyConfig(r, loaded); err != nil {
		t.Fatal(err)
	}
	result := NewValidator().ValidateRegistry(r)
	if result.HasErrors() {
		t.Errorf("exported defaults invalid:\n%s", result.String())
	}
}
