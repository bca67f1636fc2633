package tool

import (
	"context"
	"testing"
)

func newNamedTool(name string) *Tool[echoInput, echoOutput] {
	return NewTool(name, func(ctx context.Context, input echoInput) (echoOutput, error) {
		return echoOutput{Echoed: input.Text}, nil
	})
}

func TestCatalogAddAndGet(t *testing.T) {
	catalog := NewCatalogWithTools(newNamedTool("Search"), newNamedTool("Fetch"))

	if catalog.Size() != 2 {
		t.Fatalf("expected 2 tools, got %d", catalog.Size())
	}

	// Lookup is case-insensitive.
	if _, ok := catalog.Get("search"); !ok {
		t.Error("expected to find tool by lowercase name")
	}
	if _, ok := catalog.Get("SEARCH"); !ok {
		t.Error("expected to find tool by uppercase name")
	}
	if !catalog.Has("Fetch") {
		t.Error("expected Has to report existing tool")
	}
	if catalog.Has("Missing") {
		t.Error("expected Has to report missing tool as absent")
	}
}

func TestCatalogReplaceOnSameName(t *testing.T) {
	catalog := NewCatalog()
	catalog.AddTools(newNamedTool("Search"))
	catalog.AddTools(newNamedTool("search"))

	if catalog.Size() != 1 {
		t.Errorf("expected same-name tool to replace, size is %d", catalog.Size())
	}
}

func TestCatalogRemove(t *testing.T) {
	catalog := NewCatalogWithTools(newNamedTool("Search"))

	if !catalog.Remove("SEARCH") {
		t.Error("expected Remove to succeed case-insensitively")
	}
	if catalog.Remove("Search") {
		t.Error("expected second Remove to fail")
	}
	if catalog.Size() != 0 {
		t.Errorf("expected empty catalog, size is %d", catalog.Size())
	}
}

func TestCatalogToolsReturnsCopy(t *testing.T) {
	catalog := NewCatalogWithTools(newNamedTool("Search"))

	tools := catalog.Tools()
	delete(tools, "search")

	if catalog.Size() != 1 {
		t.Error("modifying the returned map should not affect the catalog")
	}
}

func TestCatalogDescriptions(t *testing.T) {
	catalog := NewCatalogWithTools(newNamedTool("Search"), newNamedTool("Fetch"))

	descriptions := catalog.Descriptions()
	if len(descriptions) != 2 {
		t.Fatalf("expected 2 descriptions, got %d", len(descriptions))
	}
	for _, description := range descriptions {
		if description.Parameters == nil {
			t.Errorf("description %q missing parameters schema", description.Name)
		}
	}
}
