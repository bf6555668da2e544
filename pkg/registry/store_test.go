package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-typegen/pkg/metadata"
	"github.com/goliatone/go-typegen/pkg/registry"
)

func TestStorePutAndGet(t *testing.T) {
	store := registry.NewStore()
	dt := &metadata.DataType{Name: "PetId", Kind: metadata.KindString}
	if err := store.PutDataType(dt, "petstore.yaml"); err != nil {
		t.Fatalf("put: %v", err)
	}

	entry, ok := store.Get("PetId")
	if !ok {
		t.Fatal("entry not found")
	}
	if entry.IsModel() || entry.Source != "petstore.yaml" || entry.Revision != 1 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.DataType == dt {
		t.Fatal("store must keep its own copy")
	}

	dt.Name = "Mutated"
	again, _ := store.Get("PetId")
	if again.DataType.Name != "PetId" {
		t.Fatalf("caller mutation leaked into the store: %q", again.DataType.Name)
	}
}

func TestStoreRejectsInvalidEntries(t *testing.T) {
	store := registry.NewStore()
	if err := store.PutDataType(&metadata.DataType{Kind: metadata.KindString}, ""); err == nil {
		t.Fatal("expected nameless type to be rejected")
	}
	if err := store.PutModel(&metadata.ModelMetadata{Name: "Empty"}, ""); err == nil {
		t.Fatal("expected model without fields to be rejected")
	}
	if store.Len() != 0 {
		t.Fatalf("rejected entries were stored: %v", store.Names())
	}
}

func TestStoreLastWriterWins(t *testing.T) {
	store := registry.NewStore()
	const writers = 32

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dt := &metadata.DataType{Name: "Shared", Kind: metadata.KindString, Description: fmt.Sprintf("writer %d", i)}
			if err := store.PutDataType(dt, fmt.Sprintf("spec-%d", i)); err != nil {
				t.Errorf("put: %v", err)
			}
		}(i)
	}
	wg.Wait()

	entry, ok := store.Get("Shared")
	if !ok {
		t.Fatal("entry not found")
	}
	if entry.Revision != writers {
		t.Fatalf("revision = %d, want %d", entry.Revision, writers)
	}
	// Description and Source always come from the same writer.
	if want := "writer " + entry.Source[len("spec-"):]; entry.DataType.Description != want {
		t.Fatalf("partial overwrite: description %q from source %q", entry.DataType.Description, entry.Source)
	}
}

func TestStoreRegisterInputAndSnapshot(t *testing.T) {
	name := &metadata.DataType{Name: "Name", Kind: metadata.KindString}
	id := &metadata.DataType{Name: "Id", Kind: metadata.KindString}
	owner := &metadata.ModelMetadata{Name: "Owner", Fields: []metadata.FieldMetadata{{Name: "name", DataType: name}}}
	pet := &metadata.ModelMetadata{Name: "Pet", Fields: []metadata.FieldMetadata{
		{Name: "id", DataType: id},
		{Name: "owner", DataType: metadata.NewReference("Owner")},
	}}
	input := metadata.MustNewGenerationInput([]*metadata.DataType{name, id}, []*metadata.ModelMetadata{pet, owner}, nil)

	store := registry.NewStore()
	if err := store.RegisterInput(input, "petstore.yaml"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"Id", "Name", "Owner", "Pet"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	snapshot, err := store.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := snapshot.Validate(); err != nil {
		t.Fatalf("snapshot should be valid: %v", err)
	}
	var models []string
	for _, model := range snapshot.Models() {
		models = append(models, model.Name)
	}
	if diff := cmp.Diff([]string{"Owner", "Pet"}, models); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}

	if !store.Delete("Owner") || store.Delete("Owner") {
		t.Fatal("Delete reported the wrong presence")
	}
	snapshot, err = store.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := snapshot.Validate(); err == nil {
		t.Fatal("expected dangling reference to be reported")
	}
}
