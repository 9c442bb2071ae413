package tags

import (
	"context"
	"net/http"
	"testing"

	"github.com/booklyhq/bookly/internal/apperror"
)

// mockTagRepository implements TagRepository with function fields.
type mockTagRepository struct {
	CreateFunc       func(ctx context.Context, tag *Tag) error
	FindByUIDFunc    func(ctx context.Context, uid string) (*Tag, error)
	FindByNameFunc   func(ctx context.Context, name string) (*Tag, error)
	ListAllFunc      func(ctx context.Context) ([]Tag, error)
	UpdateFunc       func(ctx context.Context, tag *Tag) error
	DeleteFunc       func(ctx context.Context, uid string) error
	AttachToBookFunc func(ctx context.Context, bookUID, tagUID string) error
	ListByBookFunc   func(ctx context.Context, bookUID string) ([]Tag, error)
	BookExistsFunc   func(ctx context.Context, bookUID string) (bool, error)
}

func (m *mockTagRepository) Create(ctx context.Context, tag *Tag) error {
	return m.CreateFunc(ctx, tag)
}

func (m *mockTagRepository) FindByUID(ctx context.Context, uid string) (*Tag, error) {
	return m.FindByUIDFunc(ctx, uid)
}

func (m *mockTagRepository) FindByName(ctx context.Context, name string) (*Tag, error) {
	return m.FindByNameFunc(ctx, name)
}

func (m *mockTagRepository) ListAll(ctx context.Context) ([]Tag, error) {
	return m.ListAllFunc(ctx)
}

func (m *mockTagRepository) Update(ctx context.Context, tag *Tag) error {
	return m.UpdateFunc(ctx, tag)
}

func (m *mockTagRepository) Delete(ctx context.Context, uid string) error {
	return m.DeleteFunc(ctx, uid)
}

func (m *mockTagRepository) AttachToBook(ctx context.Context, bookUID, tagUID string) error {
	return m.AttachToBookFunc(ctx, bookUID, tagUID)
}

func (m *mockTagRepository) ListByBook(ctx context.Context, bookUID string) ([]Tag, error) {
	return m.ListByBookFunc(ctx, bookUID)
}

func (m *mockTagRepository) BookExists(ctx context.Context, bookUID string) (bool, error) {
	return m.BookExistsFunc(ctx, bookUID)
}

func TestTagService_Create(t *testing.T) {
	t.Run("creates a tag with trimmed name", func(t *testing.T) {
		var saved *Tag
		repo := &mockTagRepository{
			CreateFunc: func(ctx context.Context, tag *Tag) error {
				saved = tag
				return nil
			},
		}
		svc := NewTagService(repo)

		tag, err := svc.Create(context.Background(), CreateTagRequest{Name: "  science fiction  "})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if saved == nil {
			t.Fatal("repository Create was never called")
		}
		if tag.Name != "science fiction" {
			t.Errorf("name = %q, want trimmed", tag.Name)
		}
		if tag.UID == "" {
			t.Error("tag has no uid")
		}
	})

	t.Run("duplicate name gets 409", func(t *testing.T) {
		repo := &mockTagRepository{
			CreateFunc: func(ctx context.Context, tag *Tag) error {
				return apperror.NewConflict("A tag with this name already exists.").
					WithCode("TAG_ALREADY_EXISTS")
			},
		}
		svc := NewTagService(repo)

		_, err := svc.Create(context.Background(), CreateTagRequest{Name: "fantasy"})
		if apperror.SafeCode(err) != http.StatusConflict {
			t.Fatalf("Create() status = %d, want 409", apperror.SafeCode(err))
		}
	})
}

func TestTagService_AddToBook(t *testing.T) {
	t.Run("reuses existing tags and creates missing ones", func(t *testing.T) {
		existing := &Tag{UID: "tag-existing", Name: "fantasy"}
		var created []*Tag
		var attached []string
		repo := &mockTagRepository{
			BookExistsFunc: func(ctx context.Context, bookUID string) (bool, error) { return true, nil },
			FindByNameFunc: func(ctx context.Context, name string) (*Tag, error) {
				if name == "fantasy" {
					return existing, nil
				}
				return nil, apperror.NewNotFound("Tag not found.").WithCode("TAG_NOT_FOUND")
			},
			CreateFunc: func(ctx context.Context, tag *Tag) error {
				created = append(created, tag)
				return nil
			},
			AttachToBookFunc: func(ctx context.Context, bookUID, tagUID string) error {
				attached = append(attached, tagUID)
				return nil
			},
			ListByBookFunc: func(ctx context.Context, bookUID string) ([]Tag, error) {
				return []Tag{*existing, {UID: "tag-new", Name: "hugo winner"}}, nil
			},
		}
		svc := NewTagService(repo)

		tags, err := svc.AddToBook(context.Background(), "book-uid-1", AddTagsRequest{
			Tags: []CreateTagRequest{{Name: "fantasy"}, {Name: "hugo winner"}},
		})
		if err != nil {
			t.Fatalf("AddToBook() error = %v", err)
		}

		if len(created) != 1 {
			t.Fatalf("created %d tags, want 1", len(created))
		}
		if created[0].Name != "hugo winner" {
			t.Errorf("created tag %q", created[0].Name)
		}
		if len(attached) != 2 {
			t.Fatalf("attached %d tags, want 2", len(attached))
		}
		if attached[0] != existing.UID {
			t.Errorf("first attachment = %q, want the existing tag", attached[0])
		}
		if len(tags) != 2 {
			t.Errorf("returned %d tags, want 2", len(tags))
		}
	})

	t.Run("missing book gets 404", func(t *testing.T) {
		repo := &mockTagRepository{
			BookExistsFunc: func(ctx context.Context, bookUID string) (bool, error) { return false, nil },
		}
		svc := NewTagService(repo)

		_, err := svc.AddToBook(context.Background(), "missing-book", AddTagsRequest{
			Tags: []CreateTagRequest{{Name: "fantasy"}},
		})
		if apperror.SafeCode(err) != http.StatusNotFound {
			t.Fatalf("AddToBook() status = %d, want 404", apperror.SafeCode(err))
		}
	})
}

func TestTagService_Update(t *testing.T) {
	stored := &Tag{UID: "tag-uid-1", Name: "sci-fi"}

	t.Run("renames an existing tag", func(t *testing.T) {
		var saved *Tag
		repo := &mockTagRepository{
			FindByUIDFunc: func(ctx context.Context, uid string) (*Tag, error) {
				tag := *stored
				return &tag, nil
			},
			UpdateFunc: func(ctx context.Context, tag *Tag) error {
				saved = tag
				return nil
			},
		}
		svc := NewTagService(repo)

		tag, err := svc.Update(context.Background(), stored.UID, CreateTagRequest{Name: "science fiction"})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if tag.Name != "science fiction" {
			t.Errorf("name = %q", tag.Name)
		}
		if saved == nil {
			t.Fatal("repository Update was never called")
		}
	})

	t.Run("missing tag gets 404", func(t *testing.T) {
		repo := &mockTagRepository{
			FindByUIDFunc: func(ctx context.Context, uid string) (*Tag, error) {
				return nil, apperror.NewNotFound("Tag not found.").WithCode("TAG_NOT_FOUND")
			},
		}
		svc := NewTagService(repo)

		_, err := svc.Update(context.Background(), "missing-uid", CreateTagRequest{Name: "anything"})
		if apperror.SafeCode(err) != http.StatusNotFound {
			t.Fatalf("Update() status = %d, want 404", apperror.SafeCode(err))
		}
	})
}
