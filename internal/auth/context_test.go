package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/model"
)

func TestWithAuthAndFromContext(t *testing.T) {
	client := api.New("http://backend.test/api", api.WithToken("tok"))
	ac := AuthContext{
		User:   model.User{UserID: "u1", Email: "a@example.com", FullName: "Alex"},
		Client: client,
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.User.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", got.User.UserID)
	}
	if got.Client != client {
		t.Error("Client not carried through the context")
	}
	if Client(ctx).Token() != "tok" {
		t.Errorf("Client token = %q, want tok", Client(ctx).Token())
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{User: model.User{UserID: "u7"}})
	if UserID(ctx) != "u7" {
		t.Errorf("UserID = %q, want u7", UserID(ctx))
	}
}

func TestMissingContext(t *testing.T) {
	ctx := context.Background()
	if UserID(ctx) != "" {
		t.Error("expected empty user id for missing context")
	}
	if Client(ctx) != nil {
		t.Error("expected nil client for missing context")
	}
	if User(ctx).Email != "" {
		t.Error("expected zero user for missing context")
	}
}
