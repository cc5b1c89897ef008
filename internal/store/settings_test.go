package store

import (
	"context"
	"testing"

	"github.com/nrstore/storefront/internal/db"
)

func TestGetSettingMissing(t *testing.T) {
	database := db.NewTestDB(t)

	value, err := GetSetting(context.Background(), database, SettingInstagramUsername)
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value for unset key, got %q", value)
	}
}

func TestSetSettingReplaces(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	SetSetting(ctx, database, SettingInstagramUsername, "nr.store")
	SetSetting(ctx, database, SettingInstagramUsername, "nr.store.official")

	value, _ := GetSetting(ctx, database, SettingInstagramUsername)
	if value != "nr.store.official" {
		t.Errorf("expected replaced value, got %q", value)
	}
}

func TestJWTSecretStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := JWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("JWTSecret: %v", err)
	}
	if first == "" {
		t.Fatal("expected non-empty secret")
	}

	second, _ := JWTSecret(ctx, database)
	if first != second {
		t.Error("expected secret to be stable across calls")
	}
}
