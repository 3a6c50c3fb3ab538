package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/telecast/mediatheque/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCache_TokenOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	token := &Token{
		TokenType:   "Bearer",
		AccessToken: "abc123",
	}

	// Test SetToken
	err := cache.SetToken(ctx, "user@example.org", token, 30*time.Minute)
	if err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}

	// Test GetToken
	retrieved, err := cache.GetToken(ctx, "user@example.org")
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}

	if retrieved == nil {
		t.Fatal("Retrieved token should not be nil")
	}

	if retrieved.AccessToken != token.AccessToken {
		t.Errorf("Expected access token %s, got %s", token.AccessToken, retrieved.AccessToken)
	}

	if retrieved.TokenType != "Bearer" {
		t.Errorf("Expected token type Bearer, got %s", retrieved.TokenType)
	}

	// Test GetToken for unknown user
	missing, err := cache.GetToken(ctx, "unknown@example.org")
	if err != nil {
		t.Fatalf("GetToken for unknown user should not error: %v", err)
	}

	if missing != nil {
		t.Error("Unknown user token should return nil")
	}

	// Test DeleteToken
	err = cache.DeleteToken(ctx, "user@example.org")
	if err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}

	deleted, err := cache.GetToken(ctx, "user@example.org")
	if err != nil {
		t.Fatalf("GetToken after delete failed: %v", err)
	}

	if deleted != nil {
		t.Error("Deleted token should return nil")
	}
}

func TestCache_HistoryOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	items := []models.CatalogItem{
		{
			ProgramID:  "110342-012-A",
			Kind:       models.KindShow,
			LastViewed: &models.LastViewed{Progress: 0.5, Timecode: 574},
		},
		{
			ProgramID: "110342-013-A",
			Kind:      models.KindShow,
		},
	}

	// Test SetHistory
	err := cache.SetHistory(ctx, "user@example.org", "fr", items, 5*time.Minute)
	if err != nil {
		t.Fatalf("SetHistory failed: %v", err)
	}

	// Test GetHistory
	retrieved, err := cache.GetHistory(ctx, "user@example.org", "fr")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}

	if len(retrieved) != 2 {
		t.Fatalf("Expected 2 history items, got %d", len(retrieved))
	}

	if retrieved[0].ProgramID != "110342-012-A" {
		t.Errorf("Expected program 110342-012-A, got %s", retrieved[0].ProgramID)
	}

	if retrieved[0].Progress() != 0.5 {
		t.Errorf("Expected progress 0.5, got %f", retrieved[0].Progress())
	}

	// Other language is a distinct key
	other, err := cache.GetHistory(ctx, "user@example.org", "de")
	if err != nil {
		t.Fatalf("GetHistory for other language failed: %v", err)
	}

	if other != nil {
		t.Error("History for other language should return nil")
	}

	// Test InvalidateHistory
	err = cache.InvalidateHistory(ctx, "user@example.org")
	if err != nil {
		t.Fatalf("InvalidateHistory failed: %v", err)
	}

	invalidated, err := cache.GetHistory(ctx, "user@example.org", "fr")
	if err != nil {
		t.Fatalf("GetHistory after invalidate failed: %v", err)
	}

	if invalidated != nil {
		t.Error("Invalidated history should return nil")
	}
}

func TestCache_Exists(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	exists, err := cache.Exists(ctx, "token:nobody")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}

	if exists {
		t.Error("Key should not exist initially")
	}

	err = cache.SetToken(ctx, "nobody", &Token{TokenType: "Bearer", AccessToken: "x"}, time.Minute)
	if err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}

	exists, err = cache.Exists(ctx, "token:nobody")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}

	if !exists {
		t.Error("Key should exist after setting")
	}
}
