package domain

import (
	"testing"
	"time"
)

func TestIdempotency_Schema(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if !db.Migrator().HasIndex(&Idempotency{}, "ux_user_design_key") {
		t.Fatal("unique index ux_user_design_key missing")
	}

	now := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)
	valid := func(id string) Idempotency {
		return Idempotency{
			ID: id, UserID: "cust-1", DesignID: "d-1", Key: "retry-1",
			ResourceID: "o-1", Status: 201, CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		}
	}

	first := valid("rec-1")
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var got Idempotency
	if err := db.Take(&got, "id = ?", "rec-1").Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.ResourceID != "o-1" || got.Status != 201 || !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	same := valid("rec-2")
	if err := db.Create(&same).Error; err == nil {
		t.Fatal("second record for the same (user, design, key) must be rejected")
	}

	otherDesign := valid("rec-3")
	otherDesign.DesignID = "d-2"
	if err := db.Create(&otherDesign).Error; err != nil {
		t.Fatalf("same key on another design should be allowed: %v", err)
	}
}

func TestIdempotency_RequiredColumns(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	for _, col := range []string{"user_id", "design_id", "key", "resource_id", "status", "expires_at"} {
		col := col
		t.Run(col, func(t *testing.T) {
			row := map[string]any{
				"id": "null-" + col, "user_id": "u", "design_id": "d", "key": "k-" + col,
				"resource_id": "o", "status": 200, "created_at": time.Now(), "expires_at": time.Now(),
			}
			row[col] = nil
			if err := db.Table(Idempotency{}.TableName()).Create(row).Error; err == nil {
				t.Fatalf("NULL %s accepted", col)
			}
		})
	}
}
