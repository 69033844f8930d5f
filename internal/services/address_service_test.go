package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

func TestAddressService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.addAddress(t, customer)
	if !first.IsDefault {
		t.Fatal("first address should become the default")
	}

	second, err := f.address.Create(ctx, customer, AddressInput{
		Name: " Asha ", Line1: "Plot 7", City: "Mumbai", Country: "IN", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.Name != "Asha" {
		t.Fatalf("name not trimmed: %q", second.Name)
	}

	list, err := f.address.List(ctx, customer)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if list[0].ID != second.ID || !list[0].IsDefault || list[1].IsDefault {
		t.Fatalf("default not moved to newest: %+v", list)
	}

	others, err := f.address.List(ctx, other)
	if err != nil || len(others) != 0 {
		t.Fatalf("other customer sees %d addresses (err=%v)", len(others), err)
	}
}

func TestAddressService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.address.Create(ctx, customer, AddressInput{Name: "A", Line1: "L", City: "C"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing country err = %v; want ErrInvalidInput", err)
	}
	if _, err := f.address.Create(ctx, workflow.Actor{}, AddressInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous err = %v; want ErrUnauthorized", err)
	}
	if _, err := f.address.List(ctx, workflow.Actor{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous list err = %v; want ErrUnauthorized", err)
	}
}

func TestSellerDirectory(t *testing.T) {
	d := NewSellerDirectory([]string{" seller-1 ", "", "seller-2"})
	if !d.IsSeller("seller-1") || !d.IsSeller("seller-2") || d.IsSeller("cust-1") || d.IsSeller("") {
		t.Fatal("membership mismatch")
	}
	var nilDir *SellerDirectory
	if nilDir.IsSeller("seller-1") {
		t.Fatal("nil directory must not report sellers")
	}
}
