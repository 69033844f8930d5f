package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

// AddressService manages customer shipping addresses used by conversions.
type AddressService struct {
	DB   *gorm.DB
	Repo AddressRepo
}

// AddressInput is a new shipping address.
type AddressInput struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
	IsDefault  bool
}

// Create stores a new address for the acting customer. The first address a
// customer adds becomes the default.
func (s *AddressService) Create(ctx context.Context, a workflow.Actor, in AddressInput) (*domain.Address, error) {
	if strings.TrimSpace(a.ID) == "" {
		return nil, ErrUnauthorized
	}
	addr := &domain.Address{
		CustomerID: a.ID,
		Name:       strings.TrimSpace(in.Name),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		Phone:      strings.TrimSpace(in.Phone),
		IsDefault:  in.IsDefault,
	}
	for field, v := range map[string]string{"name": addr.Name, "line1": addr.Line1, "city": addr.City, "country": addr.Country} {
		if v == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
		if utf8.RuneCountInString(v) > 255 {
			return nil, fmt.Errorf("%w: %s is too long", ErrInvalidInput, field)
		}
	}

	existing, err := s.Repo.ListAddresses(ctx, s.DB, a.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		addr.IsDefault = true
	}
	if err := s.Repo.CreateAddress(ctx, s.DB, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// List returns the acting customer's addresses, default first.
func (s *AddressService) List(ctx context.Context, a workflow.Actor) ([]domain.Address, error) {
	if strings.TrimSpace(a.ID) == "" {
		return nil, ErrUnauthorized
	}
	return s.Repo.ListAddresses(ctx, s.DB, a.ID)
}
