package profile

import (
	"context"
	"errors"
	"fmt"

	"shopassist-backend/internal/domain"
)

// updateAttempts bounds retries when a concurrent write bumps the user version
// between our read and write.
const updateAttempts = 3

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
}

// Service handles profile, preference, and address-book mutations.
type Service struct {
	repo userRepo
}

func New(repo userRepo) *Service {
	return &Service{repo: repo}
}

// Get returns the user's profile.
func (s *Service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ProfileUpdate carries optional profile edits; nil fields are left alone.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// UpdateProfile applies the provided profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	if in.DisplayName != nil && (len(*in.DisplayName) == 0 || len(*in.DisplayName) > 100) {
		return nil, fmt.Errorf("%w: display name must be between 1 and 100 characters", domain.ErrValidation)
	}
	return s.mutate(ctx, userID, func(u *domain.User) error {
		if in.DisplayName != nil {
			u.DisplayName = *in.DisplayName
		}
		if in.PhotoURL != nil {
			u.PhotoURL = *in.PhotoURL
		}
		return nil
	})
}

// NotificationUpdate mirrors the notification flags with optional fields.
type NotificationUpdate struct {
	OrderUpdates    *bool `json:"orderUpdates"`
	Promotions      *bool `json:"promotions"`
	Recommendations *bool `json:"recommendations"`
}

// PreferencesUpdate carries optional preference edits.
type PreferencesUpdate struct {
	Notifications *NotificationUpdate `json:"notifications"`
	Language      *string             `json:"language"`
	Currency      *string             `json:"currency"`
}

// UpdatePreferences merges the provided preference fields.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, in PreferencesUpdate) (*domain.User, error) {
	if in.Language != nil && (len(*in.Language) < 2 || len(*in.Language) > 5) {
		return nil, fmt.Errorf("%w: invalid language code", domain.ErrValidation)
	}
	if in.Currency != nil && len(*in.Currency) != 3 {
		return nil, fmt.Errorf("%w: invalid currency code", domain.ErrValidation)
	}
	return s.mutate(ctx, userID, func(u *domain.User) error {
		if in.Notifications != nil {
			if in.Notifications.OrderUpdates != nil {
				u.Preferences.Notifications.OrderUpdates = *in.Notifications.OrderUpdates
			}
			if in.Notifications.Promotions != nil {
				u.Preferences.Notifications.Promotions = *in.Notifications.Promotions
			}
			if in.Notifications.Recommendations != nil {
				u.Preferences.Notifications.Recommendations = *in.Notifications.Recommendations
			}
		}
		if in.Language != nil {
			u.Preferences.Language = *in.Language
		}
		if in.Currency != nil {
			u.Preferences.Currency = *in.Currency
		}
		return nil
	})
}

// AddAddress appends a shipping address to the user's address book.
func (s *Service) AddAddress(ctx context.Context, userID string, addr domain.Address) (*domain.User, error) {
	addr = addr.Normalize()
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(u *domain.User) error {
		u.Addresses = append(u.Addresses, addr)
		return nil
	})
}

// AddressUpdate carries optional per-field address edits.
type AddressUpdate struct {
	FullName *string `json:"fullName"`
	Street   *string `json:"street"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	ZipCode  *string `json:"zipCode"`
	Country  *string `json:"country"`
	Phone    *string `json:"phone"`
}

// UpdateAddress merges the provided fields into the address at the given
// positional index. An index past the end is not found.
func (s *Service) UpdateAddress(ctx context.Context, userID string, index int, in AddressUpdate) (*domain.User, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: invalid address index", domain.ErrValidation)
	}
	return s.mutate(ctx, userID, func(u *domain.User) error {
		if index >= len(u.Addresses) {
			return fmt.Errorf("%w: address not found", domain.ErrNotFound)
		}
		a := u.Addresses[index]
		if in.FullName != nil {
			a.FullName = *in.FullName
		}
		if in.Street != nil {
			a.Street = *in.Street
		}
		if in.City != nil {
			a.City = *in.City
		}
		if in.State != nil {
			a.State = *in.State
		}
		if in.ZipCode != nil {
			a.ZipCode = *in.ZipCode
		}
		if in.Country != nil {
			a.Country = *in.Country
		}
		if in.Phone != nil {
			a.Phone = *in.Phone
		}
		a = a.Normalize()
		if err := a.Validate(); err != nil {
			return err
		}
		u.Addresses[index] = a
		return nil
	})
}

// DeleteAddress removes the address at the given positional index.
func (s *Service) DeleteAddress(ctx context.Context, userID string, index int) (*domain.User, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: invalid address index", domain.ErrValidation)
	}
	return s.mutate(ctx, userID, func(u *domain.User) error {
		if index >= len(u.Addresses) {
			return fmt.Errorf("%w: address not found", domain.ErrNotFound)
		}
		u.Addresses = append(u.Addresses[:index], u.Addresses[index+1:]...)
		return nil
	})
}

// mutate runs a read-modify-write cycle under the optimistic version guard,
// re-reading and retrying when a concurrent edit wins the race.
func (s *Service) mutate(ctx context.Context, userID string, apply func(*domain.User) error) (*domain.User, error) {
	var lastErr error
	for i := 0; i < updateAttempts; i++ {
		u, err := s.repo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := apply(u); err != nil {
			return nil, err
		}
		updated, err := s.repo.Update(ctx, *u)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
