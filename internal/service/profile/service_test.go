package profile

import (
	"context"
	"errors"
	"testing"

	"shopassist-backend/internal/domain"
)

type memUsers struct {
	byID      map[string]*domain.User
	conflicts int
	updates   int
}

func newMemUsers(users ...domain.User) *memUsers {
	m := &memUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		if u.Version == 0 {
			u.Version = 1
		}
		cp := u
		m.byID[u.ID] = &cp
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Addresses = append([]domain.Address(nil), u.Addresses...)
	return &cp, nil
}

func (m *memUsers) Update(_ context.Context, u domain.User) (*domain.User, error) {
	m.updates++
	if m.conflicts > 0 {
		m.conflicts--
		return nil, domain.ErrVersionConflict
	}
	stored, ok := m.byID[u.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if stored.Version != u.Version {
		return nil, domain.ErrVersionConflict
	}
	u.Version++
	cp := u
	m.byID[u.ID] = &cp
	out := u
	return &out, nil
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func baseUser() domain.User {
	return domain.User{
		ID:          "u1",
		Email:       "jane@example.com",
		DisplayName: "Jane Doe",
		Preferences: domain.DefaultPreferences(),
	}
}

func goodAddress() domain.Address {
	return domain.Address{
		FullName: "Jane Doe",
		Street:   "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62704",
		Phone:    "555-123-4567",
	}
}

func TestUpdateProfileFields(t *testing.T) {
	repo := newMemUsers(baseUser())
	svc := New(repo)

	got, err := svc.UpdateProfile(context.Background(), "u1", ProfileUpdate{
		DisplayName: strPtr("Jane D."),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DisplayName != "Jane D." {
		t.Fatalf("displayName = %q", got.DisplayName)
	}
	if got.Email != "jane@example.com" {
		t.Fatalf("email changed: %q", got.Email)
	}
}

func TestUpdateProfileValidatesName(t *testing.T) {
	svc := New(newMemUsers(baseUser()))
	_, err := svc.UpdateProfile(context.Background(), "u1", ProfileUpdate{DisplayName: strPtr("")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePreferencesMerges(t *testing.T) {
	repo := newMemUsers(baseUser())
	svc := New(repo)

	got, err := svc.UpdatePreferences(context.Background(), "u1", PreferencesUpdate{
		Notifications: &NotificationUpdate{Promotions: boolPtr(false)},
		Currency:      strPtr("EUR"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Preferences.Notifications.Promotions {
		t.Fatalf("promotions flag not cleared")
	}
	if !got.Preferences.Notifications.OrderUpdates {
		t.Fatalf("untouched flag changed")
	}
	if got.Preferences.Currency != "EUR" || got.Preferences.Language != "en" {
		t.Fatalf("preferences = %+v", got.Preferences)
	}
}

func TestUpdatePreferencesValidation(t *testing.T) {
	svc := New(newMemUsers(baseUser()))
	if _, err := svc.UpdatePreferences(context.Background(), "u1", PreferencesUpdate{Language: strPtr("x")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad language: got %v", err)
	}
	if _, err := svc.UpdatePreferences(context.Background(), "u1", PreferencesUpdate{Currency: strPtr("DOLLARS")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad currency: got %v", err)
	}
}

func TestAddressLifecycle(t *testing.T) {
	repo := newMemUsers(baseUser())
	svc := New(repo)

	got, err := svc.AddAddress(context.Background(), "u1", goodAddress())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(got.Addresses) != 1 {
		t.Fatalf("len = %d", len(got.Addresses))
	}
	if got.Addresses[0].Country != domain.DefaultCountry {
		t.Fatalf("country default not applied: %q", got.Addresses[0].Country)
	}

	second := goodAddress()
	second.Street = "2 Oak Ave"
	if _, err := svc.AddAddress(context.Background(), "u1", second); err != nil {
		t.Fatalf("add second: %v", err)
	}

	got, err = svc.UpdateAddress(context.Background(), "u1", 1, AddressUpdate{City: strPtr("Chicago")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Addresses[1].City != "Chicago" || got.Addresses[1].Street != "2 Oak Ave" {
		t.Fatalf("address[1] = %+v", got.Addresses[1])
	}
	if got.Addresses[0].City != "Springfield" {
		t.Fatalf("address[0] touched: %+v", got.Addresses[0])
	}

	got, err = svc.DeleteAddress(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(got.Addresses) != 1 || got.Addresses[0].Street != "2 Oak Ave" {
		t.Fatalf("addresses after delete = %+v", got.Addresses)
	}
}

func TestAddressIndexOutOfRange(t *testing.T) {
	svc := New(newMemUsers(baseUser()))
	if _, err := svc.UpdateAddress(context.Background(), "u1", 5, AddressUpdate{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update past end: got %v", err)
	}
	if _, err := svc.DeleteAddress(context.Background(), "u1", 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete on empty book: got %v", err)
	}
	if _, err := svc.UpdateAddress(context.Background(), "u1", -1, AddressUpdate{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative index: got %v", err)
	}
}

func TestAddAddressValidates(t *testing.T) {
	svc := New(newMemUsers(baseUser()))
	bad := goodAddress()
	bad.ZipCode = "abcde"
	if _, err := svc.AddAddress(context.Background(), "u1", bad); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad zip: got %v", err)
	}
}

func TestMutateRetriesOnVersionConflict(t *testing.T) {
	repo := newMemUsers(baseUser())
	repo.conflicts = 2
	svc := New(repo)

	got, err := svc.AddAddress(context.Background(), "u1", goodAddress())
	if err != nil {
		t.Fatalf("unexpected error after retries: %v", err)
	}
	if len(got.Addresses) != 1 {
		t.Fatalf("address not added")
	}
	if repo.updates != 3 {
		t.Fatalf("updates = %d, want 3", repo.updates)
	}
}

func TestMutateGivesUpAfterRetries(t *testing.T) {
	repo := newMemUsers(baseUser())
	repo.conflicts = 5
	svc := New(repo)

	_, err := svc.AddAddress(context.Background(), "u1", goodAddress())
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}
