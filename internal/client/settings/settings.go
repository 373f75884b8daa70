package settings

import (
	"fmt"
	"strconv"
)

// Persisted keys.
const (
	keyLowStockThreshold  = "lowStockThreshold"
	keyCurrency           = "currency"
	keySortOrder          = "sortOrder"
	keyShowLowStockOnly   = "showLowStockOnly"
	keyShowLowStockAlerts = "showLowStockAlerts"
)

// Defaults.
const (
	DefaultLowStockThreshold = 5
	DefaultCurrency          = "gold"
	DefaultSortOrder         = "qtyLowHigh"
)

// Settings is the explicit client configuration object. It is constructed
// once at session start and passed to the view layer; nothing here lives in
// package-level state.
type Settings struct {
	LowStockThreshold  int
	Currency           string
	SortOrder          string
	ShowLowStockOnly   bool
	ShowLowStockAlerts bool
}

// Defaults returns the out-of-the-box configuration.
func Defaults() Settings {
	return Settings{
		LowStockThreshold:  DefaultLowStockThreshold,
		Currency:           DefaultCurrency,
		SortOrder:          DefaultSortOrder,
		ShowLowStockOnly:   false,
		ShowLowStockAlerts: true,
	}
}

// Backend is the per-key string persistence the store writes through.
type Backend interface {
	Save(key, value string) error
	Load(key string) (string, bool, error)
	Delete(key string) error
}

// Store owns the live Settings value and keeps the backend in sync.
type Store struct {
	backend  Backend
	settings Settings
}

// NewStore loads persisted values over the defaults.
func NewStore(backend Backend) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("settings backend is required")
	}
	s := &Store{backend: backend, settings: Defaults()}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns a copy of the live settings.
func (s *Store) Current() Settings {
	return s.settings
}

// SetLowStockThreshold persists a new threshold. The value must be at least 1.
func (s *Store) SetLowStockThreshold(threshold int) error {
	if threshold < 1 {
		return fmt.Errorf("low stock threshold must be at least 1")
	}
	if err := s.backend.Save(keyLowStockThreshold, strconv.Itoa(threshold)); err != nil {
		return err
	}
	s.settings.LowStockThreshold = threshold
	return nil
}

// SetCurrency persists the display currency label.
func (s *Store) SetCurrency(currency string) error {
	if currency == "" {
		return fmt.Errorf("currency cannot be empty")
	}
	if err := s.backend.Save(keyCurrency, currency); err != nil {
		return err
	}
	s.settings.Currency = currency
	return nil
}

// SetSortOrder persists the sort key. Unknown keys are stored as-is; the
// view layer treats them as identity order.
func (s *Store) SetSortOrder(order string) error {
	if err := s.backend.Save(keySortOrder, order); err != nil {
		return err
	}
	s.settings.SortOrder = order
	return nil
}

// SetShowLowStockOnly persists the low-stock filter toggle.
func (s *Store) SetShowLowStockOnly(enabled bool) error {
	if err := s.backend.Save(keyShowLowStockOnly, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	s.settings.ShowLowStockOnly = enabled
	return nil
}

// SetShowLowStockAlerts persists the alerts toggle.
func (s *Store) SetShowLowStockAlerts(enabled bool) error {
	if err := s.backend.Save(keyShowLowStockAlerts, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	s.settings.ShowLowStockAlerts = enabled
	return nil
}

// Reset restores the defaults and clears every persisted key.
func (s *Store) Reset() error {
	for _, key := range []string{
		keyLowStockThreshold,
		keyCurrency,
		keySortOrder,
		keyShowLowStockOnly,
		keyShowLowStockAlerts,
	} {
		if err := s.backend.Delete(key); err != nil {
			return err
		}
	}
	s.settings = Defaults()
	return nil
}

func (s *Store) load() error {
	if raw, ok, err := s.backend.Load(keyLowStockThreshold); err != nil {
		return err
	} else if ok {
		threshold, convErr := strconv.Atoi(raw)
		if convErr != nil || threshold < 1 {
			return fmt.Errorf("persisted low stock threshold %q is invalid", raw)
		}
		s.settings.LowStockThreshold = threshold
	}

	if raw, ok, err := s.backend.Load(keyCurrency); err != nil {
		return err
	} else if ok && raw != "" {
		s.settings.Currency = raw
	}

	if raw, ok, err := s.backend.Load(keySortOrder); err != nil {
		return err
	} else if ok {
		s.settings.SortOrder = raw
	}

	if raw, ok, err := s.backend.Load(keyShowLowStockOnly); err != nil {
		return err
	} else if ok {
		enabled, convErr := strconv.ParseBool(raw)
		if convErr != nil {
			return fmt.Errorf("persisted low stock filter %q is invalid", raw)
		}
		s.settings.ShowLowStockOnly = enabled
	}

	if raw, ok, err := s.backend.Load(keyShowLowStockAlerts); err != nil {
		return err
	} else if ok {
		enabled, convErr := strconv.ParseBool(raw)
		if convErr != nil {
			return fmt.Errorf("persisted alerts toggle %q is invalid", raw)
		}
		s.settings.ShowLowStockAlerts = enabled
	}

	return nil
}
